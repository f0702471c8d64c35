package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	databaseproperty "github.com/rvermeulen/codeql-postproc/cmd/database-property"
	databaseprovenance "github.com/rvermeulen/codeql-postproc/cmd/database-provenance"
	sarifprovenance "github.com/rvermeulen/codeql-postproc/cmd/sarif-provenance"
	"github.com/rvermeulen/codeql-postproc/cmd/version"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/errors"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "codeql-postproc [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Post-process CodeQL databases and SARIF result files.",
		Long: `Codeql-postproc annotates static-analysis artifacts with version control
provenance: it records repository URI, revision and branch on CodeQL databases
and SARIF result files, and reads back arbitrary database properties.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")

	rootCmd.AddCommand(databaseCmd)
	rootCmd.AddCommand(sarifCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and maps failures to a process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config file %q: %v\n", cfgFile, err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	l := logger.NewLogger(AppConfig, "core")
	databaseprovenance.Init(AppConfig, l)
	databaseproperty.Init(AppConfig, l)
	sarifprovenance.Init(AppConfig, l)
}
