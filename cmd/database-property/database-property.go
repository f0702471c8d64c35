package databaseproperty

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/rvermeulen/codeql-postproc/internal/database"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/errors"
)

// RunOptions holds the command arguments for database get-property.
type RunOptions struct {
	OutputFormat string
}

var (
	AppConfig *config.Config
	logger    hclog.Logger
	options   RunOptions

	exampleGetPropertyUsage = `  # Read the primary language of a database
  codeql-postproc database get-property primaryLanguage ./app-db

  # Read a nested provenance field from an archived database, rendered as JSON
  codeql-postproc database get-property -f json versionControlProvenance[0].repositoryUri ./app-db.zip`

	GetPropertyCmd = &cobra.Command{
		Use:                   "get-property [-f yaml|json] KEY DATABASE",
		Short:                 "Read a database property by its dotted key",
		Example:               exampleGetPropertyUsage,
		Args:                  cobra.ExactArgs(2),
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runGetProperty,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runGetProperty(cmd *cobra.Command, args []string) error {
	if err := validateGetPropertyArgs(&options); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), 1)
	}

	key, dbPath := args[0], args[1]

	db, err := database.Open(dbPath, config.GetScratchHome(AppConfig), logger)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		return errors.NewCommandError(err, 1)
	}

	value, err := db.GetProperty(key)
	if err != nil {
		logger.Error("failed to read database property", "key", key, "error", err)
		return errors.NewCommandError(err, 1)
	}

	rendered, err := renderValue(value, options.OutputFormat)
	if err != nil {
		return errors.NewCommandError(err, 1)
	}
	fmt.Print(rendered)

	return nil
}

func init() {
	GetPropertyCmd.Flags().StringVarP(&options.OutputFormat, "format", "f", "yaml", "Output format for the property value (yaml or json)")
	GetPropertyCmd.Flags().BoolP("help", "h", false, "Show help for get-property command.")
}
