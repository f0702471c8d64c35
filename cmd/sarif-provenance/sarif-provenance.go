package sarifprovenance

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/rvermeulen/codeql-postproc/internal/sarif"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/errors"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/files"
)

// RunOptions holds the command arguments for sarif add-vcs-provenance.
type RunOptions struct {
	RepositoryURI string
	RevisionID    string
	Branch        string
	FromDatabase  string
}

var (
	AppConfig *config.Config
	logger    hclog.Logger
	options   RunOptions

	exampleAddProvenanceUsage = `  # Record explicit provenance on a SARIF file
  codeql-postproc sarif add-vcs-provenance -u https://github.com/acme/app -r 4f1c9d2 results.sarif

  # Copy provenance from a previously annotated CodeQL database
  codeql-postproc sarif add-vcs-provenance --from-database ./app-db.zip results.sarif`

	AddProvenanceCmd = &cobra.Command{
		Use:                   "add-vcs-provenance [-u URI -r REVISION [-b BRANCH] | --from-database DATABASE] SARIF",
		Short:                 "Append version control provenance to every run of a SARIF file",
		Example:               exampleAddProvenanceUsage,
		Args:                  cobra.ExactArgs(1),
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runAddProvenance,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runAddProvenance(cmd *cobra.Command, args []string) error {
	if err := validateAddProvenanceArgs(&options); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), 1)
	}

	sarifPath := args[0]
	if err := files.ValidatePath(sarifPath); err != nil {
		logger.Error("invalid SARIF path", "path", sarifPath, "error", err)
		return errors.NewCommandError(err, 1)
	}

	provenance, err := resolveProvenance(&options)
	if err != nil {
		logger.Error("failed to resolve provenance", "error", err)
		return errors.NewCommandError(err, 1)
	}

	doc, err := sarif.Load(sarifPath, logger)
	if err != nil {
		logger.Error("failed to load SARIF file", "path", sarifPath, "error", err)
		return errors.NewCommandError(err, 1)
	}

	if tool, err := doc.ExtractToolNameAndVersion(); err == nil {
		logger.Debug("processing SARIF report", "tool", tool.Name)
	}

	if err := doc.AddVersionControlProvenance(provenance.RepositoryURI, provenance.RevisionID, provenance.Branch); err != nil {
		logger.Error("failed to add version control provenance", "path", sarifPath, "error", err)
		return errors.NewCommandError(err, 1)
	}

	logger.Info("version control provenance appended",
		"sarif", sarifPath, "uri", provenance.RepositoryURI, "revision", provenance.RevisionID)
	return nil
}

func init() {
	AddProvenanceCmd.Flags().StringVarP(&options.RepositoryURI, "repository-uri", "u", "", "An absolute URI that specifies the location of the repository")
	AddProvenanceCmd.Flags().StringVarP(&options.RevisionID, "revision-id", "r", "", "A string that uniquely and permanently identifies the revision")
	AddProvenanceCmd.Flags().StringVarP(&options.Branch, "branch", "b", "", "Name of the analyzed branch")
	AddProvenanceCmd.Flags().StringVarP(&options.FromDatabase, "from-database", "d", "", "Take provenance from the CodeQL database at the given path")
	AddProvenanceCmd.Flags().BoolP("help", "h", false, "Show help for add-vcs-provenance command.")
}
