package databaseprovenance

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/rvermeulen/codeql-postproc/internal/database"
	"github.com/rvermeulen/codeql-postproc/internal/git"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/errors"
)

// RunOptions holds the command arguments for database add-vcs-provenance.
type RunOptions struct {
	RepositoryURI string
	RevisionID    string
	Branch        string
	FromGit       string
}

var (
	AppConfig *config.Config
	logger    hclog.Logger
	options   RunOptions

	exampleAddProvenanceUsage = `  # Record explicit provenance on a database directory
  codeql-postproc database add-vcs-provenance -u https://github.com/acme/app -r 4f1c9d2 ./app-db

  # Derive provenance from the analyzed checkout and record it on an archived database
  codeql-postproc database add-vcs-provenance --from-git ./src ./app-db.zip`

	AddProvenanceCmd = &cobra.Command{
		Use:                   "add-vcs-provenance [-u URI -r REVISION [-b BRANCH] | --from-git SOURCE] DATABASE",
		Short:                 "Record version control provenance as a database user property",
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

	provenance, err := resolveProvenance(&options)
	if err != nil {
		logger.Error("failed to resolve provenance", "error", err)
		return errors.NewCommandError(err, 1)
	}

	db, err := database.Open(args[0], config.GetScratchHome(AppConfig), logger)
	if err != nil {
		logger.Error("failed to open database", "path", args[0], "error", err)
		return errors.NewCommandError(err, 1)
	}

	record := map[string]interface{}{
		"repositoryUri": provenance.RepositoryURI,
		"revisionId":    provenance.RevisionID,
	}
	if provenance.Branch != "" {
		record["branch"] = provenance.Branch
	}

	err = db.SetProperty(map[string]interface{}{
		"versionControlProvenance": []interface{}{record},
	})
	if err != nil {
		logger.Error("failed to set database property", "path", args[0], "error", err)
		return errors.NewCommandError(err, 1)
	}

	logger.Info("version control provenance recorded",
		"database", args[0], "uri", provenance.RepositoryURI, "revision", provenance.RevisionID)
	return nil
}

// resolveProvenance takes provenance from the explicit flags or derives it
// from the checkout named by --from-git.
func resolveProvenance(options *RunOptions) (*git.Provenance, error) {
	if options.FromGit != "" {
		return git.DeriveProvenance(options.FromGit, logger)
	}
	return &git.Provenance{
		RepositoryURI: options.RepositoryURI,
		RevisionID:    options.RevisionID,
		Branch:        options.Branch,
	}, nil
}

func init() {
	AddProvenanceCmd.Flags().StringVarP(&options.RepositoryURI, "repository-uri", "u", "", "An absolute URI that specifies the location of the repository")
	AddProvenanceCmd.Flags().StringVarP(&options.RevisionID, "revision-id", "r", "", "A string that uniquely and permanently identifies the revision")
	AddProvenanceCmd.Flags().StringVarP(&options.Branch, "branch", "b", "", "Name of the analyzed branch")
	AddProvenanceCmd.Flags().StringVar(&options.FromGit, "from-git", "", "Derive provenance from the git checkout at the given path")
	AddProvenanceCmd.Flags().BoolP("help", "h", false, "Show help for add-vcs-provenance command.")
}
