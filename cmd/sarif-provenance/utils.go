package sarifprovenance

import (
	"errors"
	"fmt"

	"github.com/rvermeulen/codeql-postproc/internal/database"
	"github.com/rvermeulen/codeql-postproc/internal/git"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
)

// resolveProvenance turns the command options into a provenance record. When
// provenance is copied from a database, an explicit --branch still takes
// precedence over the branch stored in the database.
func resolveProvenance(options *RunOptions) (*git.Provenance, error) {
	if options.FromDatabase == "" {
		return &git.Provenance{
			RepositoryURI: options.RepositoryURI,
			RevisionID:    options.RevisionID,
			Branch:        options.Branch,
		}, nil
	}

	provenance, err := provenanceFromDatabase(options.FromDatabase)
	if err != nil {
		return nil, err
	}
	if options.Branch != "" {
		provenance.Branch = options.Branch
	}
	return provenance, nil
}

// provenanceFromDatabase reads the first record of a database's
// versionControlProvenance property. The record must carry a repositoryUri
// and a revisionId; a branch is optional.
func provenanceFromDatabase(dbPath string) (*git.Provenance, error) {
	db, err := database.Open(dbPath, config.GetScratchHome(AppConfig), logger)
	if err != nil {
		return nil, err
	}

	value, err := db.GetProperty("versionControlProvenance[0]")
	if err != nil {
		var notFound *database.KeyNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("the database does not have any version control provenance property")
		}
		return nil, err
	}

	record, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("the database's version control provenance is not an object")
	}

	provenance := &git.Provenance{}
	if provenance.RepositoryURI, ok = record["repositoryUri"].(string); !ok {
		return nil, fmt.Errorf("the database's version control provenance misses the 'repositoryUri' property")
	}
	if provenance.RevisionID, ok = record["revisionId"].(string); !ok {
		return nil, fmt.Errorf("the database's version control provenance misses the 'revisionId' property")
	}
	if branch, present := record["branch"].(string); present {
		provenance.Branch = branch
	}
	return provenance, nil
}
