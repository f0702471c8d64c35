package databaseprovenance

import (
	"fmt"
	"strings"
)

// validateAddProvenanceArgs validates the required command options: either an
// explicit URI/revision pair or a checkout to derive them from.
func validateAddProvenanceArgs(options *RunOptions) error {
	fromGit := strings.TrimSpace(options.FromGit) != ""
	explicit := strings.TrimSpace(options.RepositoryURI) != "" || strings.TrimSpace(options.RevisionID) != ""

	if fromGit && explicit {
		return fmt.Errorf("'from-git' cannot be combined with 'repository-uri' or 'revision-id'")
	}
	if fromGit {
		return nil
	}

	var missing []string
	if strings.TrimSpace(options.RepositoryURI) == "" {
		missing = append(missing, "repository-uri")
	}
	if strings.TrimSpace(options.RevisionID) == "" {
		missing = append(missing, "revision-id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}
