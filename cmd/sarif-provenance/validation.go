package sarifprovenance

import (
	"fmt"
	"strings"
)

// validateAddProvenanceArgs validates the required command options: either a
// database to copy provenance from, or an explicit URI/revision pair.
func validateAddProvenanceArgs(options *RunOptions) error {
	fromDatabase := strings.TrimSpace(options.FromDatabase) != ""
	explicit := strings.TrimSpace(options.RepositoryURI) != "" || strings.TrimSpace(options.RevisionID) != ""

	if fromDatabase && explicit {
		return fmt.Errorf("'from-database' cannot be combined with 'repository-uri' or 'revision-id'")
	}
	if fromDatabase {
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
