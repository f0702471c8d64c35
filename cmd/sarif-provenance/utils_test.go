package sarifprovenance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvermeulen/codeql-postproc/internal/database"
	"github.com/rvermeulen/codeql-postproc/pkg/shared/config"
)

const annotatedMetadata = `sourceLocationPrefix: /home/runner/work/app
primaryLanguage: go
versionControlProvenance:
  - repositoryUri: https://github.com/acme/app
    revisionId: 4f1c9d2ab
    branch: main
`

func buildAnnotatedDatabase(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "app-db")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, database.MetadataFileName), []byte(annotatedMetadata), 0644))
	return root
}

func TestResolveProvenance(t *testing.T) {
	Init(&config.Config{}, hclog.NewNullLogger())
	dbPath := buildAnnotatedDatabase(t)

	testCases := []struct {
		name         string
		options      RunOptions
		wantURI      string
		wantRevision string
		wantBranch   string
	}{
		{
			name:         "explicit flags",
			options:      RunOptions{RepositoryURI: "https://github.com/acme/other", RevisionID: "97eab33f1", Branch: "release"},
			wantURI:      "https://github.com/acme/other",
			wantRevision: "97eab33f1",
			wantBranch:   "release",
		},
		{
			name:         "database provides the branch",
			options:      RunOptions{FromDatabase: dbPath},
			wantURI:      "https://github.com/acme/app",
			wantRevision: "4f1c9d2ab",
			wantBranch:   "main",
		},
		{
			name:         "explicit branch overrides the database branch",
			options:      RunOptions{FromDatabase: dbPath, Branch: "release"},
			wantURI:      "https://github.com/acme/app",
			wantRevision: "4f1c9d2ab",
			wantBranch:   "release",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provenance, err := resolveProvenance(&tc.options)
			require.NoError(t, err)
			assert.Equal(t, tc.wantURI, provenance.RepositoryURI)
			assert.Equal(t, tc.wantRevision, provenance.RevisionID)
			assert.Equal(t, tc.wantBranch, provenance.Branch)
		})
	}
}

func TestResolveProvenanceFromUnannotatedDatabase(t *testing.T) {
	Init(&config.Config{}, hclog.NewNullLogger())
	root := filepath.Join(t.TempDir(), "app-db")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, database.MetadataFileName), []byte("primaryLanguage: go\n"), 0644))

	_, err := resolveProvenance(&RunOptions{FromDatabase: root})

	assert.ErrorContains(t, err, "does not have any version control provenance")
}
