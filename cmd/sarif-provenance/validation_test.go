package sarifprovenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddProvenanceArgs(t *testing.T) {
	testCases := []struct {
		name    string
		options RunOptions
		wantErr bool
	}{
		{
			name:    "explicit provenance",
			options: RunOptions{RepositoryURI: "https://github.com/acme/app", RevisionID: "4f1c9d2"},
			wantErr: false,
		},
		{
			name:    "from database",
			options: RunOptions{FromDatabase: "./app-db.zip"},
			wantErr: false,
		},
		{
			name:    "missing revision",
			options: RunOptions{RepositoryURI: "https://github.com/acme/app"},
			wantErr: true,
		},
		{
			name:    "missing repository uri",
			options: RunOptions{RevisionID: "4f1c9d2"},
			wantErr: true,
		},
		{
			name:    "no inputs at all",
			options: RunOptions{},
			wantErr: true,
		},
		{
			name:    "database combined with explicit flags",
			options: RunOptions{FromDatabase: "./app-db.zip", RepositoryURI: "https://github.com/acme/app"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateAddProvenanceArgs(&tc.options)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
