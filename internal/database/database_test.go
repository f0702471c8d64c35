package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMetadata = `sourceLocationPrefix: /home/user/project
primaryLanguage: go
baselineLinesOfCode: 1542
creationMetadata:
  sha: 4f1c9d2ab
  cliVersion: 2.15.3
`

// writeDirDatabase lays out a directory-form database with the given metadata.
func writeDirDatabase(t *testing.T, metadata string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFileName), []byte(metadata), 0644))
	return dir
}

func TestOpenDirectoryDatabase(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)

	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, dir, db.Path())
}

func TestOpenFailsForMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no-such-db"), "", hclog.NewNullLogger())

	var invalid *InvalidDatabaseError
	require.ErrorAs(t, err, &invalid)
}

func TestOpenFailsForDirectoryWithoutMetadata(t *testing.T) {
	_, err := Open(t.TempDir(), "", hclog.NewNullLogger())

	var invalid *InvalidDatabaseError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, MetadataFileName)
}

func TestGetPropertyFromMetadata(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	value, err := db.GetProperty("primaryLanguage")
	require.NoError(t, err)
	assert.Equal(t, "go", value)

	nested, err := db.GetProperty("creationMetadata.sha")
	require.NoError(t, err)
	assert.Equal(t, "4f1c9d2ab", nested)
}

func TestGetPropertyMissingKey(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	_, err = db.GetProperty("doesNotExist")

	var notFound *KeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "doesNotExist", notFound.Key)
}

func TestSetPropertyThenGetRoundTrip(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	record := map[string]interface{}{
		"repositoryUri": "https://github.com/acme/app",
		"revisionId":    "4f1c9d2ab",
	}
	err = db.SetProperty(map[string]interface{}{
		"versionControlProvenance": []interface{}{record},
	})
	require.NoError(t, err)

	value, err := db.GetProperty("versionControlProvenance[0].repositoryUri")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/app", value)
}

func TestSetPropertyMergesShallowly(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	require.NoError(t, db.SetProperty(map[string]interface{}{"owner": "team-a", "reviewed": false}))
	require.NoError(t, db.SetProperty(map[string]interface{}{"reviewed": true}))

	owner, err := db.GetProperty("owner")
	require.NoError(t, err)
	assert.Equal(t, "team-a", owner)

	reviewed, err := db.GetProperty("reviewed")
	require.NoError(t, err)
	assert.Equal(t, true, reviewed)
}

func TestSetPropertyRejectsImmutableKeys(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	err = db.SetProperty(map[string]interface{}{
		"owner":           "team-a",
		"primaryLanguage": "rust",
	})

	var immutable *ImmutablePropertyError
	require.ErrorAs(t, err, &immutable)
	assert.Equal(t, "primaryLanguage", immutable.Key)

	// the whole call must fail: no partial write of the mutable key
	_, err = os.Stat(filepath.Join(dir, OverlayFileName))
	assert.True(t, os.IsNotExist(err))

	// and the immutable value is untouched
	value, err := db.GetProperty("primaryLanguage")
	require.NoError(t, err)
	assert.Equal(t, "go", value)
}

func TestImmutableCheckIsTopLevelOnly(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	// "creationMetadata.sha" exists in the metadata, but only exact top-level
	// keys are protected
	require.NoError(t, db.SetProperty(map[string]interface{}{"sha": "override"}))

	value, err := db.GetProperty("sha")
	require.NoError(t, err)
	assert.Equal(t, "override", value)
}

func TestMetadataTakesPrecedenceOverOverlay(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	require.NoError(t, os.WriteFile(filepath.Join(dir, OverlayFileName), []byte("primaryLanguage: rust\n"), 0644))

	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	value, err := db.GetProperty("primaryLanguage")
	require.NoError(t, err)
	assert.Equal(t, "go", value)
}

func TestMalformedOverlayIsInvalidDatabase(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	require.NoError(t, os.WriteFile(filepath.Join(dir, OverlayFileName), []byte("- just\n- a\n- list\n"), 0644))

	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	var invalid *InvalidDatabaseError

	_, err = db.GetProperty("doesNotExist")
	require.ErrorAs(t, err, &invalid)

	err = db.SetProperty(map[string]interface{}{"owner": "team-a"})
	require.ErrorAs(t, err, &invalid)
}

func TestSetPropertyWithNoKeysIsANoOp(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	require.NoError(t, db.SetProperty(map[string]interface{}{}))

	_, err = os.Stat(filepath.Join(dir, OverlayFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestGetPropertyRejectsMalformedKey(t *testing.T) {
	dir := writeDirDatabase(t, testMetadata)
	db, err := Open(dir, "", hclog.NewNullLogger())
	require.NoError(t, err)

	_, err = db.GetProperty("creationMetadata[")
	require.Error(t, err)

	var notFound *KeyNotFoundError
	assert.False(t, errors.As(err, &notFound))
}
