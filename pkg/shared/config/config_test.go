package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Logger.Level)
	assert.Equal(t, "", cfg.Scratch.Folder)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: debug\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestValidateConfig(t *testing.T) {
	scratch := t.TempDir()

	assert.NoError(t, ValidateConfig(&Config{}))
	assert.NoError(t, ValidateConfig(&Config{Logger: Logger{Level: "debug"}, Scratch: Scratch{Folder: scratch}}))
	assert.Error(t, ValidateConfig(&Config{Logger: Logger{Level: "loud"}}))
	assert.Error(t, ValidateConfig(&Config{Scratch: Scratch{Folder: filepath.Join(scratch, "missing")}}))
	assert.Error(t, ValidateConfig(nil))
}
