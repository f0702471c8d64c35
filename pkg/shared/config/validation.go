package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rvermeulen/codeql-postproc/pkg/shared/files"
)

func normalizeLevel(level string) string {
	return strings.ToUpper(strings.TrimSpace(level))
}

var validLogLevels = map[string]bool{
	"": true, "TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := validateScratchConfig(&cfg.Scratch); err != nil {
		return fmt.Errorf("YAML global config: scratch directive is invalid: %w", err)
	}
	return nil
}

func validateLoggerConfig(cfg *Logger) error {
	if !validLogLevels[normalizeLevel(cfg.Level)] {
		return fmt.Errorf("unknown log level %q", cfg.Level)
	}
	return nil
}

func validateScratchConfig(cfg *Scratch) error {
	if cfg.Folder == "" {
		return nil
	}
	expanded, err := files.ExpandPath(cfg.Folder)
	if err != nil {
		return fmt.Errorf("failed to expand scratch folder %q: %w", cfg.Folder, err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return fmt.Errorf("scratch folder %q is not accessible: %w", expanded, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scratch folder %q is not a directory", expanded)
	}
	cfg.Folder = expanded
	return nil
}
