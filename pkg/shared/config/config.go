package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config holds the application configuration.
type Config struct {
	Logger  Logger  `yaml:"logger"`
	Scratch Scratch `yaml:"scratch"`
}

// Logger configures the application logger.
type Logger struct {
	Level string `yaml:"level"`
}

// Scratch configures where archive writes stage their extracted trees.
type Scratch struct {
	Folder string `yaml:"folder"`
}

// ValidateConfigPath checks that the given path points at a readable file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into the given value.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file at configPath. A missing file is
// not an error; the tool is a single-shot post-processor and usually runs
// without configuration.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}
	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetScratchHome returns the configured scratch folder root, or empty to
// select the system temporary directory.
func GetScratchHome(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Scratch.Folder
}
