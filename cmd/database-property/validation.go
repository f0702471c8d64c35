package databaseproperty

import "fmt"

// validateGetPropertyArgs validates the requested output format.
func validateGetPropertyArgs(options *RunOptions) error {
	switch options.OutputFormat {
	case "yaml", "json":
		return nil
	default:
		return fmt.Errorf("'format' must be 'yaml' or 'json', got %q", options.OutputFormat)
	}
}
