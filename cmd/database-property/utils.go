package databaseproperty

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// renderValue serializes a property value in the requested output format.
// YAML output ends with the encoder's trailing newline; JSON output gets one
// appended so both formats are shell friendly.
func renderValue(value interface{}, format string) (string, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to render property value as YAML: %w", err)
		}
		return string(data), nil
	case "json":
		data, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to render property value as JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unimplemented output format %q", format)
	}
}
