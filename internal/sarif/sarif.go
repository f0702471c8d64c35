// Package sarif loads SARIF 2.1.0 result files, appends version control
// provenance records to every run and writes the document back, validating
// against the embedded schema both on load and before any byte is written.
package sarif

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	gosarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/rvermeulen/codeql-postproc/pkg/shared/files"
)

// InvalidSarifError reports a SARIF file that cannot be processed: malformed
// JSON, a schema violation before or after mutation, or a malformed
// versionControlProvenance property.
type InvalidSarifError struct {
	Path   string
	Reason string
}

// Error implements the error interface for InvalidSarifError.
func (e *InvalidSarifError) Error() string {
	return fmt.Sprintf("invalid SARIF file %q: %s", e.Path, e.Reason)
}

// ToolMetadata identifies the analysis tool that produced a run.
type ToolMetadata struct {
	Name    string
	Version *string
}

// Document is a SARIF log held in memory together with its origin path. The
// content is kept as a generic JSON document so mutation and schema
// validation see exactly what is on disk.
type Document struct {
	path    string
	content map[string]interface{}
	logger  hclog.Logger
}

// Load reads and parses the SARIF file at path and validates it against the
// SARIF 2.1.0 schema. An already-invalid input file is rejected immediately.
func Load(path string, logger hclog.Logger) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SARIF file %q: %w", path, err)
	}

	var content map[string]interface{}
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, &InvalidSarifError{Path: path, Reason: "invalid JSON file"}
	}
	if err := validateAgainstSchema(data); err != nil {
		return nil, &InvalidSarifError{Path: path, Reason: err.Error()}
	}

	return &Document{path: path, content: content, logger: logger}, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// ExtractToolNameAndVersion reports the driver of the first run.
func (d *Document) ExtractToolNameAndVersion() (*ToolMetadata, error) {
	data, err := json.Marshal(d.content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize SARIF document: %w", err)
	}

	var report gosarif.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &InvalidSarifError{Path: d.path, Reason: fmt.Sprintf("unexpected report shape: %v", err)}
	}
	if len(report.Runs) == 0 || report.Runs[0].Tool.Driver == nil {
		return nil, &InvalidSarifError{Path: d.path, Reason: "missing or no run objects in 'runs' property"}
	}

	return &ToolMetadata{
		Name:    report.Runs[0].Tool.Driver.Name,
		Version: report.Runs[0].Tool.Driver.SemanticVersion,
	}, nil
}

// AddVersionControlProvenance appends one identical provenance record to the
// versionControlProvenance array of every run, re-validates the document and
// writes it back to its origin path with 2-space indentation. Nothing is
// written when validation of the mutated document fails.
func (d *Document) AddVersionControlProvenance(repositoryURI, revisionID, branch string) error {
	rawRuns, ok := d.content["runs"].([]interface{})
	if !ok || len(rawRuns) == 0 {
		return &InvalidSarifError{Path: d.path, Reason: "missing or no run objects in 'runs' property"}
	}

	for i, rawRun := range rawRuns {
		run, ok := rawRun.(map[string]interface{})
		if !ok {
			return &InvalidSarifError{Path: d.path, Reason: fmt.Sprintf("run %d is not an object", i)}
		}

		provenance := []interface{}{}
		if existing, present := run["versionControlProvenance"]; present {
			provenance, ok = existing.([]interface{})
			if !ok {
				return &InvalidSarifError{Path: d.path, Reason: "the 'versionControlProvenance' property is not an array"}
			}
		}

		record := map[string]interface{}{
			"repositoryUri": repositoryURI,
			"revisionId":    revisionID,
		}
		if branch != "" {
			record["branch"] = branch
		}
		run["versionControlProvenance"] = append(provenance, record)
	}

	data, err := json.MarshalIndent(d.content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize SARIF document: %w", err)
	}
	if err := validateAgainstSchema(data); err != nil {
		return &InvalidSarifError{
			Path:   d.path,
			Reason: fmt.Sprintf("adding the version control provenance results in an invalid SARIF file: %v", err),
		}
	}

	if err := files.WriteJsonFile(d.path, data); err != nil {
		return fmt.Errorf("failed to write SARIF file %q: %w", d.path, err)
	}
	d.logger.Debug("version control provenance appended", "path", d.path, "runs", len(rawRuns))
	return nil
}
