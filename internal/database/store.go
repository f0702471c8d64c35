package database

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rvermeulen/codeql-postproc/pkg/shared/files"
)

const (
	// MetadataFileName is the immutable database metadata document.
	MetadataFileName = "codeql-database.yml"
	// OverlayFileName is the mutable user properties overlay, absent until
	// the first property write.
	OverlayFileName = "user-properties.yml"
)

// propertyStore abstracts the physical representation of a database: a plain
// directory or a zip archive containing a single top-level directory.
type propertyStore interface {
	loadMetadata() (map[string]interface{}, error)
	// loadOverlay returns nil, nil when no overlay has been written yet.
	loadOverlay() (map[string]interface{}, error)
	// persistOverlay merges the given properties over any existing overlay
	// content and rewrites the overlay wholesale. The merge is shallow: only
	// top-level keys are combined, new values win on collision.
	persistOverlay(props map[string]interface{}) error
}

// parseMappingDocument decodes YAML that must form a mapping document.
func parseMappingDocument(dbPath, name string, data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewInvalidDatabaseError(dbPath, "%q is not a YAML dictionary: %v", name, err)
	}
	return doc, nil
}

// mergeProperties layers new properties over existing ones at the top level.
func mergeProperties(existing, props map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(existing)+len(props))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return merged
}

// dirStore serves a database laid out as a plain directory with the metadata
// and overlay files as direct children.
type dirStore struct {
	root   string
	dbPath string
}

func newDirStore(root string) *dirStore {
	return &dirStore{root: root, dbPath: root}
}

func (s *dirStore) loadMetadata() (map[string]interface{}, error) {
	data, err := os.ReadFile(filepath.Join(s.root, MetadataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewInvalidDatabaseError(s.dbPath, "missing %q", MetadataFileName)
		}
		return nil, NewInvalidDatabaseError(s.dbPath, "failed to read %q: %v", MetadataFileName, err)
	}
	return parseMappingDocument(s.dbPath, MetadataFileName, data)
}

func (s *dirStore) loadOverlay() (map[string]interface{}, error) {
	data, err := os.ReadFile(filepath.Join(s.root, OverlayFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewInvalidDatabaseError(s.dbPath, "failed to read %q: %v", OverlayFileName, err)
	}
	return parseMappingDocument(s.dbPath, OverlayFileName, data)
}

func (s *dirStore) persistOverlay(props map[string]interface{}) error {
	existing, err := s.loadOverlay()
	if err != nil {
		return err
	}
	merged := mergeProperties(existing, props)

	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to serialize user properties: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, OverlayFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", OverlayFileName, err)
	}
	return nil
}

// zipStore serves a database packed as a zip archive. The archive must hold
// exactly one top-level directory with the metadata file directly inside it.
// Every write goes through a full extract-modify-repack cycle.
type zipStore struct {
	path          string
	metadataEntry string
	scratchRoot   string
}

// openZipStore validates the archive layout and locates the single metadata
// entry of the form "<top-level-dir>/codeql-database.yml".
func openZipStore(dbPath, scratchRoot string) (*zipStore, error) {
	r, err := zip.OpenReader(dbPath)
	if err != nil {
		return nil, NewInvalidDatabaseError(dbPath, "expected a database directory or database zip archive")
	}
	defer r.Close()

	var candidates []string
	for _, f := range r.File {
		parts := strings.Split(f.Name, "/")
		if len(parts) == 2 && parts[1] == MetadataFileName {
			candidates = append(candidates, f.Name)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, NewInvalidDatabaseError(dbPath, "missing %q", MetadataFileName)
	case 1:
	default:
		return nil, NewInvalidDatabaseError(dbPath, "found multiple %q entries", MetadataFileName)
	}

	if scratchRoot == "" {
		scratchRoot = os.TempDir()
	}
	return &zipStore{path: dbPath, metadataEntry: candidates[0], scratchRoot: scratchRoot}, nil
}

// topLevelDir is the single directory the archive wraps its contents in.
func (s *zipStore) topLevelDir() string {
	return path.Dir(s.metadataEntry)
}

// readEntry returns the content of a named archive entry, or nil, false when
// the entry does not exist.
func (s *zipStore) readEntry(name string) ([]byte, bool, error) {
	r, err := zip.OpenReader(s.path)
	if err != nil {
		return nil, false, NewInvalidDatabaseError(s.path, "failed to open archive: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, NewInvalidDatabaseError(s.path, "failed to open archive entry %q: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false, NewInvalidDatabaseError(s.path, "failed to read archive entry %q: %v", name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

func (s *zipStore) loadMetadata() (map[string]interface{}, error) {
	data, ok, err := s.readEntry(s.metadataEntry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewInvalidDatabaseError(s.path, "missing %q", MetadataFileName)
	}
	return parseMappingDocument(s.path, MetadataFileName, data)
}

func (s *zipStore) loadOverlay() (map[string]interface{}, error) {
	data, ok, err := s.readEntry(path.Join(s.topLevelDir(), OverlayFileName))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return parseMappingDocument(s.path, OverlayFileName, data)
}

// persistOverlay extracts the archive to an exclusively-owned scratch
// directory, performs the directory-form write inside the extracted top-level
// directory and rewrites the archive from the modified tree. The scratch
// directory is removed unconditionally, whether the write succeeds or fails.
func (s *zipStore) persistOverlay(props map[string]interface{}) error {
	scratch := filepath.Join(s.scratchRoot, "codeql-db-"+uuid.NewString())
	if err := os.MkdirAll(scratch, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create scratch directory %q: %w", scratch, err)
	}
	defer os.RemoveAll(scratch)

	if err := s.extract(scratch); err != nil {
		return err
	}

	extracted := &dirStore{
		root:   filepath.Join(scratch, s.topLevelDir()),
		dbPath: s.path,
	}
	if err := extracted.persistOverlay(props); err != nil {
		return err
	}

	return s.repack(scratch)
}

// extract unpacks the archive under dest, refusing entries that would escape
// the extraction root.
func (s *zipStore) extract(dest string) error {
	r, err := zip.OpenReader(s.path)
	if err != nil {
		return NewInvalidDatabaseError(s.path, "failed to open archive: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := files.EnsureWithinRoot(dest, filepath.Join(dest, filepath.FromSlash(f.Name)))
		if err != nil {
			return NewInvalidDatabaseError(s.path, "unsafe archive entry %q: %v", f.Name, err)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %q: %w", f.Name, err)
	}
	return nil
}

// repack rewrites the archive wholesale from the extracted tree, preserving
// paths relative to the extraction root. The new archive is staged next to
// the original and moved into place only after it is complete.
func (s *zipStore) repack(scratch string) error {
	staging, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to stage new archive: %w", err)
	}
	stagingPath := staging.Name()

	if err := writeArchive(staging, scratch); err != nil {
		staging.Close()
		os.Remove(stagingPath)
		return err
	}
	if err := staging.Close(); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("failed to finish new archive: %w", err)
	}

	if err := os.Rename(stagingPath, s.path); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("failed to replace archive %q: %w", s.path, err)
	}
	return nil
}

func writeArchive(out io.Writer, root string) error {
	w := zip.NewWriter(out)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Directory entries keep empty directories alive across a repack.
			if rel == "." {
				return nil
			}
			_, err := w.Create(filepath.ToSlash(rel) + "/")
			return err
		}
		return addArchiveEntry(w, filepath.ToSlash(rel), p)
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to repack archive: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to repack archive: %w", err)
	}
	return nil
}

func addArchiveEntry(w *zip.Writer, name, source string) error {
	entry, err := w.Create(name)
	if err != nil {
		return err
	}
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.Copy(entry, in)
	return err
}
