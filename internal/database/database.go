// Package database opens CodeQL databases in directory or zip-archive form
// and exposes their metadata as properties addressable by dotted keys. The
// metadata shipped with the database is immutable; user-set properties live
// in a separate overlay that is merged in at read time, with the immutable
// metadata always taking precedence.
package database

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/rvermeulen/codeql-postproc/internal/keypath"
)

// Database is an opened CodeQL database.
type Database struct {
	path   string
	info   map[string]interface{}
	store  propertyStore
	logger hclog.Logger
}

// Open loads the database at path, dispatching on its physical form. The
// parsed metadata document is cached for the lifetime of the handle.
// scratchRoot overrides where archive writes stage their extracted tree; an
// empty value selects the system temporary directory.
func Open(path, scratchRoot string, logger hclog.Logger) (*Database, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewInvalidDatabaseError(path, "database does not exist")
	}

	var store propertyStore
	if info.IsDir() {
		store = newDirStore(path)
	} else {
		zs, err := openZipStore(path, scratchRoot)
		if err != nil {
			return nil, err
		}
		store = zs
	}

	metadata, err := store.loadMetadata()
	if err != nil {
		return nil, err
	}

	logger.Debug("opened CodeQL database", "path", path, "directory", info.IsDir())
	return &Database{path: path, info: metadata, store: store, logger: logger}, nil
}

// Path returns the filesystem location the database was opened from.
func (d *Database) Path() string {
	return d.path
}

// GetProperty resolves a dotted key against the immutable metadata first and,
// only on a miss, against the user properties overlay. Immutable values can
// never be shadowed by the overlay.
func (d *Database) GetProperty(key string) (interface{}, error) {
	path, err := keypath.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("invalid property key: %w", err)
	}

	if value, ok := path.Resolve(d.info); ok {
		return value, nil
	}

	overlay, err := d.store.loadOverlay()
	if err != nil {
		return nil, err
	}
	if overlay != nil {
		if value, ok := path.Resolve(overlay); ok {
			return value, nil
		}
	}

	return nil, &KeyNotFoundError{Key: key}
}

// SetProperty writes the given properties into the user properties overlay.
// If any top-level key already exists in the immutable metadata the whole
// call fails without touching the database; immutability is checked against
// exact top-level keys only, not dotted sub-paths.
func (d *Database) SetProperty(props map[string]interface{}) error {
	for key := range props {
		if _, exists := d.info[key]; exists {
			return &ImmutablePropertyError{Key: key}
		}
	}
	if len(props) == 0 {
		return nil
	}

	if err := d.store.persistOverlay(props); err != nil {
		return err
	}
	d.logger.Debug("user properties updated", "path", d.path, "keys", len(props))
	return nil
}
