package database

import "fmt"

// InvalidDatabaseError reports a structurally broken CodeQL database: a
// missing or duplicated metadata file, a malformed overlay or an unreadable
// archive.
type InvalidDatabaseError struct {
	Path   string
	Reason string
}

// Error implements the error interface for InvalidDatabaseError.
func (e *InvalidDatabaseError) Error() string {
	return fmt.Sprintf("invalid CodeQL database %q: %s", e.Path, e.Reason)
}

// NewInvalidDatabaseError creates an InvalidDatabaseError with a formatted reason.
func NewInvalidDatabaseError(path, format string, args ...interface{}) error {
	return &InvalidDatabaseError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// KeyNotFoundError reports a property key absent from both the immutable
// metadata and the user properties overlay.
type KeyNotFoundError struct {
	Key string
}

// Error implements the error interface for KeyNotFoundError.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("the database does not have a property with key %q", e.Key)
}

// ImmutablePropertyError reports a write that attempts to shadow a top-level
// key of the immutable database metadata.
type ImmutablePropertyError struct {
	Key string
}

// Error implements the error interface for ImmutablePropertyError.
func (e *ImmutablePropertyError) Error() string {
	return fmt.Sprintf("property with key %q is immutable", e.Key)
}
