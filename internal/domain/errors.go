package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a URL fails the syntax check.
	ErrInvalidURL = errors.New("invalid url")
	// ErrDuplicateURL is returned when the URL is already stored.
	ErrDuplicateURL = errors.New("url already exists")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("url not found")
)

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExportError reports a failed export of one file.
type ExportError struct {
	Path   string
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ImportError reports a failed import of one file.
type ImportError struct {
	Path   string
	Format string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s from %s: %v", e.Format, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
