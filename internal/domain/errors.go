package domain

import "fmt"

// ValidationError reports a missing required field, an out-of-enum value, or
// malformed numeric input. Surfaced before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a miss on lookup by id, slug, or photo id.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a slug uniqueness violation that persisted after the
// one local retry with a fresh disambiguator.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StorageIOError reports a file persistence failure for a single upload.
// It never aborts the listing write; callers collect these as partial results.
type StorageIOError struct {
	Filename string
	Err      error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("storing %s: %v", e.Filename, e.Err)
}

func (e *StorageIOError) Unwrap() error {
	return e.Err
}
