package uploader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned by Selection when nothing is picked.
	ErrNoSelection = errors.New("no image selected")

	// ErrUploadInProgress is returned when a command would disturb the active attempt.
	ErrUploadInProgress = errors.New("upload already in progress")
)

// SelectionError reports a picked file that could not be read or decoded.
// It is recoverable: the orchestrator state does not change.
type SelectionError struct {
	Path string
	Err  error
}

func (e *SelectionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("select image: %v", e.Err)
	}
	return fmt.Sprintf("select image %s: %v", e.Path, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// UploadError is a storage-reported failure for one attempt.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Reason returns the storage service's error text.
func (e *UploadError) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
