// Package models defines the records persisted by the local repositories.
package models

import "time"

// UploadStatus is the journal state of one upload attempt.
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// Upload is one row of the upload history.
type Upload struct {
	ID          string
	StorageKey  string
	LocalPath   string
	ContentType string
	Size        int64
	Status      UploadStatus
	Error       string
	StartedAt   time.Time
	FinishedAt  *time.Time
}
