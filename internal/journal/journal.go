// Package journal records upload attempts in the local history.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/models"
	"github.com/dmitrijs2005/imgdrop/internal/repositories/uploads"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// Journal is an uploader.Listener that writes one history row per attempt.
// Write failures are logged and never affect the upload.
type Journal struct {
	repo   uploads.Repository
	logger logging.Logger
}

func New(repo uploads.Repository, logger logging.Logger) *Journal {
	if logger == nil {
		logger = logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	}
	return &Journal{repo: repo, logger: logger}
}

func (j *Journal) UploadStarted(ctx context.Context, s uploader.Snapshot) {
	err := j.repo.Create(ctx, &models.Upload{
		ID:          s.ID,
		StorageKey:  s.Key,
		LocalPath:   s.Handle.Path,
		ContentType: s.Handle.ContentType,
		Size:        s.Handle.Size,
		Status:      models.UploadStatusUploading,
		StartedAt:   s.StartedAt,
	})
	if err != nil {
		j.logger.Warn(ctx, "journal: record start", "attempt", s.ID, "error", err)
	}
}

func (j *Journal) UploadProgress(ctx context.Context, s uploader.Snapshot) {}

func (j *Journal) UploadSucceeded(ctx context.Context, s uploader.Snapshot) {
	if err := j.repo.MarkCompleted(ctx, s.ID, finishedAt(s)); err != nil {
		j.logger.Warn(ctx, "journal: record success", "attempt", s.ID, "error", err)
	}
}

func (j *Journal) UploadFailed(ctx context.Context, s uploader.Snapshot, uerr *uploader.UploadError) {
	reason := s.Reason
	if uerr != nil {
		reason = uerr.Reason()
	}
	if err := j.repo.MarkFailed(ctx, s.ID, reason, finishedAt(s)); err != nil {
		j.logger.Warn(ctx, "journal: record failure", "attempt", s.ID, "error", err)
	}
}

// History returns the latest limit attempts, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]*models.Upload, error) {
	return j.repo.List(ctx, limit)
}

func finishedAt(s uploader.Snapshot) time.Time {
	if s.FinishedAt.IsZero() {
		return time.Now()
	}
	return s.FinishedAt
}
