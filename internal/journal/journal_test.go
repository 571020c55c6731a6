package journal

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/models"
	"github.com/dmitrijs2005/imgdrop/internal/repositories/uploads"
	"github.com/dmitrijs2005/imgdrop/internal/store"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *Journal {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(uploads.NewSQLiteRepository(db), nil)
}

func snapshot(id string) uploader.Snapshot {
	return uploader.Snapshot{
		ID:  id,
		Key: "images/" + id,
		Handle: uploader.Handle{
			Path: "/tmp/cat.png", Name: "cat.png", Size: 200, ContentType: "image/png",
		},
		Total:     200,
		StartedAt: time.UnixMilli(1_700_000_000_000),
	}
}

func TestJournal_SuccessLifecycle(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()
	s := snapshot("a1")

	j.UploadStarted(ctx, s)
	j.UploadProgress(ctx, s)

	hist, err := j.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, models.UploadStatusUploading, hist[0].Status)
	assert.Equal(t, "images/a1", hist[0].StorageKey)
	assert.Nil(t, hist[0].FinishedAt)

	s.Outcome = uploader.OutcomeSucceeded
	s.FinishedAt = s.StartedAt.Add(2 * time.Second)
	j.UploadSucceeded(ctx, s)

	hist, err = j.History(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusCompleted, hist[0].Status)
	require.NotNil(t, hist[0].FinishedAt)
	assert.True(t, s.FinishedAt.Equal(*hist[0].FinishedAt))
}

func TestJournal_FailureRecordsReason(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()
	s := snapshot("f1")

	j.UploadStarted(ctx, s)
	s.FinishedAt = s.StartedAt.Add(time.Second)
	j.UploadFailed(ctx, s, &uploader.UploadError{Key: s.Key, Err: errors.New("network error")})

	hist, err := j.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, models.UploadStatusFailed, hist[0].Status)
	assert.Equal(t, "network error", hist[0].Error)
}

type brokenRepo struct{ uploads.Repository }

func (brokenRepo) Create(context.Context, *models.Upload) error { return errors.New("disk I/O error") }
func (brokenRepo) MarkCompleted(context.Context, string, time.Time) error {
	return errors.New("disk I/O error")
}

func TestJournal_RepositoryErrorsAreLoggedOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	j := New(brokenRepo{}, logger)

	require.NotPanics(t, func() {
		j.UploadStarted(context.Background(), snapshot("x"))
		j.UploadSucceeded(context.Background(), snapshot("x"))
	})
	assert.Contains(t, buf.String(), "journal: record start")
	assert.Contains(t, buf.String(), "journal: record success")
	assert.Contains(t, buf.String(), "disk I/O error")
}
