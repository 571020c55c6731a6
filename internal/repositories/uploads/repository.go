// Package uploads persists the upload history in the SQLite uploads table.
package uploads

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/dbx"
	"github.com/dmitrijs2005/imgdrop/internal/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.Upload) error
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string, at time.Time) error
	List(ctx context.Context, limit int) ([]*models.Upload, error)
}

// SQLiteRepository stores timestamps as unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.Upload) error {
	query := `INSERT INTO uploads (id, storage_key, local_path, content_type, size, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.StorageKey, u.LocalPath, u.ContentType, u.Size,
		string(u.Status), u.Error, u.StartedAt.UnixMilli(), toMillis(u.FinishedAt))
	if err != nil {
		return fmt.Errorf("failed to create upload %s: %w", u.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	return r.finish(ctx, id, models.UploadStatusCompleted, "", at)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id string, reason string, at time.Time) error {
	return r.finish(ctx, id, models.UploadStatusFailed, reason, at)
}

func (r *SQLiteRepository) finish(ctx context.Context, id string, status models.UploadStatus, reason string, at time.Time) error {
	query := `UPDATE uploads SET status = ?, error = ?, finished_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(status), reason, at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to mark upload %s %s: %w", id, status, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("upload %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

// List returns the most recent uploads first. A non-positive limit
// returns every row.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.Upload, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, storage_key, local_path, content_type, size, status, error, started_at, finished_at
		FROM uploads ORDER BY started_at DESC, id LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.Upload
	for rows.Next() {
		u := &models.Upload{}
		var status string
		var startedAt int64
		var finishedAt sql.NullInt64
		if err := rows.Scan(&u.ID, &u.StorageKey, &u.LocalPath, &u.ContentType, &u.Size,
			&status, &u.Error, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		u.Status = models.UploadStatus(status)
		u.StartedAt = time.UnixMilli(startedAt)
		if finishedAt.Valid {
			t := time.UnixMilli(finishedAt.Int64)
			u.FinishedAt = &t
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload rows: %w", err)
	}
	return result, nil
}

func toMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
