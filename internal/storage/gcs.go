package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
	"google.golang.org/api/option"
)

// gcsChunkSize is the resumable upload chunk; ProgressFunc fires per chunk.
const gcsChunkSize = 1 << 20

var newGCSClient = storage.NewClient

type writerAttrs struct {
	contentType string
	metadata    map[string]string
	progress    func(int64)
}

// openGCSWriter is swapped in tests.
var openGCSWriter = func(ctx context.Context, c *storage.Client, bucket, key string, a writerAttrs) io.WriteCloser {
	w := c.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ChunkSize = gcsChunkSize
	w.ContentType = a.contentType
	w.Metadata = a.metadata
	w.ProgressFunc = a.progress
	return w
}

// GCSStorage implements uploader.Storage with cloud.google.com/go/storage.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

// NewGCS creates the client from credsFile, or from Application Default
// Credentials when credsFile is empty.
func NewGCS(ctx context.Context, bucket, credsFile string, opts ...option.ClientOption) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("gcs: missing bucket")
	}
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	c, err := newGCSClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStorage{client: c, bucket: bucket}, nil
}

func (s *GCSStorage) Put(ctx context.Context, key string, h uploader.Handle, onProgress uploader.ProgressFunc) error {
	f, err := os.Open(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := openGCSWriter(ctx, s.client, s.bucket, key, writerAttrs{
		contentType: h.ContentType,
		metadata:    map[string]string{originalNameKey: h.Name},
		progress: func(n int64) {
			report(onProgress, n, h.Size)
		},
	})

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %q: %w", key, err)
	}

	report(onProgress, h.Size, h.Size)
	return nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
