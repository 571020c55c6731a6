package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/imgdrop/internal/netx"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures a MinIO (or other S3-compatible) endpoint.
// Endpoint is host:port without a scheme.
type MinioOptions struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

type minioPutAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStorage implements uploader.Storage with minio-go.
type MinioStorage struct {
	client minioPutAPI
	bucket string
}

// NewMinio creates the client. Setting Region skips the bucket location
// lookup minio-go otherwise performs before the first request.
func NewMinio(opts MinioOptions) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStorage{client: client, bucket: opts.Bucket}, nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, h uploader.Handle, onProgress uploader.ProgressFunc) error {
	f, err := os.Open(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, s.bucket, key, f, h.Size, minio.PutObjectOptions{
		ContentType:  h.ContentType,
		UserMetadata: map[string]string{originalNameKey: h.Name},
		Progress:     netx.NewCounter(h.Size, netx.ProgressFunc(onProgress)),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}

	report(onProgress, h.Size, h.Size)
	return nil
}
