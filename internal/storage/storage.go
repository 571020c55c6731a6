// Package storage contains the object store adapters behind
// uploader.Storage: S3 (direct or through a presigned PUT), MinIO and
// Google Cloud Storage.
package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/config"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// New builds the adapter selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (uploader.Storage, error) {
	s3opts := S3Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PathStyle: cfg.S3PathStyle,
	}

	switch cfg.StorageBackend {
	case config.BackendS3:
		return NewS3(ctx, s3opts)
	case config.BackendS3Presigned:
		return NewPresigned(ctx, s3opts, cfg.PresignExpiry, nil)
	case config.BackendMinio:
		return NewMinio(MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			Bucket:    cfg.MinioBucket,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Region:    cfg.MinioRegion,
		})
	case config.BackendGCS:
		return NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.StorageBackend)
	}
}

// originalNameKey is the object metadata key holding the local file name.
const originalNameKey = "original-name"

func report(fn uploader.ProgressFunc, transferred, total int64) {
	if fn != nil {
		fn(transferred, total)
	}
}
