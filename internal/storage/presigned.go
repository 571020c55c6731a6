package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/imgdrop/internal/netx"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// DefaultPresignExpiry is used when no expiry is configured.
const DefaultPresignExpiry = 15 * time.Minute

var (
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// PresignedStorage presigns a PUT for every object and uploads the file
// with a plain HTTP request, the way a browser or mobile client would.
type PresignedStorage struct {
	presigner *s3.PresignClient
	bucket    string
	expires   time.Duration
	client    *http.Client
}

// NewPresigned builds the presigner. A nil client uses http.DefaultClient.
func NewPresigned(ctx context.Context, opts S3Options, expires time.Duration, client *http.Client) (*PresignedStorage, error) {
	c, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	if expires <= 0 {
		expires = DefaultPresignExpiry
	}
	return &PresignedStorage{
		presigner: newS3PresignClient(c),
		bucket:    opts.Bucket,
		expires:   expires,
		client:    client,
	}, nil
}

func (s *PresignedStorage) Put(ctx context.Context, key string, h uploader.Handle, onProgress uploader.ProgressFunc) error {
	req, err := presignPutObject(s.presigner, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(h.ContentType),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return fmt.Errorf("presign %q: %w", key, err)
	}

	f, err := os.Open(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := req.SignedHeader.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", h.ContentType)

	body := netx.NewProgressReader(f, h.Size, netx.ProgressFunc(onProgress))
	if err := netx.PutPresigned(ctx, s.client, req.URL, body, h.Size, header); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	report(onProgress, h.Size, h.Size)
	return nil
}
