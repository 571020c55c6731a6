package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/imgdrop/internal/netx"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Options configures an S3-compatible endpoint. An empty Endpoint uses
// AWS itself; empty keys fall back to the default credential chain.
type S3Options struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}), nil
}

type s3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage writes objects with a single PutObject call.
type S3Storage struct {
	api    s3PutAPI
	bucket string
}

func NewS3(ctx context.Context, opts S3Options) (*S3Storage, error) {
	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &S3Storage{api: client, bucket: opts.Bucket}, nil
}

// Put streams the file to key. The payload is sent unsigned so the body is
// read exactly once and progress tracks the actual transfer.
func (s *S3Storage) Put(ctx context.Context, key string, h uploader.Handle, onProgress uploader.ProgressFunc) error {
	f, err := os.Open(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          netx.NewProgressReader(f, h.Size, netx.ProgressFunc(onProgress)),
		ContentLength: aws.Int64(h.Size),
		ContentType:   aws.String(h.ContentType),
		Metadata:      map[string]string{originalNameKey: h.Name},
	}, s3.WithAPIOptions(v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware))
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}

	report(onProgress, h.Size, h.Size)
	return nil
}
