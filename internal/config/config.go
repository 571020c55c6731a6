// Package config builds the imgdrop runtime configuration from defaults,
// a .env file and IMGDROP_* environment variables, an optional JSON file
// and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/flagx"
)

// Storage backends understood by the storage factory.
const (
	BackendS3          = "s3"
	BackendS3Presigned = "s3-presigned"
	BackendMinio       = "minio"
	BackendGCS         = "gcs"
)

// Config holds runtime settings for the imgdrop client.
//
// Fields:
//   - StorageBackend: one of the Backend* constants.
//   - KeyPrefix: namespace for object keys ("images" by default).
//   - S3*: S3-compatible endpoint used by the s3 and s3-presigned backends.
//   - Minio*: endpoint and credentials for the minio backend.
//   - GCS*: bucket and optional service account file for the gcs backend.
//   - OAuth*: device flow client; an empty client id signs in anonymously.
//   - DatabasePath: SQLite file holding the session and upload history.
//   - UploadFile: when set, upload this file and exit (non-interactive).
//   - WaitTimeout: how long non-interactive mode waits for an outcome.
type Config struct {
	StorageBackend string
	KeyPrefix      string

	S3Region      string
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3PathStyle   bool
	PresignExpiry time.Duration

	MinioEndpoint  string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioRegion    string

	GCSBucket          string
	GCSCredentialsFile string

	OAuthClientID      string
	OAuthClientSecret  string
	OAuthScopes        []string
	OAuthDeviceAuthURL string
	OAuthTokenURL      string

	DatabasePath string
	LogLevel     string
	UploadFile   string
	WaitTimeout  time.Duration
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// LoadDefaults populates Config with local development defaults that match
// a MinIO server on 127.0.0.1:9000.
func (c *Config) LoadDefaults() {
	c.StorageBackend = BackendS3
	c.KeyPrefix = "images"

	c.S3Region = "us-east-1"
	c.S3Endpoint = "http://127.0.0.1:9000"
	c.S3Bucket = "imgdrop"
	c.S3AccessKey = "minioadmin"
	c.S3SecretKey = "minioadmin"
	c.S3PathStyle = true
	c.PresignExpiry = 15 * time.Minute

	c.MinioEndpoint = "127.0.0.1:9000"
	c.MinioBucket = "imgdrop"
	c.MinioAccessKey = "minioadmin"
	c.MinioSecretKey = "minioadmin"
	c.MinioRegion = "us-east-1"

	c.OAuthScopes = []string{"openid", "email"}

	c.DatabasePath = defaultDatabasePath()
	c.LogLevel = "info"
	c.WaitTimeout = 10 * time.Minute
}

func defaultDatabasePath() string {
	dir, err := userConfigDir()
	if err != nil || dir == "" {
		return "imgdrop.db"
	}
	return filepath.Join(dir, "imgdrop", "imgdrop.db")
}

// LoadConfig applies defaults, then the environment, then the JSON file
// named by -c/-config, then flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	if err := parseJson(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend is known and has a bucket.
func (c *Config) Validate() error {
	var bucket string
	switch c.StorageBackend {
	case BackendS3, BackendS3Presigned:
		bucket = c.S3Bucket
	case BackendMinio:
		bucket = c.MinioBucket
	case BackendGCS:
		bucket = c.GCSBucket
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownBackend, c.StorageBackend)
	}
	if bucket == "" {
		return fmt.Errorf("storage backend %s: bucket is not configured", c.StorageBackend)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is not configured")
	}
	return nil
}
