package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/imgdrop/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations accept "15m" style strings or integer nanoseconds; booleans are
// pointers so an absent key is distinguishable from false. Only keys present
// in the file override the current values.
type JsonConfig struct {
	StorageBackend string `json:"storage_backend"`
	KeyPrefix      string `json:"key_prefix"`

	S3Region      string         `json:"s3_region"`
	S3Endpoint    string         `json:"s3_endpoint"`
	S3Bucket      string         `json:"s3_bucket"`
	S3AccessKey   string         `json:"s3_access_key"`
	S3SecretKey   string         `json:"s3_secret_key"`
	S3PathStyle   *bool          `json:"s3_path_style"`
	PresignExpiry timex.Duration `json:"presign_expiry"`

	MinioEndpoint  string `json:"minio_endpoint"`
	MinioBucket    string `json:"minio_bucket"`
	MinioAccessKey string `json:"minio_access_key"`
	MinioSecretKey string `json:"minio_secret_key"`
	MinioUseSSL    *bool  `json:"minio_use_ssl"`
	MinioRegion    string `json:"minio_region"`

	GCSBucket          string `json:"gcs_bucket"`
	GCSCredentialsFile string `json:"gcs_credentials_file"`

	OAuthClientID      string   `json:"oauth_client_id"`
	OAuthClientSecret  string   `json:"oauth_client_secret"`
	OAuthScopes        []string `json:"oauth_scopes"`
	OAuthDeviceAuthURL string   `json:"oauth_device_auth_url"`
	OAuthTokenURL      string   `json:"oauth_token_url"`

	DatabasePath string         `json:"database_path"`
	LogLevel     string         `json:"log_level"`
	WaitTimeout  timex.Duration `json:"wait_timeout"`
}

// parseJson overlays values from the JSON file at path onto config. An
// empty path loads nothing.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.KeyPrefix, c.KeyPrefix)

	setString(&config.S3Region, c.S3Region)
	setString(&config.S3Endpoint, c.S3Endpoint)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	if c.S3PathStyle != nil {
		config.S3PathStyle = *c.S3PathStyle
	}
	if c.PresignExpiry.Duration != 0 {
		config.PresignExpiry = c.PresignExpiry.Duration
	}

	setString(&config.MinioEndpoint, c.MinioEndpoint)
	setString(&config.MinioBucket, c.MinioBucket)
	setString(&config.MinioAccessKey, c.MinioAccessKey)
	setString(&config.MinioSecretKey, c.MinioSecretKey)
	if c.MinioUseSSL != nil {
		config.MinioUseSSL = *c.MinioUseSSL
	}
	setString(&config.MinioRegion, c.MinioRegion)

	setString(&config.GCSBucket, c.GCSBucket)
	setString(&config.GCSCredentialsFile, c.GCSCredentialsFile)

	setString(&config.OAuthClientID, c.OAuthClientID)
	setString(&config.OAuthClientSecret, c.OAuthClientSecret)
	if len(c.OAuthScopes) > 0 {
		config.OAuthScopes = c.OAuthScopes
	}
	setString(&config.OAuthDeviceAuthURL, c.OAuthDeviceAuthURL)
	setString(&config.OAuthTokenURL, c.OAuthTokenURL)

	setString(&config.DatabasePath, c.DatabasePath)
	setString(&config.LogLevel, c.LogLevel)
	if c.WaitTimeout.Duration != 0 {
		config.WaitTimeout = c.WaitTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
