package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "IMGDROP_"

var (
	lookupEnv  = os.LookupEnv
	loadDotEnv  = func() error { return godotenv.Load() }
)

// parseEnv loads ./.env when present (without overriding variables already
// set) and then copies IMGDROP_* variables into config. Unset variables
// leave the current value alone.
func parseEnv(config *Config) error {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	str := func(name string, dst *string) {
		if v, ok := lookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		v, ok := lookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = b
	}
	duration := func(name string, dst *time.Duration) {
		v, ok := lookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = d
	}

	str("STORAGE_BACKEND", &config.StorageBackend)
	str("KEY_PREFIX", &config.KeyPrefix)

	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3Endpoint)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	boolean("S3_PATH_STYLE", &config.S3PathStyle)
	duration("PRESIGN_EXPIRY", &config.PresignExpiry)

	str("MINIO_ENDPOINT", &config.MinioEndpoint)
	str("MINIO_BUCKET", &config.MinioBucket)
	str("MINIO_ACCESS_KEY", &config.MinioAccessKey)
	str("MINIO_SECRET_KEY", &config.MinioSecretKey)
	boolean("MINIO_USE_SSL", &config.MinioUseSSL)
	str("MINIO_REGION", &config.MinioRegion)

	str("GCS_BUCKET", &config.GCSBucket)
	str("GCS_CREDENTIALS_FILE", &config.GCSCredentialsFile)

	str("OAUTH_CLIENT_ID", &config.OAuthClientID)
	str("OAUTH_CLIENT_SECRET", &config.OAuthClientSecret)
	str("OAUTH_DEVICE_AUTH_URL", &config.OAuthDeviceAuthURL)
	str("OAUTH_TOKEN_URL", &config.OAuthTokenURL)
	if v, ok := lookupEnv(EnvPrefix + "OAUTH_SCOPES"); ok && v != "" {
		config.OAuthScopes = splitList(v)
	}

	str("DATABASE_PATH", &config.DatabasePath)
	str("LOG_LEVEL", &config.LogLevel)
	duration("WAIT_TIMEOUT", &config.WaitTimeout)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
