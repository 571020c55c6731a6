package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/imgdrop/internal/flagx"
)

// flagNames lists the flags handled by parseFlags. -c/-config belong to
// parseJson.
var flagNames = []string{"-b", "-p", "-d", "-l", "-f", "-w", "-bucket"}

// parseFlags populates Config fields from command-line flags.
//
//	-b string        storage backend (s3, s3-presigned, minio, gcs)
//	-p string        object key prefix
//	-d string        SQLite database path
//	-l string        log level (debug, info, warn, error)
//	-f string        upload this file and exit
//	-w duration      wait timeout for -f
//	-bucket string   bucket for the selected backend
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("imgdrop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.KeyPrefix, "p", config.KeyPrefix, "object key prefix")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database path")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.UploadFile, "f", config.UploadFile, "upload this file and exit")
	fs.DurationVar(&config.WaitTimeout, "w", config.WaitTimeout, "wait timeout for -f")
	bucket := fs.String("bucket", "", "bucket for the selected backend")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *bucket != "" {
		switch config.StorageBackend {
		case BackendMinio:
			config.MinioBucket = *bucket
		case BackendGCS:
			config.GCSBucket = *bucket
		default:
			config.S3Bucket = *bucket
		}
	}
	return nil
}
