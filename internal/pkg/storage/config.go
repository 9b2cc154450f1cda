package storage

import (
	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"

	"github.com/spf13/viper"
)

type (
	// S3Config keeps S3 compatible backend settings
	S3Config struct {
		Endpoint  string
		Region    string
		Bucket    string
		AccessKey string
		SecretKey string
	}

	// GCSConfig keeps Google Cloud Storage backend settings
	GCSConfig struct {
		Bucket          string
		CredentialsFile string
	}

	// Config keeps all backend settings. The backend is resolved once at
	// process start from credential presence and injected into services.
	Config struct {
		S3        S3Config
		GCS       GCSConfig
		LocalPath string
	}
)

// Backend names
const (
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendLocal = "local"
)

// NewConfig fills Config from viper settings
func NewConfig(c *viper.Viper) Config {
	res := Config{}
	res.S3.Endpoint = c.GetString("fileStorage.s3.endpoint")
	res.S3.Region = c.GetString("fileStorage.s3.region")
	res.S3.Bucket = c.GetString("fileStorage.s3.bucket")
	res.S3.AccessKey = c.GetString("fileStorage.s3.accessKey")
	res.S3.SecretKey = c.GetString("fileStorage.s3.secretKey")
	res.GCS.Bucket = c.GetString("fileStorage.gcs.bucket")
	res.GCS.CredentialsFile = c.GetString("fileStorage.gcs.credentialsFile")
	res.LocalPath = c.GetString("fileStorage.path")
	if res.LocalPath == "" {
		res.LocalPath = "/data/audio.in/"
	}
	return res
}

// Backend resolves the backend name from credential presence,
// in priority order s3 > gcs > local
func (c Config) Backend() string {
	if c.S3.Bucket != "" && c.S3.AccessKey != "" && c.S3.SecretKey != "" {
		return BackendS3
	}
	if c.GCS.Bucket != "" {
		return BackendGCS
	}
	return BackendLocal
}

// NewFromConfig creates the storage backend. A remote backend init failure
// falls back to the next backend in priority order - it never kills the app.
func NewFromConfig(cfg Config) (FileStorage, error) {
	switch cfg.Backend() {
	case BackendS3:
		res, err := NewS3(cfg.S3)
		if err == nil {
			return res, nil
		}
		cmdapp.Log.Warn("Can't init s3 storage, trying next backend. ", err)
		fallthrough
	case BackendGCS:
		if cfg.GCS.Bucket != "" {
			res, err := NewGCS(cfg.GCS)
			if err == nil {
				return res, nil
			}
			cmdapp.Log.Warn("Can't init gcs storage, trying local. ", err)
		}
	}
	return NewLocal(cfg.LocalPath)
}
