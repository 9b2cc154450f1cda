package storage

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestBackend_Local(t *testing.T) {
	assert.Equal(t, BackendLocal, Config{}.Backend())
	// s3 without full credentials does not count
	assert.Equal(t, BackendLocal, Config{S3: S3Config{Bucket: "b"}}.Backend())
	assert.Equal(t, BackendLocal, Config{S3: S3Config{Bucket: "b", AccessKey: "k"}}.Backend())
}

func TestBackend_S3(t *testing.T) {
	cfg := Config{S3: S3Config{Bucket: "b", AccessKey: "k", SecretKey: "s"}}
	assert.Equal(t, BackendS3, cfg.Backend())
	// s3 wins over gcs
	cfg.GCS.Bucket = "g"
	assert.Equal(t, BackendS3, cfg.Backend())
}

func TestBackend_GCS(t *testing.T) {
	cfg := Config{GCS: GCSConfig{Bucket: "g"}}
	assert.Equal(t, BackendGCS, cfg.Backend())
}

func TestNewConfig(t *testing.T) {
	v := viper.New()
	v.Set("fileStorage.s3.bucket", "b")
	v.Set("fileStorage.s3.accessKey", "k")
	v.Set("fileStorage.s3.secretKey", "s")
	v.Set("fileStorage.s3.endpoint", "http://minio:9000")
	v.Set("fileStorage.gcs.bucket", "g")
	v.Set("fileStorage.path", "/data/")

	cfg := NewConfig(v)

	assert.Equal(t, "b", cfg.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "g", cfg.GCS.Bucket)
	assert.Equal(t, "/data/", cfg.LocalPath)
	assert.Equal(t, BackendS3, cfg.Backend())
}

func TestNewConfig_DefaultPath(t *testing.T) {
	cfg := NewConfig(viper.New())
	assert.Equal(t, "/data/audio.in/", cfg.LocalPath)
	assert.Equal(t, BackendLocal, cfg.Backend())
}
