package storage

import (
	"context"
	"io"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"

	gstorage "cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GCS stores files in a Google Cloud Storage bucket
type GCS struct {
	client *gstorage.Client
	bucket string
}

// NewGCS creates GCS storage instance
func NewGCS(cfg GCSConfig) (*GCS, error) {
	cmdapp.Log.Infof("Init GCS File Storage at bucket: %s", cfg.Bucket)
	if cfg.Bucket == "" {
		return nil, errors.New("No gcs bucket provided")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gstorage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init gcs client")
	}
	return &GCS{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads content under a generated key
func (fs *GCS) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	key := newKey(name)
	w := fs.client.Bucket(fs.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		w.Close()
		return "", errors.Wrap(err, "Can't upload to gcs")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "Can't upload to gcs")
	}
	cmdapp.Log.Infof("Saved gcs object %s/%s", fs.bucket, key)
	return key, nil
}

// LocalPath downloads the object to a temp file.
// The caller removes the file after use.
func (fs *GCS) LocalPath(ctx context.Context, key string) (string, bool, error) {
	r, err := fs.client.Bucket(fs.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return "", false, errors.Wrapf(verr.ErrNotFound, "gcs object %s not found", key)
		}
		return "", false, errors.Wrap(err, "Can't get gcs object "+key)
	}
	defer r.Close()
	return saveTemp(key, r)
}

// Delete removes the object, missing object is not an error
func (fs *GCS) Delete(ctx context.Context, key string) error {
	err := fs.client.Bucket(fs.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gstorage.ErrObjectNotExist) {
		return errors.Wrap(err, "Can't delete gcs object "+key)
	}
	return nil
}
