package storage

import (
	"context"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// S3 stores files in a S3 compatible object store
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates S3 storage instance
func NewS3(cfg S3Config) (*S3, error) {
	cmdapp.Log.Infof("Init S3 File Storage at bucket: %s", cfg.Bucket)
	if cfg.Bucket == "" {
		return nil, errors.New("No s3 bucket provided")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")),
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts = append(opts, awsconfig.WithRegion(region))
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: cfg.Endpoint}, nil
			})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load s3 config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Endpoint != ""
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads content under a generated key
func (fs *S3) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	key := newKey(name)
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", errors.Wrap(err, "Can't upload to s3")
	}
	cmdapp.Log.Infof("Saved s3 object %s/%s", fs.bucket, key)
	return key, nil
}

// LocalPath downloads the object to a temp file.
// The caller removes the file after use.
func (fs *S3) LocalPath(ctx context.Context, key string) (string, bool, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", false, errors.Wrapf(verr.ErrNotFound, "s3 object %s not found", key)
		}
		return "", false, errors.Wrap(err, "Can't get s3 object "+key)
	}
	defer out.Body.Close()
	return saveTemp(key, out.Body)
}

// Delete removes the object, missing object is not an error
func (fs *S3) Delete(ctx context.Context, key string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrap(err, "Can't delete s3 object "+key)
	}
	return nil
}

func saveTemp(key string, reader io.Reader) (string, bool, error) {
	f, err := ioutil.TempFile("", "voxgo-*"+filepath.Ext(key))
	if err != nil {
		return "", false, errors.Wrap(err, "Can't create temp file")
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return "", false, errors.Wrap(err, "Can't save temp file "+f.Name())
	}
	return f.Name(), true, nil
}
