package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"

	"github.com/pkg/errors"
)

// WriterCloser keeps Writer interface and close function
type WriterCloser interface {
	io.Writer
	Close() error
}

// OpenFileFunc declares function to open file by name and return Writer
type OpenFileFunc func(fileName string) (WriterCloser, error)

// Local stores files on local disk. LocalPath returns the permanent
// storage location directly, no temp copy is made.
type Local struct {
	// Path is the main folder to save into
	Path         string
	OpenFileFunc OpenFileFunc
}

// NewLocal creates Local storage instance
func NewLocal(path string) (*Local, error) {
	cmdapp.Log.Infof("Init Local File Storage at: %s", path)
	if path == "" {
		return nil, errors.New("No storage path provided")
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "Can't init storage directory "+path)
	}
	return &Local{Path: path, OpenFileFunc: openFile}, nil
}

// Put saves file to disk under a generated key
func (fs *Local) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	key := newKey(name)
	fileName := filepath.Join(fs.Path, key)
	f, err := fs.OpenFileFunc(fileName)
	if err != nil {
		return "", errors.Wrap(err, "Can not create file "+fileName)
	}
	defer f.Close()
	savedBytes, err := io.Copy(f, reader)
	if err != nil {
		return "", errors.Wrap(err, "Can not save file "+fileName)
	}
	cmdapp.Log.Info("Saved file " + fileName + ". Size = " + strconv.FormatInt(savedBytes, 10))
	return key, nil
}

// LocalPath returns the direct path of the stored file
func (fs *Local) LocalPath(ctx context.Context, key string) (string, bool, error) {
	fileName := filepath.Join(fs.Path, key)
	if _, err := os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			return "", false, errors.Wrapf(verr.ErrNotFound, "file %s not found", key)
		}
		return "", false, errors.Wrap(err, "Can't stat file "+fileName)
	}
	return fileName, false, nil
}

// Delete removes the stored file, missing file is not an error
func (fs *Local) Delete(ctx context.Context, key string) error {
	fileName := filepath.Join(fs.Path, key)
	err := os.Remove(fileName)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "Can't delete file "+fileName)
	}
	return nil
}

func openFile(fileName string) (WriterCloser, error) {
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
}
