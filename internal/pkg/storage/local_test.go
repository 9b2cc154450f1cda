package storage

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	verr "github.com/voxscribe/voxgo/internal/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	dir, err := ioutil.TempDir("", "voxgo-storage")
	require.Nil(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	res, err := NewLocal(dir)
	require.Nil(t, err)
	return res
}

func TestLocal_PutGeneratesKey(t *testing.T) {
	fs := newTestLocal(t)
	key, err := fs.Put(context.Background(), "my song.MP3", strings.NewReader("body"))

	require.Nil(t, err)
	assert.True(t, strings.HasSuffix(key, ".mp3"), key)
	assert.NotContains(t, key, "my song")

	key2, err := fs.Put(context.Background(), "my song.MP3", strings.NewReader("body"))
	require.Nil(t, err)
	assert.NotEqual(t, key, key2)
}

func TestLocal_LocalPath(t *testing.T) {
	fs := newTestLocal(t)
	key, err := fs.Put(context.Background(), "a.wav", strings.NewReader("body"))
	require.Nil(t, err)

	path, temp, err := fs.LocalPath(context.Background(), key)
	require.Nil(t, err)
	assert.False(t, temp)
	data, err := ioutil.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "body", string(data))
}

func TestLocal_LocalPath_Missing(t *testing.T) {
	fs := newTestLocal(t)
	_, _, err := fs.LocalPath(context.Background(), "no-such-key.mp3")
	require.NotNil(t, err)
	assert.True(t, verr.IsNotFound(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestLocal_DeleteIdempotent(t *testing.T) {
	fs := newTestLocal(t)
	key, err := fs.Put(context.Background(), "a.wav", strings.NewReader("body"))
	require.Nil(t, err)

	assert.Nil(t, fs.Delete(context.Background(), key))
	assert.Nil(t, fs.Delete(context.Background(), key))
	assert.Nil(t, fs.Delete(context.Background(), "never-existed.mp3"))
}

func TestLocal_FailsOnNoOpen(t *testing.T) {
	fs := newTestLocal(t)
	fs.OpenFileFunc = func(file string) (WriterCloser, error) {
		return nil, assert.AnError
	}
	_, err := fs.Put(context.Background(), "a.wav", bytes.NewBufferString("body"))
	assert.NotNil(t, err)
}

func TestNewLocal_Fails(t *testing.T) {
	_, err := NewLocal("")
	assert.NotNil(t, err)
}
