package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// FileStorage is a mock
type FileStorage struct {
	mock.Mock
}

func (m *FileStorage) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	args := m.Mock.Called(name, reader)
	return args.String(0), args.Error(1)
}

func (m *FileStorage) LocalPath(ctx context.Context, key string) (string, bool, error) {
	args := m.Mock.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *FileStorage) Delete(ctx context.Context, key string) error {
	args := m.Mock.Called(key)
	return args.Error(0)
}
