package mocks

import (
	"context"

	"github.com/voxscribe/voxgo/internal/pkg/transcriber"

	"github.com/stretchr/testify/mock"
)

// Transcriber is a mock
type Transcriber struct {
	mock.Mock
}

// Transcribe is a mocked Transcribe function
func (m *Transcriber) Transcribe(ctx context.Context, file string) (*transcriber.Result, error) {
	args := m.Mock.Called(file)
	res, _ := args.Get(0).(*transcriber.Result)
	return res, args.Error(1)
}
