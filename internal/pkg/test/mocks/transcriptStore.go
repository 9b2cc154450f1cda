package mocks

import (
	"github.com/voxscribe/voxgo/internal/pkg/persistence"

	"github.com/stretchr/testify/mock"
)

// TranscriptStore is a mock
type TranscriptStore struct {
	mock.Mock
}

func (m *TranscriptStore) Insert(tr *persistence.Transcript) error {
	args := m.Mock.Called(tr)
	return args.Error(0)
}

func (m *TranscriptStore) GetByJob(jobID string) (*persistence.Transcript, error) {
	args := m.Mock.Called(jobID)
	res, _ := args.Get(0).(*persistence.Transcript)
	return res, args.Error(1)
}

func (m *TranscriptStore) ExistsByJob(jobID string) (bool, error) {
	args := m.Mock.Called(jobID)
	return args.Bool(0), args.Error(1)
}

func (m *TranscriptStore) DeleteByJob(jobID string) error {
	args := m.Mock.Called(jobID)
	return args.Error(0)
}
