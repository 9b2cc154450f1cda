package mocks

import (
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/status"

	"github.com/stretchr/testify/mock"
)

// JobStore is a mock
type JobStore struct {
	mock.Mock
}

func (m *JobStore) Insert(job *persistence.Job) error {
	args := m.Mock.Called(job)
	return args.Error(0)
}

func (m *JobStore) Get(id string, userID string) (*persistence.Job, error) {
	args := m.Mock.Called(id, userID)
	res, _ := args.Get(0).(*persistence.Job)
	return res, args.Error(1)
}

func (m *JobStore) List(userID string, statusFilter string, skip, limit int64) ([]persistence.Job, error) {
	args := m.Mock.Called(userID, statusFilter, skip, limit)
	res, _ := args.Get(0).([]persistence.Job)
	return res, args.Error(1)
}

func (m *JobStore) Enqueue(id string, userID string) (*persistence.Job, bool, error) {
	args := m.Mock.Called(id, userID)
	res, _ := args.Get(0).(*persistence.Job)
	return res, args.Bool(1), args.Error(2)
}

func (m *JobStore) Claim(id string) (*persistence.Job, error) {
	args := m.Mock.Called(id)
	res, _ := args.Get(0).(*persistence.Job)
	return res, args.Error(1)
}

func (m *JobStore) SetStatus(id string, newStatus status.Status) error {
	args := m.Mock.Called(id, newStatus)
	return args.Error(0)
}

func (m *JobStore) Complete(id string, durationSec int) error {
	args := m.Mock.Called(id, durationSec)
	return args.Error(0)
}

func (m *JobStore) Fail(id string, errMsg string) error {
	args := m.Mock.Called(id, errMsg)
	return args.Error(0)
}

func (m *JobStore) SetStatusOwned(id string, userID string, newStatus status.Status, errMsg string) error {
	args := m.Mock.Called(id, userID, newStatus, errMsg)
	return args.Error(0)
}

func (m *JobStore) Delete(id string, userID string) error {
	args := m.Mock.Called(id, userID)
	return args.Error(0)
}
