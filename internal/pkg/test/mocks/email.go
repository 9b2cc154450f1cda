package mocks

import (
	"github.com/voxscribe/voxgo/internal/app/inform"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/mock"
)

// EmailMaker is a mock
type EmailMaker struct {
	mock.Mock
}

// Make is a mocked Make function
func (m *EmailMaker) Make(data *inform.Data) (*email.Email, error) {
	args := m.Mock.Called(data)
	res, _ := args.Get(0).(*email.Email)
	return res, args.Error(1)
}

// EmailSender is a mock
type EmailSender struct {
	mock.Mock
}

// Send is a mocked Send function
func (m *EmailSender) Send(e *email.Email) error {
	args := m.Mock.Called(e)
	return args.Error(0)
}
