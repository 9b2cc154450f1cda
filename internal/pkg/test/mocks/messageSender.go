package mocks

import (
	"github.com/voxscribe/voxgo/internal/pkg/messages"

	"github.com/stretchr/testify/mock"
)

// MessageSender is a mock
type MessageSender struct {
	mock.Mock
}

// Send is a mocked Send function
func (m *MessageSender) Send(message *messages.QueueMessage, queue string, replyQueue string) error {
	args := m.Mock.Called(message, queue, replyQueue)
	return args.Error(0)
}
