package messages

// QueueMessage message going through broker
type QueueMessage struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// NewQueueMessage creates the message with id
func NewQueueMessage(id string) *QueueMessage {
	return &QueueMessage{ID: id}
}

// NewQueueMsgWithError creates the message with id and error
func NewQueueMsgWithError(id string, errMsg string) *QueueMessage {
	return &QueueMessage{ID: id, Error: errMsg}
}
