package rabbit

import (
	"encoding/json"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/messages"

	"github.com/streadway/amqp"

	"github.com/pkg/errors"
)

// Sender publishes messages to a rabbit queue
type Sender struct {
	ChannelProvider *ChannelProvider
}

// NewSender initializes rabbit sender
func NewSender(provider *ChannelProvider) *Sender {
	return &Sender{ChannelProvider: provider}
}

// Send sends the message to the queue
func (sender *Sender) Send(message *messages.QueueMessage, queue string, replyQueue string) error {
	cmdapp.Log.Infof("Sending message %s(%s)", queue, message.ID)
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "Can't marshal message")
	}
	err = sender.ChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		return ch.Publish("", sender.ChannelProvider.QueueName(queue), false, false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         msgBytes,
				ReplyTo:      sender.ChannelProvider.QueueName(replyQueue),
			})
	})
	if err != nil {
		return errors.Wrap(err, "Can't send message")
	}
	return nil
}
