package rabbit

import (
	"github.com/streadway/amqp"

	"github.com/pkg/errors"
)

// DeclareQueue declares a durable queue
func DeclareQueue(ch *amqp.Channel, qName string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		qName, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

// NewChannel creates a consumer channel for a queue
func NewChannel(ch *amqp.Channel, qName string) (<-chan amqp.Delivery, error) {
	_, err := DeclareQueue(ch, qName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't declare queue "+qName)
	}
	err = ch.Qos(1, 0, false)
	if err != nil {
		return nil, errors.Wrap(err, "Can't set Qos")
	}
	return ch.Consume(
		qName, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}
