package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// DLQExchangeName is the dead-letter exchange. Messages a worker cannot
// process land here under their original routing key, for inspection and
// manual replay.
const DLQExchangeName = "events.dlq"

func DeclareDLQExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		DLQExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// DeclareDLQQueue binds a durable "<routingKey>.dlq" queue to the
// dead-letter exchange so parked messages are retained.
func DeclareDLQQueue(ch *amqp091.Channel, routingKey string) (amqp091.Queue, error) {
	q, err := ch.QueueDeclare(
		fmt.Sprintf("%s.dlq", routingKey),
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, DLQExchangeName, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ queue: %w", err)
	}
	return q, nil
}

// PublishToDLQ parks a message on the dead-letter exchange with the
// failure cause in the headers.
func (p *Publisher) PublishToDLQ(routingKey string, payload []byte, cause string) error {
	headers := amqp091.Table{
		"x-original-error": cause,
	}

	return p.channel.Publish(
		DLQExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp091.Persistent,
			Headers:      headers,
		},
	)
}
