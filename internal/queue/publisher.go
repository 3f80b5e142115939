package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the durable queue entity change events are routed to.
const QueueName = "catalog.changed"

const dialTimeout = 5 * time.Second

// Publisher sends entity change events.
type Publisher interface {
	PublishEntityChanged(ctx context.Context, event EntityChangedEvent) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEntityChanged(context.Context, EntityChangedEvent) error { return nil }

// AMQPPublisher publishes to RabbitMQ. Each publish dials, declares the
// queue and closes again, so a broker outage never wedges a request.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishEntityChanged publishes event as a persistent JSON message to
// QueueName. Errors are returned wrapped; logging is left to the caller.
func (p *AMQPPublisher) PublishEntityChanged(ctx context.Context, event EntityChangedEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return errors.Wrap(err, "rabbitmq: dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq: open channel")
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "rabbitmq: declare queue")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		return errors.Wrapf(err, "rabbitmq: publish %s event", event.Entity)
	}
	return nil
}
