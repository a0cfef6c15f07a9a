package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends events as persistent JSON messages to one durable
// queue through the default exchange. A channel is not safe for concurrent
// use, so Publish is serialized.
type AMQPPublisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     amqpChannel
	queue  string
	logger logging.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPPublisher dials rawURL, opens a channel and declares queue.
func NewAMQPPublisher(rawURL, queue string, logger logging.Logger) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid amqp url: %w", err)
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	p, err := newAMQPPublisher(ch, queue, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, queue string, logger logging.Logger) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return nil, fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	return &AMQPPublisher{ch: ch, queue: queue, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	p.logger.Debug(ctx, "event published", "queue", p.queue, "type", e.Type, "user_id", e.UserID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
