package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// DefaultExchange is the topic exchange events are routed through
	DefaultExchange = "bookstore.events"
	exchangeType    = "topic"

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	confirmTimeout = 5 * time.Second
)

var errNotAcknowledged = errors.New("event not acknowledged")

// channel is the subset of *amqp.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes envelopes to a durable topic exchange with
// publisher confirms. Failed publishes are retried with exponential backoff.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  channel
	confirms <-chan amqp.Confirmation
	exchange string
	logger   *zap.Logger
	now      func() time.Time

	// confirms arrive in publish order, so publishes are serialized
	mu sync.Mutex
}

// NewRabbitMQPublisher dials the broker, declares the exchange and enables confirms
func NewRabbitMQPublisher(url, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	logger.Info("Connected to RabbitMQ", zap.String("exchange", exchange))

	p := newPublisher(ch, confirms, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, confirms <-chan amqp.Confirmation, exchange string, logger *zap.Logger) *RabbitMQPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitMQPublisher{
		channel:  ch,
		confirms: confirms,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}
}

// Publish sends payload under the routing key eventType and waits for the broker confirm
func (p *RabbitMQPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	envelope, err := NewEnvelope(ctx, eventType, payload, p.now())
	if err != nil {
		return err
	}
	return p.publishWithRetry(ctx, envelope)
}

func (p *RabbitMQPublisher) publishWithRetry(ctx context.Context, e *Envelope) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, maxBackoff)
			}
		}

		lastErr = p.publishOnce(ctx, e, body)
		if lastErr == nil {
			p.logger.Debug("Event published",
				zap.String("event_id", e.EventID),
				zap.String("event_type", e.EventType),
			)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.logger.Warn("Failed to publish event, retrying",
			zap.String("event_id", e.EventID),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	p.logger.Error("Failed to publish event after retries",
		zap.String("event_id", e.EventID),
		zap.String("event_type", e.EventType),
		zap.Int("attempts", maxRetries),
		zap.Error(lastErr),
	)
	return fmt.Errorf("failed to publish event after %d attempts: %w", maxRetries, lastErr)
}

func (p *RabbitMQPublisher) publishOnce(ctx context.Context, e *Envelope, body []byte) error {
	err := p.channel.PublishWithContext(ctx, p.exchange, e.EventType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			Timestamp:     e.Timestamp,
			MessageId:     e.EventID,
			CorrelationId: e.RequestID,
			Body:          body,
			Headers: amqp.Table{
				"event_type":    e.EventType,
				"event_version": e.EventVersion,
			},
		},
	)
	if err != nil {
		return err
	}

	select {
	case confirm, ok := <-p.confirms:
		if !ok {
			return amqp.ErrClosed
		}
		if !confirm.Ack {
			return errNotAcknowledged
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(confirmTimeout):
		return errors.New("confirmation timeout")
	}
}

// IsHealthy reports whether the broker connection is open
func (p *RabbitMQPublisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the channel and the connection
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	p.logger.Info("Publisher closed")
	return nil
}
