package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler consumes a published envelope
type Handler func(ctx context.Context, e *Envelope) error

// InMemoryBus delivers events to in-process subscribers synchronously.
// It stands in for the broker when RabbitMQ is disabled.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	now      func() time.Time
}

// NewInMemoryBus creates a new in-memory event bus
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
		now:      time.Now,
	}
}

// Subscribe registers a handler for an event type
func (b *InMemoryBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("Handler subscribed", zap.String("event_type", eventType))
}

// Publish wraps payload in an envelope and hands it to every subscriber.
// Handler failures are logged and never returned.
func (b *InMemoryBus) Publish(ctx context.Context, eventType string, payload any) error {
	envelope, err := NewEnvelope(ctx, eventType, payload, b.now())
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[eventType]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := b.dispatch(ctx, handler, envelope); err != nil {
			b.logger.Error("Handler failed to process event",
				zap.String("event_type", eventType),
				zap.String("event_id", envelope.EventID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Close is a no-op kept for symmetry with the broker publisher
func (b *InMemoryBus) Close() error {
	return nil
}

func (b *InMemoryBus) dispatch(ctx context.Context, handler Handler, e *Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Handler panicked",
				zap.String("event_type", e.EventType),
				zap.Any("panic", r),
			)
		}
	}()
	return handler(ctx, e)
}

// LogHandler returns a handler that logs every envelope it receives
func LogHandler(logger *zap.Logger) Handler {
	return func(ctx context.Context, e *Envelope) error {
		logger.Info("Event published",
			zap.String("event_id", e.EventID),
			zap.String("event_type", e.EventType),
			zap.String("request_id", e.RequestID),
			zap.ByteString("payload", e.Payload),
		)
		return nil
	}
}
