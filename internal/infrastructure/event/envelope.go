package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
)

// EventVersion is the schema version stamped on every envelope
const EventVersion = "1.0.0"

// Envelope wraps an event payload with delivery metadata
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion string          `json:"event_version"`
	Timestamp    time.Time       `json:"timestamp"`
	RequestID    string          `json:"request_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// NewEnvelope serializes payload and stamps a fresh event id.
// The request id of ctx, when present, travels with the event.
func NewEnvelope(ctx context.Context, eventType string, payload any, now time.Time) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		EventVersion: EventVersion,
		Timestamp:    now.UTC(),
		RequestID:    logger.GetRequestID(ctx),
		Payload:      body,
	}, nil
}

// Decode unmarshals the payload into dest
func (e *Envelope) Decode(dest any) error {
	if err := json.Unmarshal(e.Payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.EventType, err)
	}
	return nil
}
