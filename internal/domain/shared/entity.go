package shared

import (
	"time"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() int64
	GetCreatedAt() time.Time
	GetUpdatedAt() *time.Time
}

// BaseEntity provides common fields for all entities.
// ID is assigned by the store on insert; UpdatedAt stays nil until the first update.
type BaseEntity struct {
	ID        int64      `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() int64 {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp, nil if never updated
func (e *BaseEntity) GetUpdatedAt() *time.Time {
	return e.UpdatedAt
}

// Touch records a modification at the given time
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = &now
}

// NewBaseEntity creates a new base entity stamped with the given creation time
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{
		CreatedAt: now,
	}
}

// ValidateID returns ErrInvalidID when id is not a positive integer
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// UTCNow is the production Clock
func UTCNow() time.Time {
	return time.Now().UTC()
}
