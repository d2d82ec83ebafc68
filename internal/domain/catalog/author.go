package catalog

import (
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
)

// Author writes zero or more books. Books reference their author by id only.
type Author struct {
	shared.BaseEntity
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewAuthor creates a new author
func NewAuthor(firstName, lastName string, now time.Time) (*Author, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if err := validatePersonName("first name", firstName); err != nil {
		return nil, err
	}
	if err := validatePersonName("last name", lastName); err != nil {
		return nil, err
	}
	return &Author{
		BaseEntity: shared.NewBaseEntity(now),
		FirstName:  firstName,
		LastName:   lastName,
	}, nil
}

// Rename updates the author's names
func (a *Author) Rename(firstName, lastName string, now time.Time) error {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if err := validatePersonName("first name", firstName); err != nil {
		return err
	}
	if err := validatePersonName("last name", lastName); err != nil {
		return err
	}
	a.FirstName = firstName
	a.LastName = lastName
	a.Touch(now)
	return nil
}

// FullName returns "first last"
func (a *Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func validatePersonName(label, name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Author "+label+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Author "+label+" cannot exceed 100 characters")
	}
	return nil
}
