package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer is billed through invoices. Invoices reference their customer by id only.
type Customer struct {
	shared.BaseEntity
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NewCustomer creates a new customer
func NewCustomer(firstName, lastName, email string, now time.Time) (*Customer, error) {
	c := &Customer{BaseEntity: shared.NewBaseEntity(now)}
	if err := c.set(firstName, lastName, email); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's names and email
func (c *Customer) Update(firstName, lastName, email string, now time.Time) error {
	if err := c.set(firstName, lastName, email); err != nil {
		return err
	}
	c.Touch(now)
	return nil
}

// FullName returns "first last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) set(firstName, lastName, email string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateName("first name", firstName); err != nil {
		return err
	}
	if err := validateName("last name", lastName); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Email = email
	return nil
}

func validateName(label, name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Customer "+label+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Customer "+label+" cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("INVALID_EMAIL", "Customer email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
