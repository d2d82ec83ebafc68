package models

import (
	"github.com/bookstore/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100);not null;index"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(200);not null;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
