// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models own table names, column types and relations used for preloading
// 3. ToDomain/FromDomain mappers convert between the two and never copy relations on write
//
// Structure:
// - base.go: BaseModel shared by every table
// - catalog.go: authors and books
// - partner.go: customers
// - invoicing.go: invoices and invoice lines
package models
