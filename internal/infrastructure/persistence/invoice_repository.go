package persistence

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var invoiceCustomer = link("customers", "id", "invoices", "customer_id")

var invoiceFields = fieldSet{
	table: "invoices",
	columns: map[shared.Field]column{
		invoicing.InvoiceCustomerID:        ownColumn("invoices", "customer_id"),
		invoicing.InvoiceIssuedAt:          ownColumn("invoices", "issued_at"),
		invoicing.InvoiceTotal:             ownColumn("invoices", "total"),
		invoicing.InvoiceCustomerFirstName: relatedColumn(invoiceCustomer, "first_name"),
		invoicing.InvoiceCustomerLastName:  relatedColumn(invoiceCustomer, "last_name"),
	},
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func orderLinesByID(db *gorm.DB) *gorm.DB {
	return db.Order("invoice_lines.id")
}

func preloadInvoiceRelations(expand invoicing.InvoiceExpand) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if expand.Customer {
			query = query.Preload("Customer")
		}
		if expand.Lines || expand.LineBooks {
			query = query.Preload("Lines", orderLinesByID)
		}
		if expand.LineBooks {
			query = query.Preload("Lines.Book")
		}
		return query
	}
}

// FindByID finds an invoice by its ID with the requested relations
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64, expand invoicing.InvoiceExpand) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	query := preloadInvoiceRelations(expand)(r.db.WithContext(ctx))
	if err := findByID(query, &model, "invoice", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of invoices ordered by ID
func (r *GormInvoiceRepository) List(ctx context.Context, filter invoicing.InvoiceFilter, page shared.PageRequest, expand invoicing.InvoiceExpand) (*shared.Page[invoicing.Invoice], error) {
	rows, total, err := findPage[models.InvoiceModel](ctx, r.db, listQuery{
		fields:  invoiceFields,
		spec:    filter.Spec(),
		page:    page,
		orderBy: orderBy("invoices", "id"),
		preload: preloadInvoiceRelations(expand),
	})
	if err != nil {
		return nil, err
	}
	return toPage(rows, total, page, (*models.InvoiceModel).ToDomain), nil
}

// Create inserts the invoice header, then its lines, and copies the assigned IDs back
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	lines := model.Lines
	model.Lines = nil

	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	invoice.ID = model.ID

	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].InvoiceID = model.ID
	}
	if err := db.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return err
	}
	for i := range lines {
		invoice.Lines[i].ID = lines[i].ID
		invoice.Lines[i].InvoiceID = model.ID
	}
	return nil
}

// UpdateTotal stores a recomputed invoice total
func (r *GormInvoiceRepository) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal, now time.Time) error {
	return updateByID(ctx, r.db, &models.InvoiceModel{}, "invoice", id, map[string]any{
		"total":      total,
		"updated_at": now,
	})
}

// Delete removes an invoice together with its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Delete(&models.InvoiceLineModel{}).Error; err != nil {
		return err
	}
	return deleteByID(ctx, r.db, &models.InvoiceModel{}, "invoice", id)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
