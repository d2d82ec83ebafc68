package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var lineBook = link("books", "id", "invoice_lines", "book_id")

var lineFields = fieldSet{
	table: "invoice_lines",
	columns: map[shared.Field]column{
		invoicing.LineInvoiceID: ownColumn("invoice_lines", "invoice_id"),
		invoicing.LineBookID:    ownColumn("invoice_lines", "book_id"),
		invoicing.LineQuantity:  ownColumn("invoice_lines", "quantity"),
		invoicing.LineUnitPrice: ownColumn("invoice_lines", "unit_price"),
		invoicing.LineBookTitle: relatedColumn(lineBook, "title"),
	},
}

// GormInvoiceLineRepository implements InvoiceLineRepository using GORM
type GormInvoiceLineRepository struct {
	db *gorm.DB
}

// NewGormInvoiceLineRepository creates a new GormInvoiceLineRepository
func NewGormInvoiceLineRepository(db *gorm.DB) *GormInvoiceLineRepository {
	return &GormInvoiceLineRepository{db: db}
}

func preloadLineRelations(expand invoicing.LineExpand) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if expand.Book {
			query = query.Preload("Book")
		}
		return query
	}
}

// FindByID finds an invoice line by its ID
func (r *GormInvoiceLineRepository) FindByID(ctx context.Context, id int64, expand invoicing.LineExpand) (*invoicing.InvoiceLine, error) {
	var model models.InvoiceLineModel
	query := preloadLineRelations(expand)(r.db.WithContext(ctx))
	if err := findByID(query, &model, "invoice line", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of invoice lines ordered by ID
func (r *GormInvoiceLineRepository) List(ctx context.Context, filter invoicing.LineFilter, page shared.PageRequest, expand invoicing.LineExpand) (*shared.Page[invoicing.InvoiceLine], error) {
	rows, total, err := findPage[models.InvoiceLineModel](ctx, r.db, listQuery{
		fields:  lineFields,
		spec:    filter.Spec(),
		page:    page,
		orderBy: orderBy("invoice_lines", "id"),
		preload: preloadLineRelations(expand),
	})
	if err != nil {
		return nil, err
	}
	return toPage(rows, total, page, (*models.InvoiceLineModel).ToDomain), nil
}

// FindByInvoice returns every line of an invoice ordered by ID
func (r *GormInvoiceLineRepository) FindByInvoice(ctx context.Context, invoiceID int64) ([]invoicing.InvoiceLine, error) {
	var rows []models.InvoiceLineModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]invoicing.InvoiceLine, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines, nil
}

// ExistsForBook reports whether any invoice line references the book
func (r *GormInvoiceLineRepository) ExistsForBook(ctx context.Context, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceLineModel{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves the quantity and subtotal of a line
func (r *GormInvoiceLineRepository) Update(ctx context.Context, line *invoicing.InvoiceLine) error {
	return updateByID(ctx, r.db, &models.InvoiceLineModel{}, "invoice line", line.ID, map[string]any{
		"quantity":   line.Quantity,
		"subtotal":   line.Subtotal,
		"updated_at": line.UpdatedAt,
	})
}

// Delete removes an invoice line by ID
func (r *GormInvoiceLineRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &models.InvoiceLineModel{}, "invoice line", id)
}

// Ensure GormInvoiceLineRepository implements InvoiceLineRepository
var _ invoicing.InvoiceLineRepository = (*GormInvoiceLineRepository)(nil)
