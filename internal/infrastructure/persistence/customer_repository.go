package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var customerFields = fieldSet{
	table: "customers",
	columns: map[shared.Field]column{
		partner.CustomerFirstName: ownColumn("customers", "first_name"),
		partner.CustomerLastName:  ownColumn("customers", "last_name"),
		partner.CustomerEmail:     ownColumn("customers", "email"),
	},
	has: map[shared.Field]relation{
		partner.CustomerInvoices: *link("invoices", "customer_id", "customers", "id"),
	},
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := findByID(r.db.WithContext(ctx), &model, "customer", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountInvoices counts the invoices billed to a customer
func (r *GormCustomerRepository) CountInvoices(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns one page of customers ordered by first name
func (r *GormCustomerRepository) List(ctx context.Context, filter partner.CustomerFilter, page shared.PageRequest) (*shared.Page[partner.Customer], error) {
	rows, total, err := findPage[models.CustomerModel](ctx, r.db, listQuery{
		fields:  customerFields,
		spec:    filter.Spec(),
		page:    page,
		orderBy: orderBy("customers", "first_name", "id"),
	})
	if err != nil {
		return nil, err
	}
	return toPage(rows, total, page, (*models.CustomerModel).ToDomain), nil
}

// Create inserts a customer and assigns its ID
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	customer.ID = model.ID
	return nil
}

// Update saves an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	return updateByID(ctx, r.db, &models.CustomerModel{}, "customer", customer.ID, map[string]any{
		"first_name": customer.FirstName,
		"last_name":  customer.LastName,
		"email":      customer.Email,
		"updated_at": customer.UpdatedAt,
	})
}

// Delete removes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &models.CustomerModel{}, "customer", id)
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
