package persistence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/partner"
	"gorm.io/gorm"
)

const rowCounterCallback = "bookstore:count_affected_rows"

// affectedRows maps an open transaction's connection pool to its unit's row counter
var affectedRows sync.Map

// GormUnitOfWorkFactory implements uow.Factory using GORM transactions
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory and registers the row counting callbacks on db
func NewGormUnitOfWorkFactory(db *gorm.DB) (*GormUnitOfWorkFactory, error) {
	if err := registerRowCounter(db); err != nil {
		return nil, fmt.Errorf("failed to register unit of work callbacks: %w", err)
	}
	return &GormUnitOfWorkFactory{db: db}, nil
}

func registerRowCounter(db *gorm.DB) error {
	cb := db.Callback()
	if cb.Create().Get(rowCounterCallback) == nil {
		if err := cb.Create().After("gorm:create").Register(rowCounterCallback, countAffectedRows); err != nil {
			return err
		}
	}
	if cb.Update().Get(rowCounterCallback) == nil {
		if err := cb.Update().After("gorm:update").Register(rowCounterCallback, countAffectedRows); err != nil {
			return err
		}
	}
	if cb.Delete().Get(rowCounterCallback) == nil {
		if err := cb.Delete().After("gorm:delete").Register(rowCounterCallback, countAffectedRows); err != nil {
			return err
		}
	}
	return nil
}

func countAffectedRows(db *gorm.DB) {
	if db.Error != nil || db.Statement == nil || db.Statement.ConnPool == nil {
		return
	}
	if counter, ok := affectedRows.Load(db.Statement.ConnPool); ok {
		counter.(*atomic.Int64).Add(db.RowsAffected)
	}
}

// Begin opens a transaction and returns a unit bound to it
func (f *GormUnitOfWorkFactory) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	tx := f.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	unit := &gormUnitOfWork{tx: tx, rows: new(atomic.Int64)}
	affectedRows.Store(tx.Statement.ConnPool, unit.rows)
	return unit, nil
}

// Execute runs fn in a new unit, committing on success and rolling back on error or panic
func (f *GormUnitOfWorkFactory) Execute(ctx context.Context, fn func(repos uow.Repositories) error) error {
	unit, err := f.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = unit.Rollback()
			panic(p)
		}
	}()

	if err := fn(unit); err != nil {
		if rbErr := unit.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	_, err = unit.Commit()
	return err
}

// gormUnitOfWork is one transaction plus the repositories built on it
type gormUnitOfWork struct {
	tx     *gorm.DB
	rows   *atomic.Int64
	closed bool

	authors      *GormAuthorRepository
	books        *GormBookRepository
	customers    *GormCustomerRepository
	invoices     *GormInvoiceRepository
	invoiceLines *GormInvoiceLineRepository
}

func (u *gormUnitOfWork) Authors() catalog.AuthorRepository {
	if u.authors == nil {
		u.authors = NewGormAuthorRepository(u.tx)
	}
	return u.authors
}

func (u *gormUnitOfWork) Books() catalog.BookRepository {
	if u.books == nil {
		u.books = NewGormBookRepository(u.tx)
	}
	return u.books
}

func (u *gormUnitOfWork) Customers() partner.CustomerRepository {
	if u.customers == nil {
		u.customers = NewGormCustomerRepository(u.tx)
	}
	return u.customers
}

func (u *gormUnitOfWork) Invoices() invoicing.InvoiceRepository {
	if u.invoices == nil {
		u.invoices = NewGormInvoiceRepository(u.tx)
	}
	return u.invoices
}

func (u *gormUnitOfWork) InvoiceLines() invoicing.InvoiceLineRepository {
	if u.invoiceLines == nil {
		u.invoiceLines = NewGormInvoiceLineRepository(u.tx)
	}
	return u.invoiceLines
}

// Commit commits the transaction and reports the rows affected by writes made through the unit
func (u *gormUnitOfWork) Commit() (int64, error) {
	if u.closed {
		return 0, uow.ErrClosed
	}
	u.close()
	if err := u.tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return u.rows.Load(), nil
}

// Rollback rolls the transaction back; after Commit or a previous Rollback it does nothing
func (u *gormUnitOfWork) Rollback() error {
	if u.closed {
		return nil
	}
	u.close()
	if err := u.tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *gormUnitOfWork) close() {
	u.closed = true
	affectedRows.Delete(u.tx.Statement.ConnPool)
}

// Ensure GormUnitOfWorkFactory implements uow.Factory
var _ uow.Factory = (*GormUnitOfWorkFactory)(nil)

// Ensure gormUnitOfWork implements uow.UnitOfWork
var _ uow.UnitOfWork = (*gormUnitOfWork)(nil)
