package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var bookAuthor = link("authors", "id", "books", "author_id")

var bookFields = fieldSet{
	table: "books",
	columns: map[shared.Field]column{
		catalog.BookTitle:           ownColumn("books", "title"),
		catalog.BookAuthorID:        ownColumn("books", "author_id"),
		catalog.BookPrice:           ownColumn("books", "price"),
		catalog.BookStock:           ownColumn("books", "stock"),
		catalog.BookAuthorFirstName: relatedColumn(bookAuthor, "first_name"),
		catalog.BookAuthorLastName:  relatedColumn(bookAuthor, "last_name"),
	},
}

// GormBookRepository implements BookRepository using GORM
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository creates a new GormBookRepository
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func preloadBookRelations(expand catalog.BookExpand) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if expand.Author {
			query = query.Preload("Author")
		}
		return query
	}
}

// FindByID finds a book by its ID
func (r *GormBookRepository) FindByID(ctx context.Context, id int64, expand catalog.BookExpand) (*catalog.Book, error) {
	var model models.BookModel
	query := preloadBookRelations(expand)(r.db.WithContext(ctx))
	if err := findByID(query, &model, "book", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a book and holds a row lock on it until the transaction ends.
// Dialects without row locks ignore the locking clause.
func (r *GormBookRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Book, error) {
	var model models.BookModel
	query := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	if err := findByID(query, &model, "book", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of books ordered by ID
func (r *GormBookRepository) List(ctx context.Context, filter catalog.BookFilter, page shared.PageRequest, expand catalog.BookExpand) (*shared.Page[catalog.Book], error) {
	rows, total, err := findPage[models.BookModel](ctx, r.db, listQuery{
		fields:  bookFields,
		spec:    filter.Spec(),
		page:    page,
		orderBy: orderBy("books", "id"),
		preload: preloadBookRelations(expand),
	})
	if err != nil {
		return nil, err
	}
	return toPage(rows, total, page, (*models.BookModel).ToDomain), nil
}

// Create inserts a book and assigns its ID
func (r *GormBookRepository) Create(ctx context.Context, book *catalog.Book) error {
	model := models.BookModelFromDomain(book)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	book.ID = model.ID
	return nil
}

// Update saves every mutable column of an existing book
func (r *GormBookRepository) Update(ctx context.Context, book *catalog.Book) error {
	return updateByID(ctx, r.db, &models.BookModel{}, "book", book.ID, map[string]any{
		"title":            book.Title,
		"publication_year": book.PublicationYear,
		"description":      book.Description,
		"price":            book.Price,
		"stock":            book.Stock,
		"author_id":        book.AuthorID,
		"updated_at":       book.UpdatedAt,
	})
}

// Delete removes a book by ID
func (r *GormBookRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &models.BookModel{}, "book", id)
}

// DecreaseStock subtracts qty in a single guarded statement.
// No row matches when the book is gone or holds fewer than qty units.
func (r *GormBookRepository) DecreaseStock(ctx context.Context, id int64, qty int) error {
	result := r.db.WithContext(ctx).Model(&models.BookModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock.WithMessagef("insufficient stock for book %d: requested %d", id, qty)
	}
	return nil
}

// IncreaseStock adds qty units back to a book
func (r *GormBookRepository) IncreaseStock(ctx context.Context, id int64, qty int) error {
	result := r.db.WithContext(ctx).Model(&models.BookModel{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessagef("book %d not found", id)
	}
	return nil
}

// Ensure GormBookRepository implements BookRepository
var _ catalog.BookRepository = (*GormBookRepository)(nil)
