package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var authorFields = fieldSet{
	table: "authors",
	columns: map[shared.Field]column{
		catalog.AuthorFirstName: ownColumn("authors", "first_name"),
		catalog.AuthorLastName:  ownColumn("authors", "last_name"),
	},
	has: map[shared.Field]relation{
		catalog.AuthorBooks: *link("books", "author_id", "authors", "id"),
	},
}

// GormAuthorRepository implements AuthorRepository using GORM
type GormAuthorRepository struct {
	db *gorm.DB
}

// NewGormAuthorRepository creates a new GormAuthorRepository
func NewGormAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

// FindByID finds an author by its ID
func (r *GormAuthorRepository) FindByID(ctx context.Context, id int64) (*catalog.Author, error) {
	var model models.AuthorModel
	if err := findByID(r.db.WithContext(ctx), &model, "author", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByID checks whether an author exists
func (r *GormAuthorRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AuthorModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountBooks counts the books of an author
func (r *GormAuthorRepository) CountBooks(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BookModel{}).
		Where("author_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns one page of authors ordered by first name
func (r *GormAuthorRepository) List(ctx context.Context, filter catalog.AuthorFilter, page shared.PageRequest) (*shared.Page[catalog.Author], error) {
	rows, total, err := findPage[models.AuthorModel](ctx, r.db, listQuery{
		fields:  authorFields,
		spec:    filter.Spec(),
		page:    page,
		orderBy: orderBy("authors", "first_name", "id"),
	})
	if err != nil {
		return nil, err
	}
	return toPage(rows, total, page, (*models.AuthorModel).ToDomain), nil
}

// Create inserts an author and assigns its ID
func (r *GormAuthorRepository) Create(ctx context.Context, author *catalog.Author) error {
	model := models.AuthorModelFromDomain(author)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	author.ID = model.ID
	return nil
}

// Update saves the name of an existing author
func (r *GormAuthorRepository) Update(ctx context.Context, author *catalog.Author) error {
	return updateByID(ctx, r.db, &models.AuthorModel{}, "author", author.ID, map[string]any{
		"first_name": author.FirstName,
		"last_name":  author.LastName,
		"updated_at": author.UpdatedAt,
	})
}

// Delete removes an author by ID
func (r *GormAuthorRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &models.AuthorModel{}, "author", id)
}

// Ensure GormAuthorRepository implements AuthorRepository
var _ catalog.AuthorRepository = (*GormAuthorRepository)(nil)
