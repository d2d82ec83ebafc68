package persistence

import (
	"context"
	"errors"

	"github.com/bookstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// deleteByID deletes one row of model's table.
// A foreign key violation means other rows still reference it.
func deleteByID(ctx context.Context, db *gorm.DB, model any, entity string, id int64) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return shared.ErrHasDependents.WithMessagef("%s %d is still referenced by other records", entity, id)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessagef("%s %d not found", entity, id)
	}
	return nil
}

// updateByID writes columns to one row of model's table
func updateByID(ctx context.Context, db *gorm.DB, model any, entity string, id int64, columns map[string]any) error {
	result := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessagef("%s %d not found", entity, id)
	}
	return nil
}

// findByID loads one row into dest, mapping a missing row to a not-found error
func findByID(query *gorm.DB, dest any, entity string, id int64) error {
	if err := query.First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound.WithMessagef("%s %d not found", entity, id)
		}
		return err
	}
	return nil
}
