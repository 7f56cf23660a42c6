package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/query"
)

// Collection is a generic GORM-backed store over a single model. Per-entity
// repositories embed it and add their own lookups; uniqueness and required
// columns are enforced by the database schema.
type Collection[T any] struct {
	db *gorm.DB
}

// NewCollection builds a collection over db.
func NewCollection[T any](db *gorm.DB) Collection[T] {
	return Collection[T]{db: db}
}

// Create inserts a new record.
func (c Collection[T]) Create(ctx context.Context, entity *T) error {
	return c.db.WithContext(ctx).Create(entity).Error
}

// FindByID fetches one record, expanding the named associations. Expansion
// is an explicit parameter rather than model-level magic.
func (c Collection[T]) FindByID(ctx context.Context, id uuid.UUID, expand ...string) (*T, error) {
	db := c.db.WithContext(ctx)
	for _, assoc := range expand {
		db = db.Preload(assoc)
	}
	var entity T
	if err := db.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindMany lists records shaped by the given features. A nil features lists
// the whole collection.
func (c Collection[T]) FindMany(ctx context.Context, features *query.Features, excluded ...string) ([]T, error) {
	db := c.db.WithContext(ctx).Model(new(T))
	if features != nil {
		var err error
		db, err = features.Apply(db, excluded...)
		if err != nil {
			return nil, err
		}
	}
	var entities []T
	if err := db.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Update persists all fields of an existing record.
func (c Collection[T]) Update(ctx context.Context, entity *T) error {
	return c.db.WithContext(ctx).Save(entity).Error
}

// Delete removes a record by id. Missing records report
// gorm.ErrRecordNotFound so callers can render 404.
func (c Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
