package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
)

// TagQueryColumns maps exposed tag fields to storage columns.
var TagQueryColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"icon":      "icon",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, expand ...string) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error)
	FindMany(ctx context.Context, features *query.Features, excluded ...string) ([]model.Tag, error)
}

type tagRepository struct {
	Collection[model.Tag]
}

// NewTagRepository builds a GORM-backed repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{Collection: NewCollection[model.Tag](db)}
}

// FindByIDs loads the tags matching ids. Missing ids are simply absent from
// the result; callers compare lengths when existence matters.
func (r *tagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
