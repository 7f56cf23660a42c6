package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
)

// BlogQueryColumns maps exposed blog fields to storage columns.
var BlogQueryColumns = map[string]string{
	"id":               "id",
	"title":            "title",
	"shortDescription": "short_description",
	"description":      "description",
	"featuredImage":    "featured_image",
	"sorting":          "sorting",
	"user":             "user_id",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

// BlogRepository defines blog persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, expand ...string) (*model.Blog, error)
	FindMany(ctx context.Context, features *query.Features, excluded ...string) ([]model.Blog, error)
}

type blogRepository struct {
	Collection[model.Blog]
}

// NewBlogRepository builds a GORM-backed repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{Collection: NewCollection[model.Blog](db)}
}
