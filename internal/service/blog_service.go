package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
	"github.com/isengartz/SinExpressBlogApi/internal/cache"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
)

const blogCacheTTL = 5 * time.Minute

// ErrUnknownTag is returned when a blog submission names a tag id that does
// not exist.
var ErrUnknownTag = apperrors.Validation("one or more tags dont exist")

// BlogService exposes blog operations.
type BlogService interface {
	CreateBlog(ctx context.Context, blog *model.Blog, tagIDs []uuid.UUID) (*model.Blog, error)
	GetBlog(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	ListBlogs(ctx context.Context, features *query.Features) ([]model.Blog, error)
}

type blogService struct {
	repo    repository.BlogRepository
	tagRepo repository.TagRepository
	cache   *cache.Client
}

// NewBlogService builds a BlogService with repositories and cache.
func NewBlogService(repo repository.BlogRepository, tagRepo repository.TagRepository, cache *cache.Client) BlogService {
	return &blogService{repo: repo, tagRepo: tagRepo, cache: cache}
}

func (s *blogService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("blog:%s", id)
}

// CreateBlog persists a blog after resolving its tag ids to existing tags,
// so the association write can never invent tag rows.
func (s *blogService) CreateBlog(ctx context.Context, blog *model.Blog, tagIDs []uuid.UUID) (*model.Blog, error) {
	if len(tagIDs) > 0 {
		tags, err := s.tagRepo.FindByIDs(ctx, tagIDs)
		if err != nil {
			return nil, err
		}
		// duplicate ids in the request also fail the count check
		if len(tags) != len(tagIDs) {
			return nil, ErrUnknownTag
		}
		blog.Tags = tags
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, s.cacheKey(blog.ID))
	return blog, nil
}

func (s *blogService) GetBlog(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var cached model.Blog
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	blog, err := s.repo.FindByID(ctx, id, "Tags")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no blog found with that id")
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), blog, blogCacheTTL)
	return blog, nil
}

func (s *blogService) ListBlogs(ctx context.Context, features *query.Features) ([]model.Blog, error) {
	return s.repo.FindMany(ctx, features)
}
