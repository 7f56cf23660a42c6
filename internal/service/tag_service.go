package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
)

// TagService exposes tag CRUD.
type TagService interface {
	CreateTag(ctx context.Context, tag *model.Tag) (*model.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	ListTags(ctx context.Context, features *query.Features) ([]model.Tag, error)
	UpdateTag(ctx context.Context, id uuid.UUID, name, icon string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService builds a TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) CreateTag(ctx context.Context, tag *model.Tag) (*model.Tag, error) {
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id, "Blogs")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no tag found with that id")
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context, features *query.Features) ([]model.Tag, error) {
	return s.repo.FindMany(ctx, features)
}

// UpdateTag patches the mutable fields of a tag.
func (s *tagService) UpdateTag(ctx context.Context, id uuid.UUID, name, icon string) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no tag found with that id")
		}
		return nil, err
	}
	if name != "" {
		tag.Name = name
	}
	if icon != "" {
		tag.Icon = icon
	}
	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("no document found with that id")
		}
		return err
	}
	return nil
}
