package service

import (
	"context"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrTagNotFound  = errors.New("tag not found")
)

// TagStore is the persistence interface the tag service depends on,
// implemented by repository.TagRepository.
type TagStore interface {
	ListByUser(ctx context.Context, userID int64, assignedOnly bool) ([]model.Tag, error)
	GetOrCreate(ctx context.Context, userID int64, name string) (model.Tag, error)
	Rename(ctx context.Context, userID, tagID int64, name string) (model.Tag, error)
	Delete(ctx context.Context, userID, tagID int64) error
}

// TagService handles tag business logic. Tags have no standalone create
// operation; they come into existence through recipe writes.
type TagService struct {
	store TagStore
}

// NewTagService creates a new TagService.
func NewTagService(store TagStore) *TagService {
	return &TagService{store: store}
}

// List returns the user's tags, name-descending, optionally restricted to
// tags assigned to at least one recipe.
func (s *TagService) List(ctx context.Context, userID int64, assignedOnly bool) ([]model.TagResponse, error) {
	tags, err := s.store.ListByUser(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}

	result := make([]model.TagResponse, len(tags))
	for i, t := range tags {
		result[i] = model.TagToResponse(t)
	}
	return result, nil
}

// Rename changes a tag's name within the user's records.
func (s *TagService) Rename(ctx context.Context, userID, tagID int64, name string) (model.TagResponse, error) {
	if name == "" {
		return model.TagResponse{}, ErrNameRequired
	}

	tag, err := s.store.Rename(ctx, userID, tagID, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTagNotFound):
			return model.TagResponse{}, ErrTagNotFound
		case errors.Is(err, repository.ErrDuplicateTagName):
			return model.TagResponse{}, ErrDuplicateName
		}
		return model.TagResponse{}, err
	}

	return model.TagToResponse(tag), nil
}

// Delete removes a tag from the user's records.
func (s *TagService) Delete(ctx context.Context, userID, tagID int64) error {
	err := s.store.Delete(ctx, userID, tagID)
	if errors.Is(err, repository.ErrTagNotFound) {
		return ErrTagNotFound
	}
	return err
}
