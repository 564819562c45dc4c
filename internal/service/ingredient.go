package service

import (
	"context"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrDuplicateName      = errors.New("name already in use")
)

// IngredientStore is the persistence interface the ingredient service depends
// on, implemented by repository.IngredientRepository.
type IngredientStore interface {
	ListByUser(ctx context.Context, userID int64, assignedOnly bool) ([]model.Ingredient, error)
	GetOrCreate(ctx context.Context, userID int64, name string) (model.Ingredient, error)
	Rename(ctx context.Context, userID, ingredientID int64, name string) (model.Ingredient, error)
	Delete(ctx context.Context, userID, ingredientID int64) error
}

// IngredientService handles ingredient business logic. Like tags, ingredients
// are only created through recipe writes.
type IngredientService struct {
	store IngredientStore
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(store IngredientStore) *IngredientService {
	return &IngredientService{store: store}
}

// List returns the user's ingredients, name-descending, optionally restricted
// to ingredients assigned to at least one recipe.
func (s *IngredientService) List(ctx context.Context, userID int64, assignedOnly bool) ([]model.IngredientResponse, error) {
	ingredients, err := s.store.ListByUser(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}

	result := make([]model.IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		result[i] = model.IngredientToResponse(ing)
	}
	return result, nil
}

// Rename changes an ingredient's name within the user's records.
func (s *IngredientService) Rename(ctx context.Context, userID, ingredientID int64, name string) (model.IngredientResponse, error) {
	if name == "" {
		return model.IngredientResponse{}, ErrNameRequired
	}

	ing, err := s.store.Rename(ctx, userID, ingredientID, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrIngredientNotFound):
			return model.IngredientResponse{}, ErrIngredientNotFound
		case errors.Is(err, repository.ErrDuplicateIngredientName):
			return model.IngredientResponse{}, ErrDuplicateName
		}
		return model.IngredientResponse{}, err
	}

	return model.IngredientToResponse(ing), nil
}

// Delete removes an ingredient from the user's records.
func (s *IngredientService) Delete(ctx context.Context, userID, ingredientID int64) error {
	err := s.store.Delete(ctx, userID, ingredientID)
	if errors.Is(err, repository.ErrIngredientNotFound) {
		return ErrIngredientNotFound
	}
	return err
}
