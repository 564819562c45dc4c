package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTimeMinutesInvalid = errors.New("time_minutes must be a non-negative integer")
	ErrPriceInvalid       = errors.New("price must be a non-negative decimal with at most 2 fractional digits")
	ErrInvalidImage       = errors.New("uploaded file is not a valid image")
)

// RecipeStore is the persistence interface the recipe service depends on,
// implemented by repository.RecipeRepository.
type RecipeStore interface {
	List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error)
	GetByID(ctx context.Context, userID, recipeID int64) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe, setTags, setIngredients bool) error
	Delete(ctx context.Context, userID, recipeID int64) (imagePath string, err error)
	SetImage(ctx context.Context, userID, recipeID int64, path string) (oldPath string, err error)
}

// ImageStore persists uploaded image files, implemented by storage.ImageStore.
type ImageStore interface {
	Save(r io.Reader, format string) (string, error)
	Remove(relPath string) error
}

// RecipeService handles recipe business logic, including implicit
// get-or-create of referenced tags and ingredients.
type RecipeService struct {
	recipes      RecipeStore
	tags         TagStore
	ingredients  IngredientStore
	images       ImageStore
	mediaBaseURL string
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes RecipeStore, tags TagStore, ingredients IngredientStore, images ImageStore, mediaBaseURL string) *RecipeService {
	return &RecipeService{
		recipes:      recipes,
		tags:         tags,
		ingredients:  ingredients,
		images:       images,
		mediaBaseURL: mediaBaseURL,
	}
}

// List returns the user's recipes in compact form, newest first, optionally
// filtered to recipes carrying at least one of the given tag/ingredient IDs.
func (s *RecipeService) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.RecipeResponse, error) {
	recipes, err := s.recipes.List(ctx, userID, tagIDs, ingredientIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.RecipeResponse, len(recipes))
	for i, rec := range recipes {
		result[i] = model.RecipeToResponse(rec, s.mediaBaseURL)
	}
	return result, nil
}

// Get returns a single recipe in full form, scoped to the owning user.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID int64) (model.RecipeDetailResponse, error) {
	rec, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return model.RecipeDetailResponse{}, ErrRecipeNotFound
		}
		return model.RecipeDetailResponse{}, err
	}

	return model.RecipeToDetailResponse(*rec, s.mediaBaseURL), nil
}

// Create persists a new recipe for the user. Ownership always comes from the
// authenticated userID, never the payload. Referenced tags and ingredients
// are reused when a row with the exact name exists, created otherwise.
func (s *RecipeService) Create(ctx context.Context, userID int64, req model.CreateRecipeRequest) (model.RecipeDetailResponse, error) {
	if req.Title == "" {
		return model.RecipeDetailResponse{}, ErrTitleRequired
	}
	if req.TimeMinutes < 0 {
		return model.RecipeDetailResponse{}, ErrTimeMinutesInvalid
	}
	price, err := normalizePrice(req.Price.String())
	if err != nil {
		return model.RecipeDetailResponse{}, err
	}

	tags, err := s.resolveTags(ctx, userID, req.Tags)
	if err != nil {
		return model.RecipeDetailResponse{}, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, req.Ingredients)
	if err != nil {
		return model.RecipeDetailResponse{}, err
	}

	rec := model.Recipe{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       price,
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	if err := s.recipes.Create(ctx, &rec); err != nil {
		return model.RecipeDetailResponse{}, err
	}

	return model.RecipeToDetailResponse(rec, s.mediaBaseURL), nil
}

// Update applies a partial update, scoped to the owning user. Fields absent
// from the payload are untouched; a present tags/ingredients list replaces
// the whole association set, with an empty list clearing it.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID int64, req model.UpdateRecipeRequest) (model.RecipeDetailResponse, error) {
	rec, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return model.RecipeDetailResponse{}, ErrRecipeNotFound
		}
		return model.RecipeDetailResponse{}, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return model.RecipeDetailResponse{}, ErrTitleRequired
		}
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.TimeMinutes != nil {
		if *req.TimeMinutes < 0 {
			return model.RecipeDetailResponse{}, ErrTimeMinutesInvalid
		}
		rec.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		price, err := normalizePrice(req.Price.String())
		if err != nil {
			return model.RecipeDetailResponse{}, err
		}
		rec.Price = price
	}
	if req.Link != nil {
		rec.Link = *req.Link
	}

	setTags := req.Tags != nil
	if setTags {
		tags, err := s.resolveTags(ctx, userID, *req.Tags)
		if err != nil {
			return model.RecipeDetailResponse{}, err
		}
		rec.Tags = tags
	}
	setIngredients := req.Ingredients != nil
	if setIngredients {
		ingredients, err := s.resolveIngredients(ctx, userID, *req.Ingredients)
		if err != nil {
			return model.RecipeDetailResponse{}, err
		}
		rec.Ingredients = ingredients
	}

	if err := s.recipes.Update(ctx, rec, setTags, setIngredients); err != nil {
		return model.RecipeDetailResponse{}, err
	}

	return model.RecipeToDetailResponse(*rec, s.mediaBaseURL), nil
}

// Delete removes the recipe and its image file, scoped to the owning user.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	imagePath, err := s.recipes.Delete(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	if err := s.images.Remove(imagePath); err != nil {
		// The row is gone; an orphaned file is not worth failing the request.
		slog.Warn("removing recipe image failed", "path", imagePath, "error", err)
	}

	return nil
}

// UploadImage validates and stores a new image for the recipe, replacing any
// previous file. The storage key is a fresh random identifier; the client
// filename is ignored.
func (s *RecipeService) UploadImage(ctx context.Context, userID, recipeID int64, file io.Reader) (model.RecipeImageResponse, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return model.RecipeImageResponse{}, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return model.RecipeImageResponse{}, ErrInvalidImage
	}

	path, err := s.images.Save(bytes.NewReader(data), format)
	if err != nil {
		return model.RecipeImageResponse{}, err
	}

	oldPath, err := s.recipes.SetImage(ctx, userID, recipeID, path)
	if err != nil {
		// The recipe lookup failed after the file was written; clean it up.
		if rmErr := s.images.Remove(path); rmErr != nil {
			slog.Warn("removing orphaned upload failed", "path", path, "error", rmErr)
		}
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return model.RecipeImageResponse{}, ErrRecipeNotFound
		}
		return model.RecipeImageResponse{}, err
	}

	if oldPath != "" && oldPath != path {
		if err := s.images.Remove(oldPath); err != nil {
			slog.Warn("removing replaced recipe image failed", "path", oldPath, "error", err)
		}
	}

	return model.RecipeImageResponse{
		ID:    recipeID,
		Image: model.ImageURL(path, s.mediaBaseURL),
	}, nil
}

// resolveTags maps payload name references to owned tag rows, reusing
// existing rows on an exact name match and deduplicating repeats within the
// request.
func (s *RecipeService) resolveTags(ctx context.Context, userID int64, refs []model.NamedRef) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		if ref.Name == "" {
			return nil, ErrNameRequired
		}
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		tag, err := s.tags.GetOrCreate(ctx, userID, ref.Name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, userID int64, refs []model.NamedRef) ([]model.Ingredient, error) {
	ingredients := make([]model.Ingredient, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		if ref.Name == "" {
			return nil, ErrNameRequired
		}
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		ing, err := s.ingredients.GetOrCreate(ctx, userID, ref.Name)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, nil
}

// normalizePrice validates a decimal price string and normalizes it to two
// fractional digits: at most 5 significant digits, 2 of them fractional,
// non-negative. "10" becomes "10.00".
func normalizePrice(s string) (string, error) {
	if s == "" {
		return "", ErrPriceInvalid
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return "", ErrPriceInvalid
	}
	if len(fracPart) > 2 {
		return "", ErrPriceInvalid
	}

	trimmed := strings.TrimLeft(intPart, "0")
	if len(trimmed) > 3 {
		return "", ErrPriceInvalid
	}
	if trimmed == "" {
		trimmed = "0"
	}

	for len(fracPart) < 2 {
		fracPart += "0"
	}

	return trimmed + "." + fracPart, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
