package model

import (
	"encoding/json"
	"time"
)

// Recipe represents a recipe in the database. Tags and Ingredients are the
// associated rows, loaded alongside the recipe; ImagePath is the storage key
// of the uploaded image relative to the media root, empty when unset.
type Recipe struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	TimeMinutes int
	Price       string
	Link        string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []Tag
	Ingredients []Ingredient
}

// CreateRecipeRequest represents a recipe creation payload. Price is decoded
// as json.Number so both "10.12" and 10.12 are accepted. Any user/owner field
// in the payload is not modelled and therefore never honoured.
type CreateRecipeRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TimeMinutes int         `json:"time_minutes"`
	Price       json.Number `json:"price"`
	Link        string      `json:"link"`
	Tags        []NamedRef  `json:"tags"`
	Ingredients []NamedRef  `json:"ingredients"`
}

// UpdateRecipeRequest represents a partial recipe update. Nil fields are left
// untouched. A non-nil Tags or Ingredients slice replaces the full association
// set; an empty slice clears it.
type UpdateRecipeRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	TimeMinutes *int         `json:"time_minutes"`
	Price       *json.Number `json:"price"`
	Link        *string      `json:"link"`
	Tags        *[]NamedRef  `json:"tags"`
	Ingredients *[]NamedRef  `json:"ingredients"`
}

// RecipeResponse is the compact recipe representation returned by list
// endpoints. Description is only present on the detail representation.
type RecipeResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       string               `json:"price"`
	Link        string               `json:"link"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
	Image       *string              `json:"image"`
}

// RecipeDetailResponse is the full recipe representation.
type RecipeDetailResponse struct {
	RecipeResponse
	Description string `json:"description"`
}

// RecipeImageResponse is returned by the image upload action.
type RecipeImageResponse struct {
	ID    int64   `json:"id"`
	Image *string `json:"image"`
}

// RecipeToResponse converts a Recipe to its compact representation.
// mediaBaseURL prefixes the stored image path to form the public URL.
func RecipeToResponse(r Recipe, mediaBaseURL string) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = TagToResponse(t)
	}
	ingredients := make([]IngredientResponse, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = IngredientToResponse(ing)
	}

	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
		Image:       ImageURL(r.ImagePath, mediaBaseURL),
	}
}

// RecipeToDetailResponse converts a Recipe to its full representation.
func RecipeToDetailResponse(r Recipe, mediaBaseURL string) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: RecipeToResponse(r, mediaBaseURL),
		Description:    r.Description,
	}
}

// ImageURL builds the public URL for a stored image path, nil when unset.
func ImageURL(path, mediaBaseURL string) *string {
	if path == "" {
		return nil
	}
	url := mediaBaseURL + "/" + path
	return &url
}
