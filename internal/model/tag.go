package model

// Tag labels a recipe. Every tag belongs to exactly one user; names are
// unique per user and matched case-sensitively.
type Tag struct {
	ID     int64
	UserID int64
	Name   string
}

// Ingredient is a named recipe component, owned like a tag.
type Ingredient struct {
	ID     int64
	UserID int64
	Name   string
}

// NamedRef references a tag or ingredient by name in a recipe payload.
// Referenced rows are reused when the requester already owns a row with that
// exact name, created otherwise.
type NamedRef struct {
	Name string `json:"name"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IngredientResponse represents an ingredient in API responses.
type IngredientResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RenameRequest updates the name of a tag or ingredient.
type RenameRequest struct {
	Name string `json:"name"`
}

// TagToResponse converts a Tag to its API representation.
func TagToResponse(t Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

// IngredientToResponse converts an Ingredient to its API representation.
func IngredientToResponse(i Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name}
}
