package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
)

var (
	ErrIngredientNotFound      = errors.New("ingredient not found")
	ErrDuplicateIngredientName = errors.New("ingredient name already in use")
)

// IngredientRepository handles ingredient persistence operations.
type IngredientRepository struct {
	db *sql.DB
}

// NewIngredientRepository creates a new IngredientRepository.
func NewIngredientRepository(db *sql.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// ListByUser retrieves the user's ingredients ordered by name descending,
// optionally restricted to ingredients assigned to at least one recipe.
func (r *IngredientRepository) ListByUser(ctx context.Context, userID int64, assignedOnly bool) ([]model.Ingredient, error) {
	query := `SELECT id, user_id, name FROM ingredients WHERE user_id = ? ORDER BY name DESC`
	if assignedOnly {
		query = `SELECT DISTINCT i.id, i.user_id, i.name FROM ingredients i
			JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
			WHERE i.user_id = ? ORDER BY i.name DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, rows.Err()
}

// GetOrCreate returns the user's ingredient with the given name, creating it
// first if absent. Same single-row guarantee as TagRepository.GetOrCreate.
func (r *IngredientRepository) GetOrCreate(ctx context.Context, userID int64, name string) (model.Ingredient, error) {
	query := `INSERT INTO ingredients (user_id, name) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := r.db.ExecContext(ctx, query, userID, name)
	if err != nil {
		return model.Ingredient{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Ingredient{}, err
	}

	return model.Ingredient{ID: id, UserID: userID, Name: name}, nil
}

// Rename updates an ingredient's name, scoped to the owning user.
func (r *IngredientRepository) Rename(ctx context.Context, userID, ingredientID int64, name string) (model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM ingredients WHERE id = ? AND user_id = ?`,
		ingredientID, userID,
	).Scan(&ing.ID, &ing.UserID, &ing.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ingredient{}, ErrIngredientNotFound
		}
		return model.Ingredient{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE ingredients SET name = ? WHERE id = ? AND user_id = ?`,
		name, ingredientID, userID,
	); err != nil {
		if isDuplicateEntryError(err) {
			return model.Ingredient{}, ErrDuplicateIngredientName
		}
		return model.Ingredient{}, err
	}

	ing.Name = name
	return ing, nil
}

// Delete removes an ingredient, scoped to the owning user.
func (r *IngredientRepository) Delete(ctx context.Context, userID, ingredientID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = ? AND user_id = ?`, ingredientID, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIngredientNotFound
	}

	return nil
}
