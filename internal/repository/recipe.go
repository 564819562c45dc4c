package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/recipebox/recipebox-go/internal/model"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `r.id, r.user_id, r.title, r.description, r.time_minutes, r.price, r.link,
	COALESCE(r.image_path, ''), r.created_at, r.updated_at`

// RecipeRepository handles recipe persistence operations, including the
// recipe_tags and recipe_ingredients association tables.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List retrieves the user's recipes ordered by ID descending. Non-empty
// tagIDs/ingredientIDs restrict the result to recipes carrying at least one
// of the given IDs; DISTINCT keeps a recipe with several matching tags from
// appearing twice.
func (r *RecipeRepository) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT DISTINCT ` + recipeColumns + ` FROM recipes r`)

	args := []any{}
	if len(tagIDs) > 0 {
		sb.WriteString(` JOIN recipe_tags rt ON rt.recipe_id = r.id`)
	}
	if len(ingredientIDs) > 0 {
		sb.WriteString(` JOIN recipe_ingredients ri ON ri.recipe_id = r.id`)
	}

	sb.WriteString(` WHERE r.user_id = ?`)
	args = append(args, userID)

	if len(tagIDs) > 0 {
		sb.WriteString(` AND rt.tag_id IN (` + placeholders(len(tagIDs)) + `)`)
		for _, id := range tagIDs {
			args = append(args, id)
		}
	}
	if len(ingredientIDs) > 0 {
		sb.WriteString(` AND ri.ingredient_id IN (` + placeholders(len(ingredientIDs)) + `)`)
		for _, id := range ingredientIDs {
			args = append(args, id)
		}
	}

	sb.WriteString(` ORDER BY r.id DESC`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssociations(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// GetByID retrieves a single recipe with its tags and ingredients, scoped to
// the owning user.
func (r *RecipeRepository) GetByID(ctx context.Context, userID, recipeID int64) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = ? AND r.user_id = ?`

	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, recipeID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	recipes := []model.Recipe{rec}
	if err := r.loadAssociations(ctx, recipes); err != nil {
		return nil, err
	}

	return &recipes[0], nil
}

// Create inserts a recipe and its association rows in one transaction. Tag
// and ingredient IDs must already be resolved.
func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (user_id, title, description, time_minutes, price, link) VALUES (?, ?, ?, ?, ?, ?)`,
		recipe.UserID, recipe.Title, recipe.Description, recipe.TimeMinutes, recipe.Price, recipe.Link,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	recipe.ID = id

	if err := replaceAssociations(ctx, tx, "recipe_tags", "tag_id", id, tagIDs(recipe.Tags)); err != nil {
		return err
	}
	if err := replaceAssociations(ctx, tx, "recipe_ingredients", "ingredient_id", id, ingredientIDs(recipe.Ingredients)); err != nil {
		return err
	}

	return tx.Commit()
}

// Update persists a recipe's scalar fields and, when the set* flags are set,
// replaces its tag/ingredient association sets with the ones on the struct.
func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe, setTags, setIngredients bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE recipes SET title = ?, description = ?, time_minutes = ?, price = ?, link = ?
			WHERE id = ? AND user_id = ?`,
		recipe.Title, recipe.Description, recipe.TimeMinutes, recipe.Price, recipe.Link,
		recipe.ID, recipe.UserID,
	); err != nil {
		return err
	}

	if setTags {
		if err := replaceAssociations(ctx, tx, "recipe_tags", "tag_id", recipe.ID, tagIDs(recipe.Tags)); err != nil {
			return err
		}
	}
	if setIngredients {
		if err := replaceAssociations(ctx, tx, "recipe_ingredients", "ingredient_id", recipe.ID, ingredientIDs(recipe.Ingredients)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a recipe, scoped to the owning user, and returns the stored
// image path so the caller can remove the file. Association rows go away via
// foreign key cascade.
func (r *RecipeRepository) Delete(ctx context.Context, userID, recipeID int64) (string, error) {
	var imagePath string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(image_path, '') FROM recipes WHERE id = ? AND user_id = ?`,
		recipeID, userID,
	).Scan(&imagePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID); err != nil {
		return "", err
	}

	return imagePath, nil
}

// SetImage stores a new image path on a recipe and returns the previous one.
func (r *RecipeRepository) SetImage(ctx context.Context, userID, recipeID int64, path string) (string, error) {
	var oldPath string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(image_path, '') FROM recipes WHERE id = ? AND user_id = ?`,
		recipeID, userID,
	).Scan(&oldPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET image_path = ? WHERE id = ? AND user_id = ?`,
		path, recipeID, userID); err != nil {
		return "", err
	}

	return oldPath, nil
}

// loadAssociations fills Tags and Ingredients on the given recipes with two
// batched queries.
func (r *RecipeRepository) loadAssociations(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	index := make(map[int64]*model.Recipe, len(recipes))
	args := make([]any, len(recipes))
	for i := range recipes {
		recipes[i].Tags = []model.Tag{}
		recipes[i].Ingredients = []model.Ingredient{}
		index[recipes[i].ID] = &recipes[i]
		args[i] = recipes[i].ID
	}
	in := placeholders(len(recipes))

	tagQuery := `SELECT rt.recipe_id, t.id, t.user_id, t.name FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id IN (` + in + `) ORDER BY t.name`

	rows, err := r.db.QueryContext(ctx, tagQuery, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID int64
		var t model.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			rows.Close()
			return err
		}
		if rec, ok := index[recipeID]; ok {
			rec.Tags = append(rec.Tags, t)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	ingQuery := `SELECT ri.recipe_id, i.id, i.user_id, i.name FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id WHERE ri.recipe_id IN (` + in + `) ORDER BY i.name`

	rows, err = r.db.QueryContext(ctx, ingQuery, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var ing model.Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name); err != nil {
			return err
		}
		if rec, ok := index[recipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}

	return rows.Err()
}

// replaceAssociations rewrites the association rows for one recipe inside the
// given transaction.
func replaceAssociations(ctx context.Context, tx *sql.Tx, table, column string, recipeID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE recipe_id = ?`, recipeID); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (recipe_id, `+column+`) VALUES (?, ?)`, recipeID, id); err != nil {
			return err
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (model.Recipe, error) {
	var rec model.Recipe
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.TimeMinutes,
		&rec.Price, &rec.Link, &rec.ImagePath, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func tagIDs(tags []model.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func ingredientIDs(ingredients []model.Ingredient) []int64 {
	ids := make([]int64, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
	}
	return ids
}
