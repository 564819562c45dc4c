package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrDuplicateTagName = errors.New("tag name already in use")
)

// TagRepository handles tag persistence operations.
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// ListByUser retrieves the user's tags ordered by name descending. When
// assignedOnly is set, only tags referenced by at least one of the user's
// recipes are returned, de-duplicated.
func (r *TagRepository) ListByUser(ctx context.Context, userID int64, assignedOnly bool) ([]model.Tag, error) {
	query := `SELECT id, user_id, name FROM tags WHERE user_id = ? ORDER BY name DESC`
	if assignedOnly {
		query = `SELECT DISTINCT t.id, t.user_id, t.name FROM tags t
			JOIN recipe_tags rt ON rt.tag_id = t.id
			WHERE t.user_id = ? ORDER BY t.name DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// GetOrCreate returns the user's tag with the given name, creating it first
// if absent. The name column carries a binary collation and a UNIQUE
// (user_id, name) key, so the match is exact and case-sensitive and two
// concurrent calls for the same name resolve to a single row.
func (r *TagRepository) GetOrCreate(ctx context.Context, userID int64, name string) (model.Tag, error) {
	query := `INSERT INTO tags (user_id, name) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := r.db.ExecContext(ctx, query, userID, name)
	if err != nil {
		return model.Tag{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}

	return model.Tag{ID: id, UserID: userID, Name: name}, nil
}

// Rename updates a tag's name, scoped to the owning user.
func (r *TagRepository) Rename(ctx context.Context, userID, tagID int64, name string) (model.Tag, error) {
	// Probe first: UPDATE alone reports zero affected rows both for a missing
	// tag and for a no-op rename.
	var t model.Tag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID,
	).Scan(&t.ID, &t.UserID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tag{}, ErrTagNotFound
		}
		return model.Tag{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`,
		name, tagID, userID,
	); err != nil {
		if isDuplicateEntryError(err) {
			return model.Tag{}, ErrDuplicateTagName
		}
		return model.Tag{}, err
	}

	t.Name = name
	return t, nil
}

// Delete removes a tag, scoped to the owning user. Recipe associations are
// removed by the recipe_tags foreign key cascade.
func (r *TagRepository) Delete(ctx context.Context, userID, tagID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`, tagID, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTagNotFound
	}

	return nil
}
