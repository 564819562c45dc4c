package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recipebox/recipebox-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, name, password_hash, is_active, is_staff, is_superuser)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.PasswordHash,
		user.IsActive, user.IsStaff, user.IsSuperuser,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
		FROM users WHERE email = ?`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
		FROM users WHERE id = ?`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Update persists the mutable profile fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET email = ?, name = ?, password_hash = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, user.Email, user.Name, user.PasswordHash, user.ID)
	if err != nil && isDuplicateEntryError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.IsActive, &user.IsStaff, &user.IsSuperuser,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
