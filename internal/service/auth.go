package service

import (
	"context"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/recipebox/recipebox-go/internal/crypto"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is not a valid address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 5

// UserStore is the persistence interface the auth service depends on,
// implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// AuthService handles registration, token issuance, and profile management.
type AuthService struct {
	store     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new active user. The password is stored only as a salted
// hash and never echoed back.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (model.UserResponse, error) {
	email, err := validateEmail(req.Email)
	if err != nil {
		return model.UserResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.createUser(ctx, email, req.Password, req.Name, false)
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{Email: user.Email, Name: user.Name}, nil
}

// CreateSuperuser creates a staff superuser account. Used by the CLI, not
// exposed over HTTP.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (model.UserResponse, error) {
	normalized, err := validateEmail(email)
	if err != nil {
		return model.UserResponse{}, err
	}
	if err := validatePassword(password); err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.createUser(ctx, normalized, password, "", true)
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{Email: user.Email, Name: user.Name}, nil
}

// IssueToken verifies the credentials and returns a bearer token. All failure
// modes collapse into ErrInvalidCredentials so the response never reveals
// whether the email exists.
func (s *AuthService) IssueToken(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	user, err := s.store.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match || !user.IsActive {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Token: token}, nil
}

// Profile returns the authenticated user's own profile.
func (s *AuthService) Profile(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{Email: user.Email, Name: user.Name}, nil
}

// UpdateProfile applies a partial update to the authenticated user's profile.
// Nil fields are left untouched; a supplied password is re-hashed.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateUserRequest) (model.UserResponse, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	if req.Email != nil {
		email, err := validateEmail(*req.Email)
		if err != nil {
			return model.UserResponse{}, err
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return model.UserResponse{}, err
		}
		hash, err := crypto.HashPassword(*req.Password)
		if err != nil {
			return model.UserResponse{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.store.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{Email: user.Email, Name: user.Name}, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, name string, superuser bool) (*model.User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// validateEmail checks the address and returns it with the domain part
// lower-cased. The local part keeps its case.
func validateEmail(email string) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrEmailInvalid
	}

	return model.NormalizeEmail(email), nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
