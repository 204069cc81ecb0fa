package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"todolist-api/internal/models"
	"todolist-api/internal/repository"
	"todolist-api/internal/validation"
	"todolist-api/pkg/crypto"
)

// AuthService verifies credentials and issues access tokens.
type AuthService interface {
	// Authenticate returns ErrInvalidCredentials for an unknown email and
	// for a wrong password alike.
	Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error)
	// Register creates an account. A taken email returns
	// repository.ErrEmailTaken.
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	validate  *validator.Validate
	dummyHash string
	now       func() time.Time
}

// NewAuthService hashes a throwaway password once so that lookups of unknown
// emails still pay for a bcrypt comparison.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer) (AuthService, error) {
	dummy, err := crypto.HashPassword("todolist-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &authService{
		users:     users,
		tokens:    tokens,
		validate:  validation.New(),
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = crypto.CheckPassword(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{
		Token:     token,
		Email:     user.Email,
		FullName:  user.FullName,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	fields, err := validation.Struct(s.validate, reg)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := crypto.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Email:        reg.Email,
		PasswordHash: hash,
		FullName:     reg.FullName,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
