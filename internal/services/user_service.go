package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/snaplink/snaplink/internal/auth"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/repository"
)

// AuthResult carries the token issued after registration or login.
type AuthResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *models.User
}

// UserService defines the interface for account management.
type UserService interface {
	// Register creates an account and signs the new user in.
	Register(ctx context.Context, create *models.UserCreate) (*AuthResult, error)

	// Login verifies credentials and issues a token. The identifier may be
	// a username or an email address. Unknown accounts and wrong passwords
	// are indistinguishable to the caller.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)

	// GetProfile returns the account for an authenticated user ID.
	GetProfile(ctx context.Context, userID int64) (*models.User, error)

	// DeleteAccount removes the account, its URLs, and their clicks.
	DeleteAccount(ctx context.Context, userID int64) error
}

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService instance.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager) *UserServiceImpl {
	return &UserServiceImpl{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account and signs the new user in.
func (s *UserServiceImpl) Register(ctx context.Context, create *models.UserCreate) (*AuthResult, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(create.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, create, hash)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *UserServiceImpl) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}

	return s.issue(user)
}

// lookup resolves a login identifier. Usernames never contain @, so its
// presence selects the email path.
func (s *UserServiceImpl) lookup(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.repo.GetByEmail(ctx, identifier)
	}
	return s.repo.GetByUsername(ctx, identifier)
}

// GetProfile returns the account for an authenticated user ID.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// DeleteAccount removes the account and everything it owns.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

func (s *UserServiceImpl) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: s.tokens.TTL(),
		User:      user,
	}, nil
}
