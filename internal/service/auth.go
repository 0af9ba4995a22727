// Package service provides the business logic for accounts and shelves,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CreateUser stores a new user. A duplicate email yields common.ErrAlreadyExists.
	CreateUser(ctx context.Context, u *models.User) error
	// UserByEmail loads a user including the password hash.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID loads a user without the password hash.
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService implements registration, login and token resolution.
type AuthService struct {
	repo       AuthRepository
	tokens     Tokens
	bcryptCost int
}

// NewAuthService constructs an AuthService. A zero cost means bcrypt.DefaultCost.
func NewAuthService(repo AuthRepository, tokens Tokens, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: cost}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it with a fresh token.
// An email that is already taken yields common.ErrUserExists and no record
// is written.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, common.NewValidationError("Please include all fields")
	}

	_, err := s.repo.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrUserExists
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.issue(u)
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Please include all fields")
	}

	u, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(u)
}

// ResolveToken verifies a bearer token and loads its user.
// It returns common.ErrInvalidToken for a bad token and common.ErrNotFound
// when the user no longer exists.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.repo.UserByID(ctx, userID)
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = nil
	return &AuthResult{User: u, Token: token}, nil
}
