package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	// Registration and login failures share it so responses never reveal
	// which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a password fails the minimum length check.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrEmailExists is returned when registering an already-taken email.
	ErrEmailExists = errors.New("email already registered")
)

// Authenticator implements password-based registration and login with bcrypt.
type Authenticator struct {
	users repo.UserRepo
}

// NewAuthenticator creates an Authenticator backed by the provided user repo.
func NewAuthenticator(users repo.UserRepo) *Authenticator {
	return &Authenticator{users: users}
}

// Register creates a new account with a hashed password.
func (a *Authenticator) Register(ctx context.Context, email, displayName, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, ErrWeakPassword
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("auth.Authenticator.Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Authenticator.Register: hash: %w", err)
	}

	user, err := a.users.Create(ctx, domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Authenticator.Register: %w", err)
	}
	return user, nil
}

// Authenticate verifies email and password, returning the account if valid.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("auth.Authenticator.Authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
