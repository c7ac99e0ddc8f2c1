package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"speshway-platform/models"
	"speshway-platform/utils"
)

// generatedPasswordLength applies when no admin password is configured.
const generatedPasswordLength = 20

type UserAccounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AdminSeed describes the administrator created on first deploy.
type AdminSeed struct {
	Name       string
	Email      string
	Password   string
	BcryptCost int
}

// SeedResult reports what EnsureAdmin did. Password is only set when it was
// generated and has to be shown to the operator once.
type SeedResult struct {
	User     *models.User
	Created  bool
	Password string
}

// EnsureAdmin returns the user with the seed's email, creating an admin when
// none exists. Existing users are never modified.
func EnsureAdmin(ctx context.Context, users UserAccounts, seed AdminSeed) (*SeedResult, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "A valid admin email is required")
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return &SeedResult{User: existing}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	result := &SeedResult{Created: true}
	password := seed.Password
	if password == "" {
		if password, err = utils.GenerateSecureRandomString(generatedPasswordLength); err != nil {
			return nil, err
		}
		result.Password = password
	}

	hash, err := utils.HashPassword(password, seed.BcryptCost)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Administrator"
	}
	now := time.Now().UTC()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	result.User = user
	return result, nil
}
