package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/photonworks/facility-scheduler-backend/internal/auth"
)

// Service defines business logic related to users.
type Service interface {
	// Login verifies credentials and returns the matching active user.
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same answer as a bad password so probing emails learns nothing.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
