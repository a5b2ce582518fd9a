package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/photonworks/facility-scheduler-backend/internal/auth"
	"github.com/photonworks/facility-scheduler-backend/internal/identity"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func TestLogin(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	stored := &User{
		ID:           5,
		Email:        "scientist@facility.example",
		PasswordHash: hash,
		Roles:        []identity.Role{identity.RoleInstrumentScientist},
		IsActive:     true,
	}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "scientist@facility.example").Return(stored, nil)

		svc := NewService(repo, hasher)
		u, err := svc.Login(context.Background(), " Scientist@Facility.example ", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, 5, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "scientist@facility.example").Return(stored, nil)

		svc := NewService(repo, hasher)
		_, err := svc.Login(context.Background(), "scientist@facility.example", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "nobody@facility.example").Return(nil, ErrNotFound)

		svc := NewService(repo, hasher)
		_, err := svc.Login(context.Background(), "nobody@facility.example", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := *stored
		inactive.IsActive = false
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "scientist@facility.example").Return(&inactive, nil)

		svc := NewService(repo, hasher)
		_, err := svc.Login(context.Background(), "scientist@facility.example", "correct-horse")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
