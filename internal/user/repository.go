package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id int) (*User, error) {
	const query = `
		SELECT user_id, email, password_hash, first_name, last_name, is_active, created_at
		FROM public.users
		WHERE user_id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT user_id, email, password_hash, first_name, last_name, is_active, created_at
		FROM public.users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *pgxRepository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}

	u.Roles, err = r.rolesFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *pgxRepository) rolesFor(ctx context.Context, userID int) ([]identity.Role, error) {
	const query = `
		SELECT role
		FROM public.user_roles
		WHERE user_id = $1
		ORDER BY role
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles failed: %w", err)
	}
	defer rows.Close()

	var roles []identity.Role
	for rows.Next() {
		var role identity.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan user role failed: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}
