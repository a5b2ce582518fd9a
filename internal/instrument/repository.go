package instrument

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Instrument, error)
	List(ctx context.Context, filter Filter) ([]*Instrument, int, error)

	// HasScientist reports whether the given user is assigned to the
	// instrument as an instrument scientist.
	HasScientist(ctx context.Context, instrumentID, userID int) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id int) (*Instrument, error) {
	const query = `
		SELECT instrument_id, name, short_code, description, created_at
		FROM public.instruments
		WHERE instrument_id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var ins Instrument
	if err := row.Scan(&ins.ID, &ins.Name, &ins.ShortCode, &ins.Description, &ins.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get instrument failed: %w", err)
	}
	return &ins, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Instrument, int, error) {
	var args []interface{}
	queryBase := `
		SELECT instrument_id, name, short_code, description, created_at, count(*) OVER() as total_count
		FROM public.instruments
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Name != "" {
		queryBase += fmt.Sprintf(" AND name ILIKE $%d", paramIndex)
		args = append(args, "%"+filter.Name+"%")
		paramIndex++
	}

	queryBase += " ORDER BY name ASC"

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBase += fmt.Sprintf(" LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list instruments failed: %w", err)
	}
	defer rows.Close()

	var instruments []*Instrument
	var total int

	for rows.Next() {
		var ins Instrument
		if err := rows.Scan(&ins.ID, &ins.Name, &ins.ShortCode, &ins.Description, &ins.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan instrument failed: %w", err)
		}
		instruments = append(instruments, &ins)
	}

	return instruments, total, nil
}

func (r *pgxRepository) HasScientist(ctx context.Context, instrumentID, userID int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM public.instrument_scientists
			WHERE instrument_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, instrumentID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check instrument scientist failed: %w", err)
	}
	return exists, nil
}
