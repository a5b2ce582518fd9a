package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Equipment, error)

	// ListForScheduledEvent returns the equipment attached to a scheduled
	// event, with each pair's assignment status.
	ListForScheduledEvent(ctx context.Context, scheduledEventID int) ([]*WithAssignmentStatus, error)

	// AssignmentStatus returns the status of one equipment-to-event pair, or
	// (nil, nil) when no such assignment exists.
	AssignmentStatus(ctx context.Context, scheduledEventID, equipmentID int) (*AssignmentStatus, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const equipmentColumns = "equipment_id, owner_id, name, description, auto_accept, maintenance_starts_at, maintenance_ends_at, created_at, updated_at"

func (r *pgxRepository) GetByID(ctx context.Context, id int) (*Equipment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM public.equipments
		WHERE equipment_id = $1
	`, equipmentColumns)

	var eq Equipment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&eq.ID, &eq.OwnerID, &eq.Name, &eq.Description, &eq.AutoAccept,
		&eq.MaintenanceStart, &eq.MaintenanceEnd, &eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get equipment failed: %w", err)
	}
	return &eq, nil
}

func (r *pgxRepository) ListForScheduledEvent(ctx context.Context, scheduledEventID int) ([]*WithAssignmentStatus, error) {
	const query = `
		SELECT e.equipment_id, e.owner_id, e.name, e.description, e.auto_accept,
		       e.maintenance_starts_at, e.maintenance_ends_at, e.created_at, e.updated_at,
		       ese.status
		FROM public.equipments e
		JOIN public.equipment_scheduled_events ese ON e.equipment_id = ese.equipment_id
		WHERE ese.scheduled_event_id = $1
		ORDER BY e.name ASC
	`
	rows, err := r.pool.Query(ctx, query, scheduledEventID)
	if err != nil {
		return nil, fmt.Errorf("list event equipment failed: %w", err)
	}
	defer rows.Close()

	var items []*WithAssignmentStatus
	for rows.Next() {
		var item WithAssignmentStatus
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.AutoAccept,
			&item.MaintenanceStart, &item.MaintenanceEnd, &item.CreatedAt, &item.UpdatedAt,
			&item.Status,
		); err != nil {
			return nil, fmt.Errorf("scan event equipment failed: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *pgxRepository) AssignmentStatus(ctx context.Context, scheduledEventID, equipmentID int) (*AssignmentStatus, error) {
	const query = `
		SELECT status
		FROM public.equipment_scheduled_events
		WHERE scheduled_event_id = $1 AND equipment_id = $2
	`
	var status AssignmentStatus
	err := r.pool.QueryRow(ctx, query, scheduledEventID, equipmentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment status failed: %w", err)
	}
	return &status, nil
}
