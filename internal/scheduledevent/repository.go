package scheduledevent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/photonworks/facility-scheduler-backend/internal/pkg/apperror"
)

// ErrUnknownReference is returned by Create when the referenced proposal
// booking, instrument or user does not exist.
var ErrUnknownReference = apperror.New(http.StatusBadRequest, "referenced proposal booking, instrument or user does not exist")

// Repository is the scheduled-event data source. Single-record gets report
// absence as (nil, nil), never as an error; the query layer relies on that to
// keep denial and absence indistinguishable.
type Repository interface {
	GetByID(ctx context.Context, id int) (*ScheduledEvent, error)
	ListByFilter(ctx context.Context, filter Filter) ([]*ScheduledEvent, error)
	ListByProposalBooking(ctx context.Context, proposalBookingID int, filter *ProposalBookingFilter) ([]*ScheduledEvent, error)
	GetByProposalBookingAndEventID(ctx context.Context, proposalBookingID, scheduledEventID int) (*ScheduledEvent, error)
	ListByEquipment(ctx context.Context, equipmentIDs []int, startsAt, endsAt time.Time) ([]*ScheduledEvent, error)
	Create(ctx context.Context, input NewScheduledEventInput) (*ScheduledEvent, error)
	Delete(ctx context.Context, id int) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const eventColumns = "scheduled_event_id, created_at, updated_at, booking_type, starts_at, ends_at, proposal_booking_id, scheduled_by, description, instrument_id"

func scanEvent(row pgx.Row) (*ScheduledEvent, error) {
	var ev ScheduledEvent
	err := row.Scan(
		&ev.ID, &ev.CreatedAt, &ev.UpdatedAt, &ev.BookingType,
		&ev.StartsAt, &ev.EndsAt, &ev.ProposalBookingID,
		&ev.ScheduledByID, &ev.Description, &ev.InstrumentID,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int) (*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(eventColumns).
		From("public.scheduled_events").
		Where(squirrel.Eq{"scheduled_event_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get scheduled event query failed: %w", err)
	}

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduled event failed: %w", err)
	}
	return ev, nil
}

func (r *pgxRepository) ListByFilter(ctx context.Context, filter Filter) ([]*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(eventColumns).
		From("public.scheduled_events").
		Where(squirrel.Eq{"instrument_id": filter.InstrumentIDs})

	// Date range filtering keeps events that intersect the window.
	if filter.StartsAt != nil {
		query = query.Where(squirrel.GtOrEq{"ends_at": *filter.StartsAt})
	}
	if filter.EndsAt != nil {
		query = query.Where(squirrel.LtOrEq{"starts_at": *filter.EndsAt})
	}
	if filter.BookingType != nil {
		query = query.Where(squirrel.Eq{"booking_type": *filter.BookingType})
	}

	query = query.OrderBy("starts_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scheduled events query failed: %w", err)
	}

	return r.queryEvents(ctx, sql, args)
}

func (r *pgxRepository) ListByProposalBooking(ctx context.Context, proposalBookingID int, filter *ProposalBookingFilter) ([]*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(eventColumns).
		From("public.scheduled_events").
		Where(squirrel.Eq{"proposal_booking_id": proposalBookingID})

	if filter != nil {
		if filter.StartsAt != nil {
			query = query.Where(squirrel.GtOrEq{"ends_at": *filter.StartsAt})
		}
		if filter.EndsAt != nil {
			query = query.Where(squirrel.LtOrEq{"starts_at": *filter.EndsAt})
		}
	}

	query = query.OrderBy("starts_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list booking events query failed: %w", err)
	}

	return r.queryEvents(ctx, sql, args)
}

func (r *pgxRepository) GetByProposalBookingAndEventID(ctx context.Context, proposalBookingID, scheduledEventID int) (*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(eventColumns).
		From("public.scheduled_events").
		Where(squirrel.Eq{
			"proposal_booking_id": proposalBookingID,
			"scheduled_event_id":  scheduledEventID,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking event query failed: %w", err)
	}

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking event failed: %w", err)
	}
	return ev, nil
}

func (r *pgxRepository) ListByEquipment(ctx context.Context, equipmentIDs []int, startsAt, endsAt time.Time) ([]*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"se.scheduled_event_id", "se.created_at", "se.updated_at", "se.booking_type",
		"se.starts_at", "se.ends_at", "se.proposal_booking_id",
		"se.scheduled_by", "se.description", "se.instrument_id",
	).
		Distinct().
		From("public.scheduled_events se").
		Join("public.equipment_scheduled_events ese ON se.scheduled_event_id = ese.scheduled_event_id").
		Where(squirrel.Eq{"ese.equipment_id": equipmentIDs}).
		Where(squirrel.GtOrEq{"se.ends_at": startsAt}).
		Where(squirrel.LtOrEq{"se.starts_at": endsAt}).
		OrderBy("se.starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list equipment events query failed: %w", err)
	}

	return r.queryEvents(ctx, query, args)
}

func (r *pgxRepository) Create(ctx context.Context, input NewScheduledEventInput) (*ScheduledEvent, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.scheduled_events").
		Columns("booking_type", "starts_at", "ends_at", "proposal_booking_id", "scheduled_by", "description", "instrument_id").
		Values(input.BookingType, input.StartsAt, input.EndsAt, input.ProposalBookingID, input.ScheduledByID, input.Description, input.InstrumentID).
		Suffix("RETURNING " + eventColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create scheduled event query failed: %w", err)
	}

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrUnknownReference
		}
		return nil, fmt.Errorf("create scheduled event failed: %w", err)
	}
	return ev, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.scheduled_events").
		Where(squirrel.Eq{"scheduled_event_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete scheduled event query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete scheduled event failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) queryEvents(ctx context.Context, sql string, args []interface{}) ([]*ScheduledEvent, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query scheduled events failed: %w", err)
	}
	defer rows.Close()

	var events []*ScheduledEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled event failed: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
