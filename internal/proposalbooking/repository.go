package proposalbooking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*ProposalBooking, error)

	// InstrumentID returns the id of the instrument backing the booking.
	InstrumentID(ctx context.Context, bookingID int) (int, error)

	// HasParticipant reports whether the user is the proposer or a
	// co-proposer on the proposal underlying the booking.
	HasParticipant(ctx context.Context, bookingID, userID int) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id int) (*ProposalBooking, error) {
	const query = `
		SELECT proposal_booking_id, proposal_id, instrument_id, status, allocated_time, created_at, updated_at
		FROM public.proposal_bookings
		WHERE proposal_booking_id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var pb ProposalBooking
	if err := row.Scan(&pb.ID, &pb.ProposalID, &pb.InstrumentID, &pb.Status, &pb.AllocatedTime, &pb.CreatedAt, &pb.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get proposal booking failed: %w", err)
	}
	return &pb, nil
}

func (r *pgxRepository) InstrumentID(ctx context.Context, bookingID int) (int, error) {
	const query = `
		SELECT instrument_id
		FROM public.proposal_bookings
		WHERE proposal_booking_id = $1
	`
	var instrumentID int
	if err := r.pool.QueryRow(ctx, query, bookingID).Scan(&instrumentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get booking instrument failed: %w", err)
	}
	return instrumentID, nil
}

func (r *pgxRepository) HasParticipant(ctx context.Context, bookingID, userID int) (bool, error) {
	// Proposer and co-proposers both count as participants.
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM public.proposal_bookings pb
			JOIN public.proposals p ON pb.proposal_id = p.proposal_id
			LEFT JOIN public.proposal_users pu ON p.proposal_id = pu.proposal_id
			WHERE pb.proposal_booking_id = $1
			  AND (p.proposer_id = $2 OR pu.user_id = $2)
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookingID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check proposal participant failed: %w", err)
	}
	return exists, nil
}
