// Package permission holds the role gate and the resource-scoped access
// predicates consulted by the scheduled-event query layer.
package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/instrument"
	"github.com/photonworks/facility-scheduler-backend/internal/proposalbooking"
)

// Checker exposes the access predicates used to narrow scheduled-event
// queries. Each predicate is a pure yes/no answer; a returned error means the
// underlying lookup failed, not that access was denied.
type Checker interface {
	// InstrumentScientistHasInstrument reports whether the caller, as an
	// instrument scientist, is assigned to the given instrument.
	InstrumentScientistHasInstrument(ctx context.Context, user identity.UserContext, instrumentID int) (bool, error)

	// InstrumentScientistHasAccess reports whether the caller, as an
	// instrument scientist, is assigned to the instrument backing the given
	// proposal booking.
	InstrumentScientistHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error)

	// UserHasAccess reports whether the caller is a participant (proposer or
	// co-proposer) on the proposal underlying the given booking.
	UserHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error)
}

type checker struct {
	instruments instrument.Repository
	bookings    proposalbooking.Repository
}

// NewChecker creates a Checker backed by the instrument and proposal-booking
// repositories.
func NewChecker(instruments instrument.Repository, bookings proposalbooking.Repository) Checker {
	return &checker{
		instruments: instruments,
		bookings:    bookings,
	}
}

func (c *checker) InstrumentScientistHasInstrument(ctx context.Context, user identity.UserContext, instrumentID int) (bool, error) {
	// Callers without the role never reach the assignment lookup.
	if !user.HasRole(identity.RoleInstrumentScientist) {
		return false, nil
	}

	return c.instruments.HasScientist(ctx, instrumentID, user.UserID)
}

func (c *checker) InstrumentScientistHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error) {
	if !user.HasRole(identity.RoleInstrumentScientist) {
		return false, nil
	}

	instrumentID, err := c.bookings.InstrumentID(ctx, proposalBookingID)
	if err != nil {
		// A booking that does not exist cannot be accessed; this is a clean
		// denial, not a lookup failure.
		if errors.Is(err, proposalbooking.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve booking instrument: %w", err)
	}

	return c.instruments.HasScientist(ctx, instrumentID, user.UserID)
}

func (c *checker) UserHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error) {
	if !user.HasRole(identity.RoleUser) {
		return false, nil
	}

	return c.bookings.HasParticipant(ctx, proposalBookingID, user.UserID)
}
