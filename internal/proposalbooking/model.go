package proposalbooking

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("proposal booking not found")
)

// Status is the lifecycle state of a proposal booking.
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusBooked Status = "BOOKED"
	StatusClosed Status = "CLOSED"
)

// ProposalBooking groups the scheduled events belonging to one accepted
// research proposal on one instrument.
type ProposalBooking struct {
	ID            int
	ProposalID    int
	InstrumentID  int
	Status        Status
	AllocatedTime int // seconds of beamtime granted to the proposal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
