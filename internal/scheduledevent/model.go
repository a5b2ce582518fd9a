package scheduledevent

import (
	"net/http"
	"time"

	"github.com/photonworks/facility-scheduler-backend/internal/pkg/apperror"
)

var (
	ErrInvalidTimeRange   = apperror.New(http.StatusBadRequest, "startsAt must not be after endsAt")
	ErrInvalidBookingType = apperror.New(http.StatusBadRequest, "invalid booking type")
	ErrNotFound           = apperror.New(http.StatusNotFound, "scheduled event not found")
)

// BookingType classifies what a scheduled event blocks the instrument for.
type BookingType string

const (
	BookingTypeCommissioning  BookingType = "COMMISSIONING"
	BookingTypeShutdown       BookingType = "SHUTDOWN"
	BookingTypeUserOperations BookingType = "USER_OPERATIONS"
	BookingTypeMaintenance    BookingType = "MAINTENANCE"
)

// ValidBookingType reports whether bt is a known booking type.
func ValidBookingType(bt BookingType) bool {
	switch bt {
	case BookingTypeCommissioning, BookingTypeShutdown, BookingTypeUserOperations, BookingTypeMaintenance:
		return true
	}
	return false
}

// ScheduledEvent is a time-bounded booking of an instrument. StartsAt and
// EndsAt are timezone-less wall-clock times in the facility's local calendar;
// they are stored and compared as-is, never shifted.
type ScheduledEvent struct {
	ID                int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	BookingType       BookingType
	StartsAt          time.Time
	EndsAt            time.Time
	ProposalBookingID *int
	ScheduledByID     int
	Description       *string
	InstrumentID      *int
}

// Filter scopes the list-by-filter read path. An empty InstrumentIDs set means
// the request is unscoped and is answered with an empty result, never with a
// broad listing.
type Filter struct {
	InstrumentIDs []int
	StartsAt      *time.Time
	EndsAt        *time.Time
	BookingType   *BookingType
}

// ProposalBookingFilter scopes the events of a single proposal booking.
type ProposalBookingFilter struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

// NewScheduledEventInput carries caller-supplied fields for event creation.
type NewScheduledEventInput struct {
	BookingType       BookingType
	StartsAt          time.Time
	EndsAt            time.Time
	ScheduledByID     int
	ProposalBookingID *int
	InstrumentID      *int
	Description       *string
}
