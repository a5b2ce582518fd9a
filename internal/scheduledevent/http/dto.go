package http

import (
	"fmt"
	"time"

	"github.com/photonworks/facility-scheduler-backend/internal/scheduledevent"
)

// TzLessFormat is the wire format for the timezone-less wall-clock times that
// scheduled events start and end at.
const TzLessFormat = "2006-01-02 15:04:05"

func parseTzLess(value string) (time.Time, error) {
	t, err := time.Parse(TzLessFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %q format: %w", TzLessFormat, err)
	}
	return t, nil
}

// ListScheduledEventsRequest defines query parameters for the filtered list.
type ListScheduledEventsRequest struct {
	InstrumentIDs []int  `form:"instrument_ids"`
	StartsAt      string `form:"starts_at"`
	EndsAt        string `form:"ends_at"`
	BookingType   string `form:"booking_type" binding:"omitempty,oneof=COMMISSIONING SHUTDOWN USER_OPERATIONS MAINTENANCE"`
}

// ToFilter converts the request into a domain filter.
func (r *ListScheduledEventsRequest) ToFilter() (scheduledevent.Filter, error) {
	filter := scheduledevent.Filter{InstrumentIDs: r.InstrumentIDs}

	if r.StartsAt != "" {
		t, err := parseTzLess(r.StartsAt)
		if err != nil {
			return filter, fmt.Errorf("invalid starts_at: %w", err)
		}
		filter.StartsAt = &t
	}
	if r.EndsAt != "" {
		t, err := parseTzLess(r.EndsAt)
		if err != nil {
			return filter, fmt.Errorf("invalid ends_at: %w", err)
		}
		filter.EndsAt = &t
	}
	if r.BookingType != "" {
		bt := scheduledevent.BookingType(r.BookingType)
		filter.BookingType = &bt
	}

	return filter, nil
}

// BookingEventsRequest defines the optional date window when listing the
// events of one proposal booking.
type BookingEventsRequest struct {
	StartsAt string `form:"starts_at"`
	EndsAt   string `form:"ends_at"`
}

// ToFilter converts the request into a domain filter, nil when no window was
// supplied.
func (r *BookingEventsRequest) ToFilter() (*scheduledevent.ProposalBookingFilter, error) {
	if r.StartsAt == "" && r.EndsAt == "" {
		return nil, nil
	}

	filter := &scheduledevent.ProposalBookingFilter{}
	if r.StartsAt != "" {
		t, err := parseTzLess(r.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid starts_at: %w", err)
		}
		filter.StartsAt = &t
	}
	if r.EndsAt != "" {
		t, err := parseTzLess(r.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid ends_at: %w", err)
		}
		filter.EndsAt = &t
	}

	return filter, nil
}

// EquipmentEventsRequest defines parameters for listing events by equipment.
type EquipmentEventsRequest struct {
	EquipmentIDs []int  `form:"equipment_ids" binding:"required,min=1"`
	StartsAt     string `form:"starts_at" binding:"required"`
	EndsAt       string `form:"ends_at" binding:"required"`
}

// CreateScheduledEventBody is the JSON body for event creation.
type CreateScheduledEventBody struct {
	BookingType       string  `json:"booking_type" binding:"required,oneof=COMMISSIONING SHUTDOWN USER_OPERATIONS MAINTENANCE"`
	StartsAt          string  `json:"starts_at" binding:"required"`
	EndsAt            string  `json:"ends_at" binding:"required"`
	ProposalBookingID *int    `json:"proposal_booking_id"`
	InstrumentID      *int    `json:"instrument_id"`
	Description       *string `json:"description"`
}

// ScheduledEventResponse is the JSON shape of one scheduled event.
type ScheduledEventResponse struct {
	ID                int     `json:"id"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	BookingType       string  `json:"booking_type"`
	StartsAt          string  `json:"starts_at"`
	EndsAt            string  `json:"ends_at"`
	ProposalBookingID *int    `json:"proposal_booking_id"`
	ScheduledBy       int     `json:"scheduled_by"`
	Description       *string `json:"description"`
	InstrumentID      *int    `json:"instrument_id"`
}

// NewScheduledEventResponse converts a domain event into its response shape.
func NewScheduledEventResponse(ev *scheduledevent.ScheduledEvent) ScheduledEventResponse {
	return ScheduledEventResponse{
		ID:                ev.ID,
		CreatedAt:         ev.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         ev.UpdatedAt.UTC().Format(time.RFC3339),
		BookingType:       string(ev.BookingType),
		StartsAt:          ev.StartsAt.Format(TzLessFormat),
		EndsAt:            ev.EndsAt.Format(TzLessFormat),
		ProposalBookingID: ev.ProposalBookingID,
		ScheduledBy:       ev.ScheduledByID,
		Description:       ev.Description,
		InstrumentID:      ev.InstrumentID,
	}
}

// NewScheduledEventResponses converts a slice of domain events.
func NewScheduledEventResponses(events []*scheduledevent.ScheduledEvent) []ScheduledEventResponse {
	items := make([]ScheduledEventResponse, len(events))
	for i, ev := range events {
		items[i] = NewScheduledEventResponse(ev)
	}
	return items
}
