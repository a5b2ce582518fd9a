package instrument

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("instrument not found")
)

// Instrument represents a beamline instrument that scheduled events are
// booked against.
type Instrument struct {
	ID          int
	Name        string
	ShortCode   string
	Description *string
	CreatedAt   time.Time
}

// Filter defines parameters for listing instruments.
type Filter struct {
	Name     string
	Page     int
	PageSize int
}
