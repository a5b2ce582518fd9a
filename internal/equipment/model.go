package equipment

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("equipment not found")
)

// AssignmentStatus tracks where an equipment-to-event assignment stands with
// the equipment owner.
type AssignmentStatus string

const (
	AssignmentAccepted AssignmentStatus = "ACCEPTED"
	AssignmentPending  AssignmentStatus = "PENDING"
	AssignmentRejected AssignmentStatus = "REJECTED"
)

// Equipment is a movable piece of kit (detector, sample environment, ...)
// that can be attached to scheduled events.
type Equipment struct {
	ID               int
	OwnerID          int
	Name             string
	Description      *string
	AutoAccept       bool
	MaintenanceStart *time.Time
	MaintenanceEnd   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WithAssignmentStatus pairs a piece of equipment with its assignment status
// on one particular scheduled event.
type WithAssignmentStatus struct {
	Equipment
	Status AssignmentStatus
}
