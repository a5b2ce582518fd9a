package user

import (
	"errors"
	"time"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
)

// User represents a person known to the facility: proposers, instrument
// scientists and user officers alike.
type User struct {
	ID           int
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []identity.Role
	IsActive     bool
	CreatedAt    time.Time
}
