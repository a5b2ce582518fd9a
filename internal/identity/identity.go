package identity

// Role is one of the closed set of roles a caller can hold.
type Role string

const (
	RoleUserOfficer         Role = "USER_OFFICER"
	RoleInstrumentScientist Role = "INSTRUMENT_SCIENTIST"
	RoleUser                Role = "USER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUserOfficer, RoleInstrumentScientist, RoleUser:
		return true
	}
	return false
}

// UserContext carries the authenticated caller's identity and role set for the
// duration of one request. It is populated by the auth middleware and treated
// as read-only everywhere below the transport layer.
type UserContext struct {
	UserID int
	Roles  []Role
}

// HasRole reports whether the caller holds the given role.
func (u UserContext) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the caller holds at least one of the given roles.
func (u UserContext) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}
