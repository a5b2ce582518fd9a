package permission

import (
	"net/http"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/pkg/apperror"
)

// ErrNotAuthorized is returned by RequireRole when the caller's role set is
// disjoint from the allowed set. The message is deliberately generic.
var ErrNotAuthorized = apperror.New(http.StatusForbidden, "not authorized")

// RequireRole is the role gate invoked at the top of every guarded operation.
// It is stateless: the allowed-role set is supplied per call site.
func RequireRole(user identity.UserContext, allowed ...identity.Role) error {
	if user.HasAnyRole(allowed...) {
		return nil
	}
	return ErrNotAuthorized
}
