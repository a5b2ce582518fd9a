package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
)

// GetUserContext returns the authenticated caller's identity and role set.
// The second return value is false when AuthRequired did not run.
func GetUserContext(c *gin.Context) (identity.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return identity.UserContext{}, false
	}
	user, ok := v.(identity.UserContext)
	return user, ok
}
