package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
)

const userContextKey = "userContext"

// AuthRequired is a Gin middleware that validates the JWT from
// Authorization: Bearer <token> and stores the caller's identity and roles in
// the request context.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token subject",
			})
			return
		}

		c.Set(userContextKey, identity.UserContext{
			UserID: userID,
			Roles:  claims.Roles,
		})

		c.Next()
	}
}
