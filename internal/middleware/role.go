package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

// RequireRole lets the request through only when the caller's role is
// exactly role. It must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			httperr.Unauthorized(c, "unauthenticated", "Authentication is required.")
			return
		}
		if caller.Role != role {
			httperr.Forbidden(c, "forbidden", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}
