package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/token"
)

const ContextCaller = "caller"

// AuthMiddleware accepts a valid bearer token. With db set, the account
// must also still exist and be active, so deactivation takes effect before
// the token expires.
func AuthMiddleware(tokens *token.Service, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authorization header must be a bearer token.")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		if db != nil && !activeAccount(c, db, claims.UserID) {
			return
		}

		c.Set(ContextCaller, access.Caller{
			ID:                 claims.UserID,
			Username:           claims.Username,
			Role:               claims.Role,
			ForcePasswordReset: claims.ForcePasswordReset,
		})

		c.Next()
	}
}

func activeAccount(c *gin.Context, db *gorm.DB, userID uint) bool {
	var user models.User
	err := db.WithContext(c.Request.Context()).
		Select("id", "is_active").
		First(&user, userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
		return false
	case err != nil:
		httperr.Respond(c, httperr.Wrap(err, "auth_failed", "Unexpected server error."))
		return false
	case !user.IsActive:
		httperr.Forbidden(c, "user_inactive", "User is inactive.")
		return false
	}
	return true
}

// CallerFrom returns the identity stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (access.Caller, bool) {
	v, ok := c.Get(ContextCaller)
	if !ok {
		return access.Caller{}, false
	}
	caller, ok := v.(access.Caller)
	return caller, ok
}
