package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/password"
)

func init() {
	// report request fields by their JSON names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type fieldError struct {
	code    string
	message string
}

// fieldErrors maps a field that failed a binding rule to the reply for it.
var fieldErrors = map[string]fieldError{
	"password":        {"weak_password", "Password must have between 6 and 72 characters."},
	"newPassword":     {"weak_password", "New password must have between 6 and 72 characters."},
	"role":            {"invalid_role", "Role must be admin or user."},
	"price":           {"invalid_price", "Price must be zero or greater."},
	"durationMinutes": {"invalid_duration", "Duration must be at least 5 minutes."},
}

// --------- Request plumbing ---------

func callerOrAbort(c *gin.Context) (access.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "Authentication is required.")
		return access.Caller{}, false
	}
	return caller, true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Id must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes and validates the body. Missing required fields win over
// any other rule failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		httperr.BadRequest(c, "invalid_request", "Invalid request body: "+err.Error())
		return false
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return requireFields(c, missing)
	}

	field := verrs[0].Field()
	if fe, ok := fieldErrors[field]; ok {
		httperr.BadRequest(c, fe.code, fe.message)
		return false
	}
	httperr.BadRequest(c, "invalid_request", "Invalid value for "+field+".")
	return false
}

func requireFields(c *gin.Context, missing []string) bool {
	if len(missing) == 0 {
		return true
	}
	httperr.BadRequest(c, "missing_fields", "Missing required fields: "+strings.Join(missing, ", ")+".")
	return false
}

func wantAll(c *gin.Context) bool {
	all, _ := strconv.ParseBool(c.Query("all"))
	return all
}

// hashPassword reports an over-long password as a validation failure.
func hashPassword(c *gin.Context, hasher password.Hasher, plain string) (string, bool) {
	hash, err := hasher.Hash(plain)
	if errors.Is(err, password.ErrTooLong) {
		httperr.BadRequest(c, "weak_password", "Password must have between 6 and 72 characters.")
		return "", false
	}
	if err != nil {
		storeFailed(c, err, "hash_failed")
		return "", false
	}
	return hash, true
}

// --------- Store errors ---------

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storeFailed reports an unexpected database error as a 500.
func storeFailed(c *gin.Context, err error, code string) {
	httperr.Respond(c, httperr.Wrap(err, code, "Unexpected server error."))
}

// saveFailed is storeFailed for writes, where a unique index may have
// caught a duplicate the explicit check missed.
func saveFailed(c *gin.Context, err error, code, duplicateMessage string) {
	if repository.IsUniqueViolation(err) {
		httperr.BadRequest(c, "duplicate", duplicateMessage)
		return
	}
	storeFailed(c, err, code)
}

// --------- Scoping ---------

// scopeOwner restricts q to the caller's rows unless the caller is an admin.
func scopeOwner(q *gorm.DB, caller access.Caller) *gorm.DB {
	if owner := caller.ScopeOwner(); owner != nil {
		return q.Where("owner_id = ?", *owner)
	}
	return q
}

// --------- Audit ---------

func record(d *audit.Dispatcher, caller access.Caller, ownerID uint, action, entity string, entityID uint, meta any) {
	d.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &caller.ID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
