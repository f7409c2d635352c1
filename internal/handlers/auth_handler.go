package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
	"github.com/BruksfildServices01/salon-manager/internal/throttle"
	"github.com/BruksfildServices01/salon-manager/internal/token"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

type AuthHandler struct {
	db      *gorm.DB
	tokens  *token.Service
	hasher  password.Hasher
	limiter throttle.Limiter
	audit   *audit.Dispatcher
}

func NewAuthHandler(
	db *gorm.DB,
	tokens *token.Service,
	hasher password.Hasher,
	limiter throttle.Limiter,
	audit *audit.Dispatcher,
) *AuthHandler {
	if limiter == nil {
		limiter = throttle.Noop{}
	}
	return &AuthHandler{
		db:      db,
		tokens:  tokens,
		hasher:  hasher,
		limiter: limiter,
		audit:   audit,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// --------- Handlers ---------

// Register is admin-only. The gate already checked the token role; the
// caller's record is re-read so a demoted or deactivated admin holding an
// old token is still refused.
func (h *AuthHandler) Register(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var me models.User
	if err := h.db.First(&me, caller.ID).Error; err != nil {
		if isNotFound(err) {
			httperr.Forbidden(c, "forbidden", "Only active admins can register users.")
			return
		}
		storeFailed(c, err, "register_failed")
		return
	}
	if !me.IsActive || !me.IsAdmin() {
		httperr.Forbidden(c, "forbidden", "Only active admins can register users.")
		return
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	in, ok := normalizeAccount(c, req)
	if !ok {
		return
	}

	hash, ok := hashPassword(c, h.hasher, req.Password)
	if !ok {
		return
	}

	var existing models.User
	err := h.db.Where("username = ?", in.Username).First(&existing).Error
	switch {
	case err == nil && existing.IsActive:
		httperr.BadRequest(c, "username_taken", "Username is already in use.")
		return

	case err == nil:
		// inactive account with this username: bring it back with the new data
		if taken, err := phoneTaken(h.db, in.Phone, existing.ID, true); err != nil {
			storeFailed(c, err, "register_failed")
			return
		} else if taken {
			httperr.BadRequest(c, "phone_in_use", "Phone is already used by an active user.")
			return
		}

		existing.Name = in.Name
		existing.Surname = in.Surname
		existing.Phone = in.Phone
		existing.Role = in.Role
		existing.PasswordHash = hash
		existing.IsActive = true
		existing.ForcePasswordReset = in.Role != models.RoleAdmin

		if err := h.db.Save(&existing).Error; err != nil {
			saveFailed(c, err, "register_failed", "Username or phone is already in use.")
			return
		}

		record(h.audit, caller, existing.ID, "user_reactivated", "user", existing.ID, nil)
		httpresp.OK(c, "User reactivated.", "user", existing)
		return

	case !isNotFound(err):
		storeFailed(c, err, "register_failed")
		return
	}

	if taken, err := phoneTaken(h.db, in.Phone, 0, false); err != nil {
		storeFailed(c, err, "register_failed")
		return
	} else if taken {
		httperr.BadRequest(c, "phone_in_use", "Phone is already in use.")
		return
	}

	user := models.User{
		Name:               in.Name,
		Surname:            in.Surname,
		Username:           in.Username,
		PasswordHash:       hash,
		Phone:              in.Phone,
		Role:               in.Role,
		IsActive:           true,
		ForcePasswordReset: in.Role != models.RoleAdmin,
	}
	if err := h.db.Create(&user).Error; err != nil {
		saveFailed(c, err, "register_failed", "Username or phone is already in use.")
		return
	}

	record(h.audit, caller, user.ID, "user_registered", "user", user.ID, nil)
	httpresp.Created(c, "User registered.", "user", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	username := validators.Clean(req.Username)
	if !requireFields(c, validators.Missing("username", username)) {
		return
	}

	ctx := c.Request.Context()

	blocked, err := h.limiter.Blocked(ctx, username)
	if err != nil {
		log.Printf("login throttle check failed: %v", err)
	}
	if blocked {
		httperr.Write(c, http.StatusTooManyRequests, "too_many_attempts", "Too many failed login attempts, try again later.")
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		storeFailed(c, err, "login_failed")
		return
	}

	if !user.IsActive {
		httperr.Forbidden(c, "user_inactive", "User is inactive.")
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if err := h.limiter.Fail(ctx, username); err != nil {
			log.Printf("login throttle record failed: %v", err)
		}
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	if err := h.limiter.Reset(ctx, username); err != nil {
		log.Printf("login throttle reset failed: %v", err)
	}

	tok, err := h.tokens.Generate(&user)
	if err != nil {
		storeFailed(c, err, "token_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   tok,
		"user":    user,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := h.db.First(&user, caller.ID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		storeFailed(c, err, "password_change_failed")
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Current password is incorrect.")
		return
	}

	hash, ok := hashPassword(c, h.hasher, req.NewPassword)
	if !ok {
		return
	}

	if err := h.db.Model(&user).Updates(map[string]any{
		"password_hash":        hash,
		"force_password_reset": false,
	}).Error; err != nil {
		storeFailed(c, err, "password_change_failed")
		return
	}
	user.PasswordHash = hash
	user.ForcePasswordReset = false

	tok, err := h.tokens.Generate(&user)
	if err != nil {
		storeFailed(c, err, "token_failed")
		return
	}

	record(h.audit, caller, user.ID, "password_changed", "user", user.ID, nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated.",
		"token":   tok,
	})
}

// --------- Shared account validation ---------

type accountInput struct {
	Name     string
	Surname  string
	Username string
	Phone    string
	Role     string
}

// normalizeAccount trims the fields shared by register and user creation.
// Binding tags have already checked presence and shape; what is left are
// the values that turn out blank or malformed once trimmed.
func normalizeAccount(c *gin.Context, req RegisterRequest) (accountInput, bool) {
	in := accountInput{
		Name:     validators.Clean(req.Name),
		Surname:  validators.Clean(req.Surname),
		Username: validators.Clean(req.Username),
		Phone:    validators.NormalizePhone(req.Phone),
		Role:     validators.Clean(req.Role),
	}

	if !requireFields(c, validators.Missing(
		"name", in.Name,
		"username", in.Username,
		"phone", in.Phone,
	)) {
		return in, false
	}
	if !validators.IsPhone(in.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Phone must contain between 3 and 20 digits.")
		return in, false
	}

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	return in, true
}

// phoneTaken reports whether another user (excluding excludeID) holds phone.
// With activeOnly set, inactive holders are ignored.
func phoneTaken(db *gorm.DB, phone string, excludeID uint, activeOnly bool) (bool, error) {
	q := db.Model(&models.User{}).Where("phone = ?", phone)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
