package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

// UserHandler manages staff accounts. Every route is admin-only.
type UserHandler struct {
	db     *gorm.DB
	hasher password.Hasher
	audit  *audit.Dispatcher

	// guardDeactivation refuses to deactivate users that own future appointments.
	guardDeactivation bool
	now               func() time.Time
}

func NewUserHandler(db *gorm.DB, hasher password.Hasher, audit *audit.Dispatcher, guardDeactivation bool) *UserHandler {
	return &UserHandler{
		db:                db,
		hasher:            hasher,
		audit:             audit,
		guardDeactivation: guardDeactivation,
		now:               time.Now,
	}
}

// --------- Requests ---------

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=admin user"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	q := h.db.Model(&models.User{})
	if !wantAll(c) {
		q = q.Where("is_active = ?", true)
	}

	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		storeFailed(c, err, "list_users_failed")
		return
	}

	httpresp.List(c, "users", users, "No users found.")
}

func (h *UserHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
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

	var clash models.User
	err := h.db.Where("username = ? OR phone = ?", in.Username, in.Phone).First(&clash).Error
	if err == nil {
		if !clash.IsActive {
			httperr.BadRequest(c, "user_inactive_exists",
				"An inactive user with this username or phone exists; reactivate it instead.")
			return
		}
		httperr.BadRequest(c, "user_exists", "Username or phone is already in use.")
		return
	}
	if !isNotFound(err) {
		storeFailed(c, err, "create_user_failed")
		return
	}

	hash, ok := hashPassword(c, h.hasher, req.Password)
	if !ok {
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
		saveFailed(c, err, "create_user_failed", "Username or phone is already in use.")
		return
	}

	record(h.audit, caller, user.ID, "user_created", "user", user.ID, nil)
	httpresp.Created(c, "User created.", "user", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	user, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := validators.Clean(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		user.Name = name
	}
	if req.Surname != nil {
		user.Surname = validators.Clean(*req.Surname)
	}

	if req.Username != nil {
		username := validators.Clean(*req.Username)
		if username == "" {
			httperr.BadRequest(c, "invalid_username", "Username cannot be empty.")
			return
		}
		if username != user.Username {
			taken, err := h.exists("username = ? AND id <> ?", username, user.ID)
			if err != nil {
				storeFailed(c, err, "update_user_failed")
				return
			}
			if taken {
				httperr.BadRequest(c, "username_taken", "Username is already in use.")
				return
			}
			user.Username = username
		}
	}

	if req.Phone != nil {
		phone := validators.NormalizePhone(*req.Phone)
		if !validators.IsPhone(phone) {
			httperr.BadRequest(c, "invalid_phone", "Phone must contain between 3 and 20 digits.")
			return
		}
		if phone != user.Phone {
			taken, err := phoneTaken(h.db, phone, user.ID, false)
			if err != nil {
				storeFailed(c, err, "update_user_failed")
				return
			}
			if taken {
				httperr.BadRequest(c, "phone_in_use", "Phone is already in use.")
				return
			}
			user.Phone = phone
		}
	}

	if req.Role != nil {
		user.Role = *req.Role
	}

	if req.Password != nil {
		hash, ok := hashPassword(c, h.hasher, *req.Password)
		if !ok {
			return
		}
		user.PasswordHash = hash
	}

	if err := h.db.Save(user).Error; err != nil {
		saveFailed(c, err, "update_user_failed", "Username or phone is already in use.")
		return
	}

	record(h.audit, caller, user.ID, "user_updated", "user", user.ID, nil)
	httpresp.OK(c, "User updated.", "user", user)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	user, ok := h.find(c)
	if !ok {
		return
	}

	if user.ID == caller.ID {
		httperr.BadRequest(c, "cannot_deactivate_self", "You cannot deactivate your own account.")
		return
	}

	if h.guardDeactivation {
		busy, err := repository.HasFutureAppointments(c.Request.Context(), h.db, repository.ByOwner, user.ID, h.now())
		if err != nil {
			storeFailed(c, err, "deactivate_user_failed")
			return
		}
		if busy {
			httperr.BadRequest(c, "user_has_future_appointments", "User owns upcoming appointments.")
			return
		}
	}

	if err := h.db.Model(user).Update("is_active", false).Error; err != nil {
		storeFailed(c, err, "deactivate_user_failed")
		return
	}
	user.IsActive = false

	record(h.audit, caller, user.ID, "user_deactivated", "user", user.ID, nil)
	httpresp.OK(c, "User deactivated.", "user", user)
}

func (h *UserHandler) Reactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	user, ok := h.find(c)
	if !ok {
		return
	}

	taken, err := phoneTaken(h.db, user.Phone, user.ID, true)
	if err != nil {
		storeFailed(c, err, "reactivate_user_failed")
		return
	}
	if taken {
		httperr.BadRequest(c, "phone_in_use", "Phone is already used by an active user.")
		return
	}

	if err := h.db.Model(user).Update("is_active", true).Error; err != nil {
		storeFailed(c, err, "reactivate_user_failed")
		return
	}
	user.IsActive = true

	record(h.audit, caller, user.ID, "user_reactivated", "user", user.ID, nil)
	httpresp.OK(c, "User reactivated.", "user", user)
}

// --------- Lookups ---------

func (h *UserHandler) find(c *gin.Context) (*models.User, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		storeFailed(c, err, "get_user_failed")
		return nil, false
	}
	return &user, true
}

func (h *UserHandler) exists(query string, args ...any) (bool, error) {
	var count int64
	err := h.db.Model(&models.User{}).Where(query, args...).Count(&count).Error
	return count > 0, err
}
