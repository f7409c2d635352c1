package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

type EmployeeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewEmployeeHandler(db *gorm.DB, audit *audit.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{db: db, audit: audit, now: time.Now}
}

type CreateEmployeeRequest struct {
	Name   string      `json:"name" binding:"required"`
	Phone  string      `json:"phone"`
	UserID *dto.FlexID `json:"userId"`
}

type UpdateEmployeeRequest struct {
	Name     *string       `json:"name,omitempty"`
	Phone    *string       `json:"phone,omitempty"`
	UserID   *dto.FlexID   `json:"userId,omitempty"`
	IsActive *dto.FlexBool `json:"isActive,omitempty"`
}

// List shows shared employees plus the caller's own; admins see all.
func (h *EmployeeHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	q := h.db.Model(&models.Employee{})
	if !caller.IsAdmin() {
		q = q.Where("owner_id IS NULL OR owner_id = ?", caller.ID)
	}
	if !wantAll(c) {
		q = q.Where("is_active = ?", true)
	}

	var employees []models.Employee
	if err := q.Order("name ASC").Find(&employees).Error; err != nil {
		storeFailed(c, err, "list_employees_failed")
		return
	}

	httpresp.List(c, "employees", employees, "No employees registered yet.")
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee := models.Employee{
		Name:     validators.Clean(req.Name),
		Phone:    validators.NormalizePhone(req.Phone),
		IsActive: true,
	}
	if !validateEmployee(c, &employee) {
		return
	}

	owner, ok := h.resolveOwner(c, caller, req.UserID.Ptr())
	if !ok {
		return
	}
	employee.OwnerID = owner

	taken, err := h.nameTaken(employee.Name, 0)
	if err != nil {
		storeFailed(c, err, "create_employee_failed")
		return
	}
	if taken {
		httperr.BadRequest(c, "employee_name_taken", "An active employee with this name already exists.")
		return
	}

	if err := h.db.Create(&employee).Error; err != nil {
		storeFailed(c, err, "create_employee_failed")
		return
	}

	record(h.audit, caller, ownerOf(&employee), "employee_created", "employee", employee.ID, nil)
	httpresp.Created(c, "Employee created.", "employee", employee)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	employee, ok := h.find(c, caller, false)
	if !ok {
		return
	}

	httpresp.OK(c, "Employee retrieved.", "employee", employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	employee, ok := h.find(c, caller, true)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	wasActive := employee.IsActive
	oldName := employee.Name

	if req.Name != nil {
		employee.Name = validators.Clean(*req.Name)
	}
	if req.Phone != nil {
		employee.Phone = validators.NormalizePhone(*req.Phone)
	}
	if req.IsActive != nil {
		employee.IsActive = bool(*req.IsActive)
	}
	if !validateEmployee(c, employee) {
		return
	}

	if req.UserID != nil {
		owner, ok := h.resolveOwner(c, caller, req.UserID.Ptr())
		if !ok {
			return
		}
		employee.OwnerID = owner
	}

	renamed := !strings.EqualFold(oldName, employee.Name)
	reactivated := employee.IsActive && !wasActive
	if employee.IsActive && (renamed || reactivated) {
		taken, err := h.nameTaken(employee.Name, employee.ID)
		if err != nil {
			storeFailed(c, err, "update_employee_failed")
			return
		}
		if taken {
			httperr.BadRequest(c, "employee_name_taken", "An active employee with this name already exists.")
			return
		}
	}

	if wasActive && !employee.IsActive && !h.free(c, employee.ID) {
		return
	}

	if err := h.db.Save(employee).Error; err != nil {
		storeFailed(c, err, "update_employee_failed")
		return
	}

	record(h.audit, caller, ownerOf(employee), "employee_updated", "employee", employee.ID, nil)
	httpresp.OK(c, "Employee updated.", "employee", employee)
}

// Delete deactivates the employee unless upcoming appointments are assigned.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	employee, ok := h.find(c, caller, true)
	if !ok {
		return
	}

	if !h.free(c, employee.ID) {
		return
	}

	if err := h.db.Model(employee).Update("is_active", false).Error; err != nil {
		storeFailed(c, err, "deactivate_employee_failed")
		return
	}
	employee.IsActive = false

	record(h.audit, caller, ownerOf(employee), "employee_deactivated", "employee", employee.ID, nil)
	httpresp.OK(c, "Employee deactivated.", "employee", employee)
}

func (h *EmployeeHandler) Reactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	employee, ok := h.find(c, caller, true)
	if !ok {
		return
	}

	if employee.IsActive {
		httpresp.OK(c, "Employee is already active.", "employee", employee)
		return
	}

	taken, err := h.nameTaken(employee.Name, employee.ID)
	if err != nil {
		storeFailed(c, err, "reactivate_employee_failed")
		return
	}
	if taken {
		httperr.BadRequest(c, "employee_name_taken", "An active employee with this name already exists.")
		return
	}

	if err := h.db.Model(employee).Update("is_active", true).Error; err != nil {
		storeFailed(c, err, "reactivate_employee_failed")
		return
	}
	employee.IsActive = true

	record(h.audit, caller, ownerOf(employee), "employee_reactivated", "employee", employee.ID, nil)
	httpresp.OK(c, "Employee reactivated.", "employee", employee)
}

// --------- Rules ---------

func validateEmployee(c *gin.Context, e *models.Employee) bool {
	if !validators.MinLen(e.Name, minNameLen) {
		httperr.BadRequest(c, "invalid_name", "Name must have at least 3 characters.")
		return false
	}
	if e.Phone != "" && !validators.IsPhone(e.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Phone must contain between 3 and 20 digits.")
		return false
	}
	return true
}

// resolveOwner picks the employee owner. Without userId an admin creates a
// shared employee (nil owner) and anyone else owns it. Only admins may name
// another existing user.
func (h *EmployeeHandler) resolveOwner(c *gin.Context, caller access.Caller, userID *uint) (*uint, bool) {
	if userID == nil {
		if caller.IsAdmin() {
			return nil, true
		}
		id := caller.ID
		return &id, true
	}
	if *userID == caller.ID {
		return userID, true
	}
	if !caller.IsAdmin() {
		httperr.Forbidden(c, "forbidden", "Only admins can assign employees to other users.")
		return nil, false
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("id = ?", *userID).Count(&count).Error; err != nil {
		storeFailed(c, err, "employee_owner_failed")
		return nil, false
	}
	if count == 0 {
		httperr.BadRequest(c, "user_not_found", "userId does not match any user.")
		return nil, false
	}
	return userID, true
}

// free aborts with 400 when an upcoming appointment is assigned to the employee.
func (h *EmployeeHandler) free(c *gin.Context, employeeID uint) bool {
	busy, err := repository.HasFutureAppointments(c.Request.Context(), h.db, repository.ByEmployee, employeeID, h.now())
	if err != nil {
		storeFailed(c, err, "employee_guard_failed")
		return false
	}
	if busy {
		httperr.BadRequest(c, "employee_in_use", "Employee is assigned to upcoming appointments.")
		return false
	}
	return true
}

// nameTaken checks all active employees, ignoring case.
func (h *EmployeeHandler) nameTaken(name string, excludeID uint) (bool, error) {
	q := h.db.Model(&models.Employee{}).
		Where("is_active = ? AND LOWER(name) = LOWER(?)", true, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// find loads the employee visible to caller. Shared employees can be read
// by anyone but only changed by admins.
func (h *EmployeeHandler) find(c *gin.Context, caller access.Caller, write bool) (*models.Employee, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "employee_not_found", "Employee not found.")
			return nil, false
		}
		storeFailed(c, err, "get_employee_failed")
		return nil, false
	}

	required := ""
	if write && employee.OwnerID == nil {
		required = models.RoleAdmin
	}
	if err := access.Authorize(caller, employee.OwnerID, required); err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &employee, true
}

func ownerOf(e *models.Employee) uint {
	if e.OwnerID == nil {
		return 0
	}
	return *e.OwnerID
}
