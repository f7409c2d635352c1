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

const minNameLen = 3

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit, now: time.Now}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string         `json:"name" binding:"required"`
	Price           *dto.FlexFloat `json:"price" binding:"required,gte=0"`
	DurationMinutes *dto.FlexInt   `json:"durationMinutes" binding:"required,min=5"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
}

type UpdateServiceRequest struct {
	Name            *string        `json:"name,omitempty"`
	Price           *dto.FlexFloat `json:"price,omitempty" binding:"omitempty,gte=0"`
	DurationMinutes *dto.FlexInt   `json:"durationMinutes,omitempty" binding:"omitempty,min=5"`
	Category        *string        `json:"category,omitempty"`
	Description     *string        `json:"description,omitempty"`
	IsActive        *dto.FlexBool  `json:"isActive,omitempty"`
}

// --------- Handlers ---------

// List returns active services ordered by name; ?all=true includes inactive ones.
func (h *ServiceHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	q := scopeOwner(h.db.Model(&models.Service{}), caller)

	if !wantAll(c) {
		q = q.Where("is_active = ?", true)
	}
	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		storeFailed(c, err, "list_services_failed")
		return
	}

	httpresp.List(c, "services", services, "No services registered yet.")
}

func (h *ServiceHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service := models.Service{
		OwnerID:         caller.ID,
		Name:            validators.Clean(req.Name),
		Price:           float64(*req.Price),
		DurationMinutes: int(*req.DurationMinutes),
		Category:        strings.TrimSpace(req.Category),
		Description:     strings.TrimSpace(req.Description),
		IsActive:        true,
	}
	if !validateService(c, &service) {
		return
	}

	taken, err := h.nameTaken(service.OwnerID, service.Name, 0)
	if err != nil {
		storeFailed(c, err, "create_service_failed")
		return
	}
	if taken {
		httperr.BadRequest(c, "service_name_taken", "An active service with this name already exists.")
		return
	}

	if err := h.db.Create(&service).Error; err != nil {
		storeFailed(c, err, "create_service_failed")
		return
	}

	record(h.audit, caller, service.OwnerID, "service_created", "service", service.ID, nil)
	httpresp.Created(c, "Service created.", "service", service)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	service, ok := h.find(c, caller)
	if !ok {
		return
	}

	httpresp.OK(c, "Service retrieved.", "service", service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	service, ok := h.find(c, caller)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	wasActive := service.IsActive
	oldName := service.Name

	if req.Name != nil {
		service.Name = validators.Clean(*req.Name)
	}
	if req.Price != nil {
		service.Price = float64(*req.Price)
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = int(*req.DurationMinutes)
	}
	if req.Category != nil {
		service.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		service.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		service.IsActive = bool(*req.IsActive)
	}

	if !validateService(c, service) {
		return
	}

	renamed := !strings.EqualFold(oldName, service.Name)
	reactivated := service.IsActive && !wasActive
	if service.IsActive && (renamed || reactivated) {
		taken, err := h.nameTaken(service.OwnerID, service.Name, service.ID)
		if err != nil {
			storeFailed(c, err, "update_service_failed")
			return
		}
		if taken {
			httperr.BadRequest(c, "service_name_taken", "An active service with this name already exists.")
			return
		}
	}

	if wasActive && !service.IsActive && !h.free(c, service.ID) {
		return
	}

	if err := h.db.Save(service).Error; err != nil {
		storeFailed(c, err, "update_service_failed")
		return
	}

	record(h.audit, caller, service.OwnerID, "service_updated", "service", service.ID, nil)
	httpresp.OK(c, "Service updated.", "service", service)
}

// Delete deactivates the service; history keeps pointing at it.
func (h *ServiceHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	service, ok := h.find(c, caller)
	if !ok {
		return
	}

	if !h.free(c, service.ID) {
		return
	}

	if err := h.db.Model(service).Update("is_active", false).Error; err != nil {
		storeFailed(c, err, "deactivate_service_failed")
		return
	}
	service.IsActive = false

	record(h.audit, caller, service.OwnerID, "service_deactivated", "service", service.ID, nil)
	httpresp.OK(c, "Service deactivated.", "service", service)
}

func (h *ServiceHandler) Reactivate(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	service, ok := h.find(c, caller)
	if !ok {
		return
	}

	if service.IsActive {
		httpresp.OK(c, "Service is already active.", "service", service)
		return
	}

	taken, err := h.nameTaken(service.OwnerID, service.Name, service.ID)
	if err != nil {
		storeFailed(c, err, "reactivate_service_failed")
		return
	}
	if taken {
		httperr.BadRequest(c, "service_name_taken", "An active service with this name already exists.")
		return
	}

	if err := h.db.Model(service).Update("is_active", true).Error; err != nil {
		storeFailed(c, err, "reactivate_service_failed")
		return
	}
	service.IsActive = true

	record(h.audit, caller, service.OwnerID, "service_reactivated", "service", service.ID, nil)
	httpresp.OK(c, "Service reactivated.", "service", service)
}

// --------- Rules ---------

// validateService checks the name once trimmed; price and duration bounds
// live on the request tags.
func validateService(c *gin.Context, s *models.Service) bool {
	if !validators.MinLen(s.Name, minNameLen) {
		httperr.BadRequest(c, "invalid_name", "Name must have at least 3 characters.")
		return false
	}
	return true
}

// nameTaken checks the owner's active services, ignoring case.
func (h *ServiceHandler) nameTaken(ownerID uint, name string, excludeID uint) (bool, error) {
	q := h.db.Model(&models.Service{}).
		Where("owner_id = ? AND is_active = ? AND LOWER(name) = LOWER(?)", ownerID, true, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// free aborts with 400 when an upcoming appointment still uses the service.
func (h *ServiceHandler) free(c *gin.Context, serviceID uint) bool {
	busy, err := repository.HasFutureAppointments(c.Request.Context(), h.db, repository.ByService, serviceID, h.now())
	if err != nil {
		storeFailed(c, err, "service_guard_failed")
		return false
	}
	if busy {
		httperr.BadRequest(c, "service_in_use", "Service is booked in upcoming appointments.")
		return false
	}
	return true
}

func (h *ServiceHandler) find(c *gin.Context, caller access.Caller) (*models.Service, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.First(&service, id).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
		storeFailed(c, err, "get_service_failed")
		return nil, false
	}

	if err := access.AuthorizeOwned(caller, service.OwnerID); err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &service, true
}
