package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Get counts the caller's clients and appointments; admins get system-wide
// numbers.
func (h *DashboardHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	stats, err := h.stats(caller)
	if err != nil {
		storeFailed(c, err, "dashboard_failed")
		return
	}

	httpresp.OK(c, "Dashboard statistics retrieved.", "stats", stats)
}

func (h *DashboardHandler) stats(caller access.Caller) (dto.DashboardStats, error) {
	var s dto.DashboardStats

	if err := scopeOwner(h.db.Model(&models.Client{}), caller).
		Count(&s.TotalClients).Error; err != nil {
		return s, err
	}

	appointments := func() *gorm.DB {
		return scopeOwner(h.db.Model(&models.Appointment{}), caller)
	}

	if err := appointments().Count(&s.AllAppointments).Error; err != nil {
		return s, err
	}
	if err := appointments().
		Where("status = ?", string(domain.StatusCompleted)).
		Count(&s.CompletedAppointments).Error; err != nil {
		return s, err
	}
	if err := appointments().
		Where("status = ?", string(domain.StatusPending)).
		Count(&s.PendingAppointments).Error; err != nil {
		return s, err
	}

	return s, nil
}
