package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, caller.ID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		storeFailed(c, err, "me_failed")
		return
	}

	httpresp.OK(c, "Profile retrieved.", "user", user)
}
