package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname"`
	Phone   string `json:"phone" binding:"required"`
	Notes   string `json:"notes"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ======================================================
// LIST
// ======================================================

// List returns the caller's clients with their appointments. An optional
// ?query= matches name, surname or phone.
func (h *ClientHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	q := scopeOwner(h.db.Model(&models.Client{}), caller)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		storeFailed(c, err, "list_clients_failed")
		return
	}

	httpresp.List(c, "clients", clients, "No clients registered yet.")
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client := models.Client{
		OwnerID: caller.ID,
		Name:    validators.Clean(req.Name),
		Surname: validators.Clean(req.Surname),
		Phone:   validators.NormalizePhone(req.Phone),
		Notes:   strings.TrimSpace(req.Notes),
	}

	if !requireFields(c, validators.Missing("name", client.Name, "phone", client.Phone)) {
		return
	}
	if !validators.IsPhone(client.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Phone must contain between 3 and 20 digits.")
		return
	}

	if err := h.db.Omit(clause.Associations).Create(&client).Error; err != nil {
		storeFailed(c, err, "create_client_failed")
		return
	}

	record(h.audit, caller, client.OwnerID, "client_created", "client", client.ID, nil)
	httpresp.Created(c, "Client created.", "client", client)
}

// ======================================================
// GET ONE
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	client, ok := h.find(c, caller, true)
	if !ok {
		return
	}

	httpresp.OK(c, "Client retrieved.", "client", client)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	client, ok := h.find(c, caller, false)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := validators.Clean(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		client.Name = name
	}
	if req.Surname != nil {
		client.Surname = validators.Clean(*req.Surname)
	}
	if req.Phone != nil {
		phone := validators.NormalizePhone(*req.Phone)
		if !validators.IsPhone(phone) {
			httperr.BadRequest(c, "invalid_phone", "Phone must contain between 3 and 20 digits.")
			return
		}
		client.Phone = phone
	}
	if req.Notes != nil {
		client.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := h.db.Omit(clause.Associations).Save(client).Error; err != nil {
		storeFailed(c, err, "update_client_failed")
		return
	}

	record(h.audit, caller, client.OwnerID, "client_updated", "client", client.ID, nil)
	httpresp.OK(c, "Client updated.", "client", client)
}

// ======================================================
// DELETE
// ======================================================

// Delete refuses while any appointment, past or future, references the client.
func (h *ClientHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	client, ok := h.find(c, caller, false)
	if !ok {
		return
	}

	busy, err := repository.HasAppointments(c.Request.Context(), h.db, repository.ByClient, client.ID)
	if err != nil {
		storeFailed(c, err, "delete_client_failed")
		return
	}
	if busy {
		httperr.BadRequest(c, "client_has_appointments", "client has pending appointments")
		return
	}

	if err := h.db.Delete(&models.Client{}, client.ID).Error; err != nil {
		storeFailed(c, err, "delete_client_failed")
		return
	}

	record(h.audit, caller, client.OwnerID, "client_deleted", "client", client.ID, nil)
	httpresp.Message(c, "Client deleted.")
}

// --------- Lookups ---------

func (h *ClientHandler) find(c *gin.Context, caller access.Caller, withAppointments bool) (*models.Client, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	q := h.db
	if withAppointments {
		q = q.Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		})
	}

	var client models.Client
	if err := q.First(&client, id).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return nil, false
		}
		storeFailed(c, err, "get_client_failed")
		return nil, false
	}

	if err := access.AuthorizeOwned(caller, client.OwnerID); err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &client, true
}
