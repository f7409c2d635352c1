package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	update *ucAppointment.UpdateAppointment
	get    *ucAppointment.GetAppointment
	list   *ucAppointment.ListAppointments
	filter *ucAppointment.FilterAppointments
	remove *ucAppointment.DeleteAppointment

	// loc reads dates sent without an offset.
	loc *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
	filter *ucAppointment.FilterAppointments,
	remove *ucAppointment.DeleteAppointment,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		get:    get,
		list:   list,
		filter: filter,
		remove: remove,
		loc:    loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date        string      `json:"date" binding:"required"`
	ClientID    *dto.FlexID `json:"clientId" binding:"required"`
	ServiceID   *dto.FlexID `json:"serviceId"`
	EmployeeID  *dto.FlexID `json:"employeeId"`
	Description string      `json:"description"`
}

type UpdateAppointmentRequest struct {
	Date        *string     `json:"date,omitempty"`
	ClientID    *dto.FlexID `json:"clientId,omitempty"`
	ServiceID   *dto.FlexID `json:"serviceId,omitempty"`
	EmployeeID  *dto.FlexID `json:"employeeId,omitempty"`
	Status      *string     `json:"status,omitempty"`
	Description *string     `json:"description,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	if !requireFields(c, validators.Missing("date", req.Date)) {
		return
	}

	date, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateInput{
		Caller:      caller,
		ClientID:    req.ClientID.Uint(),
		ServiceID:   req.ServiceID.Ptr(),
		EmployeeID:  req.EmployeeID.Ptr(),
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "Appointment created.", "appointment", ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	apps, err := h.list.Execute(c.Request.Context(), caller)
	if err != nil {
		storeFailed(c, err, "list_appointments_failed")
		return
	}

	httpresp.List(c, "appointments", apps, "No appointments scheduled yet.")
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), caller, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "Appointment retrieved.", "appointment", ap)
}

// Filter accepts status, employeeId, startDate and endDate. A bare endDate
// day includes the whole day.
func (h *AppointmentHandler) Filter(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	in := ucAppointment.FilterInput{
		Caller: caller,
		Status: c.Query("status"),
	}

	if raw := strings.TrimSpace(c.Query("employeeId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			httperr.BadRequest(c, "invalid_employee_id", "employeeId must be a positive integer.")
			return
		}
		emp := uint(id)
		in.EmployeeID = &emp
	}

	var valid bool
	if in.From, valid = h.bound(c, "startDate", false); !valid {
		return
	}
	if in.To, valid = h.bound(c, "endDate", true); !valid {
		return
	}

	apps, err := h.filter.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, "appointments", apps, "No appointments match the given filters.")
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucAppointment.UpdateInput{
		Caller:      caller,
		ID:          id,
		ClientID:    req.ClientID.Ptr(),
		ServiceID:   req.ServiceID.Ptr(),
		EmployeeID:  req.EmployeeID.Ptr(),
		Status:      req.Status,
		Description: req.Description,
	}

	if req.Date != nil {
		date, ok := h.parseDate(c, *req.Date)
		if !ok {
			return
		}
		in.Date = &date
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "Appointment updated.", "appointment", ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), caller, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Appointment deleted.")
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) parseDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := timezone.ParseDateTime(validators.Clean(raw), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be RFC3339 or YYYY-MM-DD HH:MM.")
		return time.Time{}, false
	}
	return date, true
}

func (h *AppointmentHandler) bound(c *gin.Context, param string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return nil, true
	}

	t, err := timezone.ParseBound(raw, h.loc, endOfDay)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", param+" must be RFC3339 or YYYY-MM-DD.")
		return nil, false
	}
	return &t, true
}
