package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Caller access.Caller

	ClientID   uint
	ServiceID  *uint
	EmployeeID *uint

	Date        time.Time
	Description string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	rules domain.Rules
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	rules domain.Rules,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		rules: rules,
		audit: audit,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	ownerID := in.Caller.ID

	// --------------------------------------------------
	// Required references
	// --------------------------------------------------
	if uc.rules.RequireService && in.ServiceID == nil {
		return nil, httperr.NewBadRequest("missing_fields", "serviceId is required.")
	}
	if uc.rules.RequireEmployee && in.EmployeeID == nil {
		return nil, httperr.NewBadRequest("missing_fields", "employeeId is required.")
	}

	// --------------------------------------------------
	// Date
	// --------------------------------------------------
	if uc.rules.RejectPastDates && domain.IsPast(in.Date, uc.now()) {
		return nil, httperr.ErrBusiness("past_date")
	}

	// --------------------------------------------------
	// Ownership of references
	// --------------------------------------------------
	if err := verifyClient(ctx, uc.repo, ownerID, in.ClientID); err != nil {
		return nil, err
	}
	if in.ServiceID != nil {
		if err := verifyService(ctx, uc.repo, ownerID, *in.ServiceID); err != nil {
			return nil, err
		}
	}
	if in.EmployeeID != nil {
		if err := verifyEmployee(ctx, uc.repo, ownerID, *in.EmployeeID, in.Caller.IsAdmin()); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Conflict check + insert
	// --------------------------------------------------
	ap := &models.Appointment{
		OwnerID:     ownerID,
		ClientID:    in.ClientID,
		ServiceID:   in.ServiceID,
		EmployeeID:  in.EmployeeID,
		Date:        in.Date,
		Status:      string(domain.InitialStatus()),
		Description: strings.TrimSpace(in.Description),
	}
	domain.Assign(ap, uc.rules)

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				OwnerID:  ownerID,
				UserID:   &in.Caller.ID,
				Action:   "appointment_conflict",
				Entity:   "appointment",
				Metadata: map[string]any{"date": ap.Date},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &in.Caller.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}
