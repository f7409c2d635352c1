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

// UpdateInput carries only the fields the client sent.
type UpdateInput struct {
	Caller access.Caller
	ID     uint

	ClientID   *uint
	ServiceID  *uint
	EmployeeID *uint

	Date        *time.Time
	Status      *string
	Description *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	rules domain.Rules
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	rules domain.Rules,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		rules: rules,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateInput,
) (*models.Appointment, error) {

	ap, err := load(ctx, uc.repo, in.ID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwned(in.Caller, ap.OwnerID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Status
	// --------------------------------------------------
	if in.Status != nil {
		next, err := domain.ParseStatus(strings.TrimSpace(*in.Status))
		if err != nil {
			return nil, err
		}
		if err := domain.CanTransition(domain.Status(ap.Status), next); err != nil {
			return nil, err
		}
		ap.Status = string(next)
	}

	// --------------------------------------------------
	// References
	// --------------------------------------------------
	if in.ClientID != nil && *in.ClientID != ap.ClientID {
		if err := verifyClient(ctx, uc.repo, ap.OwnerID, *in.ClientID); err != nil {
			return nil, err
		}
		ap.ClientID = *in.ClientID
	}
	if in.ServiceID != nil && !sameRef(ap.ServiceID, *in.ServiceID) {
		if err := verifyService(ctx, uc.repo, ap.OwnerID, *in.ServiceID); err != nil {
			return nil, err
		}
		ap.ServiceID = in.ServiceID
	}
	if in.EmployeeID != nil && !sameRef(ap.EmployeeID, *in.EmployeeID) {
		if err := verifyEmployee(ctx, uc.repo, ap.OwnerID, *in.EmployeeID, in.Caller.IsAdmin()); err != nil {
			return nil, err
		}
		ap.EmployeeID = in.EmployeeID
	}

	// --------------------------------------------------
	// Date
	// --------------------------------------------------
	if in.Date != nil && !in.Date.Equal(ap.Date) {
		if uc.rules.RejectPastDates && domain.IsPast(*in.Date, uc.now()) {
			return nil, httperr.ErrBusiness("past_date")
		}
		ap.Date = *in.Date
	}

	if in.Description != nil {
		ap.Description = strings.TrimSpace(*in.Description)
	}

	// --------------------------------------------------
	// Conflict check (excluding self) + save
	// --------------------------------------------------
	ap.Client, ap.Service, ap.Employee, ap.Owner = nil, nil, nil, nil
	domain.Assign(ap, uc.rules)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ap.OwnerID,
		UserID:   &in.Caller.ID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}

func sameRef(current *uint, next uint) bool {
	return current != nil && *current == next
}
