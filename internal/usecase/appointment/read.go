package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	id uint,
) (*models.Appointment, error) {

	ap, err := load(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwned(caller, ap.OwnerID); err != nil {
		return nil, err
	}
	return ap, nil
}

// ListAppointments returns the caller's appointments, newest first. Admins
// get every appointment.
type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	caller access.Caller,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointments(ctx, domain.Filter{OwnerID: caller.ScopeOwner()})
}
