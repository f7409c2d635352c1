package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute hard-deletes regardless of status.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	caller access.Caller,
	id uint,
) error {

	ap, err := load(ctx, uc.repo, id)
	if err != nil {
		return err
	}
	if err := access.AuthorizeOwned(caller, ap.OwnerID); err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ap.OwnerID,
		UserID:   &caller.ID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	return nil
}
