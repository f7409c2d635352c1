package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Reference checks shared by create and update. Every reference is
// verified against the appointment owner, not the caller.

func verifyClient(ctx context.Context, repo domain.Repository, ownerID, clientID uint) error {
	_, err := repo.GetClientForOwner(ctx, ownerID, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NewBadRequest("client_not_found", "Client does not exist or does not belong to you.")
	}
	return err
}

func verifyService(ctx context.Context, repo domain.Repository, ownerID, serviceID uint) error {
	_, err := repo.GetServiceForOwner(ctx, ownerID, serviceID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NewBadRequest("service_not_found", "Service does not exist, is inactive or does not belong to you.")
	}
	return err
}

// verifyEmployee accepts active employees that are shared or belong to
// ownerID. Admin callers may book any active employee.
func verifyEmployee(ctx context.Context, repo domain.Repository, ownerID, employeeID uint, admin bool) error {
	emp, err := repo.GetEmployee(ctx, employeeID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NewBadRequest("employee_not_found", "Employee does not exist.")
	}
	if err != nil {
		return err
	}

	if !visibleTo(emp, ownerID, admin) {
		return httperr.NewBadRequest("employee_not_found", "Employee does not exist.")
	}
	if !emp.IsActive {
		return httperr.NewBadRequest("employee_inactive", "Employee is inactive.")
	}
	return nil
}

func visibleTo(emp *models.Employee, ownerID uint, admin bool) bool {
	return admin || emp.OwnerID == nil || *emp.OwnerID == ownerID
}

func load(ctx context.Context, repo domain.Repository, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("appointment_not_found", "Appointment not found.")
	}
	return ap, err
}
