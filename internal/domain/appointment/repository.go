package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Filter narrows an appointment listing. Nil fields are ignored.
type Filter struct {
	OwnerID    *uint
	Status     *Status
	EmployeeID *uint
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	// -------- References --------
	GetClientForOwner(ctx context.Context, ownerID, clientID uint) (*models.Client, error)
	GetServiceForOwner(ctx context.Context, ownerID, serviceID uint) (*models.Service, error)
	GetEmployee(ctx context.Context, employeeID uint) (*models.Employee, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment checks the slot and inserts in one transaction.
	// A taken slot yields the "time_conflict" business error.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// UpdateAppointment is CreateAppointment's counterpart for existing rows;
	// the row itself is excluded from the slot check.
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Appointment (read / delete) --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f Filter) ([]models.Appointment, error)
	DeleteAppointment(ctx context.Context, id uint) error
}
