package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Reference columns an appointment can be looked up by.
const (
	ByService  = "service_id"
	ByEmployee = "employee_id"
	ByOwner    = "owner_id"
	ByClient   = "client_id"
)

// HasFutureAppointments reports whether an appointment dated at or after now
// references id through column.
func HasFutureAppointments(ctx context.Context, db *gorm.DB, column string, id uint, now time.Time) (bool, error) {
	return hasAppointments(ctx, db, column, id, &now)
}

// HasAppointments ignores dates entirely.
func HasAppointments(ctx context.Context, db *gorm.DB, column string, id uint) (bool, error) {
	return hasAppointments(ctx, db, column, id, nil)
}

func hasAppointments(ctx context.Context, db *gorm.DB, column string, id uint, since *time.Time) (bool, error) {
	switch column {
	case ByService, ByEmployee, ByOwner, ByClient:
	default:
		return false, fmt.Errorf("unsupported appointment reference %q", column)
	}

	q := db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(column+" = ?", id)
	if since != nil {
		q = q.Where("date >= ?", since.UTC())
	}

	var count int64
	if err := q.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
