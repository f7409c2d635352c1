package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClientForOwner(
	ctx context.Context,
	ownerID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", clientID, ownerID).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetServiceForOwner(
	ctx context.Context,
	ownerID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND is_active = ?", serviceID, ownerID, true).
		First(&service).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetEmployee(
	ctx context.Context,
	employeeID uint,
) (*models.Employee, error) {

	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, ap.SlotKey, 0); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(ap).Error
	})
	return translate(err)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, ap.SlotKey, ap.ID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(ap).Error
	})
	return translate(err)
}

func assertSlotFree(tx *gorm.DB, slotKey string, excludeID uint) error {
	q := tx.Model(&models.Appointment{}).Where("slot_key = ?", slotKey)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}
	return nil
}

// --------------------------------------------------
// Appointment (read / delete)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := withRelations(r.db.WithContext(ctx)).First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := withRelations(r.db.WithContext(ctx))

	where, args, err := filterSQL(f)
	if err != nil {
		return nil, err
	}
	if where != "" {
		q = q.Where(where, args...)
	}

	var apps []models.Appointment
	if err := q.Order("date DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// filterSQL renders the conjunction of every set field of f.
func filterSQL(f domain.Filter) (string, []interface{}, error) {
	conds := sq.And{}

	if f.OwnerID != nil {
		conds = append(conds, sq.Eq{"owner_id": *f.OwnerID})
	}
	if f.Status != nil {
		conds = append(conds, sq.Eq{"status": string(*f.Status)})
	}
	if f.EmployeeID != nil {
		conds = append(conds, sq.Eq{"employee_id": *f.EmployeeID})
	}
	if f.From != nil {
		conds = append(conds, sq.GtOrEq{"date": f.From.UTC()})
	}
	if f.To != nil {
		conds = append(conds, sq.LtOrEq{"date": f.To.UTC()})
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	where, args, err := conds.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build appointment filter: %w", err)
	}
	return where, args, nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Preload("Owner")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// translate turns a lost race on the slot unique index into the same
// business error the explicit check returns.
func translate(err error) error {
	if err != nil && IsUniqueViolation(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
