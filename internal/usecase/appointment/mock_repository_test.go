package appointment

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetClientForOwner(ctx context.Context, ownerID, clientID uint) (*models.Client, error) {
	args := m.Called(ctx, ownerID, clientID)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *mockRepo) GetServiceForOwner(ctx context.Context, ownerID, serviceID uint) (*models.Service, error) {
	args := m.Called(ctx, ownerID, serviceID)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *mockRepo) GetEmployee(ctx context.Context, employeeID uint) (*models.Employee, error) {
	args := m.Called(ctx, employeeID)
	e, _ := args.Get(0).(*models.Employee)
	return e, args.Error(1)
}

func (m *mockRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	args := m.Called(ctx, ap)
	return args.Error(0)
}

func (m *mockRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	args := m.Called(ctx, ap)
	return args.Error(0)
}

func (m *mockRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Appointment)
	return a, args.Error(1)
}

func (m *mockRepo) ListAppointments(ctx context.Context, f domain.Filter) ([]models.Appointment, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Appointment)
	return list, args.Error(1)
}

func (m *mockRepo) DeleteAppointment(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ domain.Repository = (*mockRepo)(nil)
