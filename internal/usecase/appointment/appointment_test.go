package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

var (
	ctx   = context.Background()
	alice = access.Caller{ID: 2, Username: "alice", Role: models.RoleUser}
	bob   = access.Caller{ID: 3, Username: "bob", Role: models.RoleUser}
	admin = access.Caller{ID: 1, Username: "admin", Role: models.RoleAdmin}

	fixedNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	future   = time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)

	defaultRules = domain.Rules{
		RequireService:          false,
		EmployeeScopedConflicts: true,
		RejectPastDates:         true,
	}
)

func uptr(v uint) *uint { return &v }

func kindOf(err error) httperr.Kind {
	var he *httperr.Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return httperr.KindInternal
}

func newCreate(repo *mockRepo, rules domain.Rules) *CreateAppointment {
	uc := NewCreateAppointment(repo, rules, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestCreateAppointment(t *testing.T) {
	t.Run("books and reloads", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetClientForOwner", ctx, alice.ID, uint(10)).Return(&models.Client{ID: 10}, nil)
		repo.On("CreateAppointment", ctx, mock.AnythingOfType("*models.Appointment")).
			Run(func(args mock.Arguments) {
				ap := args.Get(1).(*models.Appointment)
				ap.ID = 99
			}).Return(nil)
		repo.On("GetAppointment", ctx, uint(99)).Return(&models.Appointment{ID: 99, OwnerID: alice.ID}, nil)

		ap, err := newCreate(repo, defaultRules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     future,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(99), ap.ID)

		created := repo.Calls[1].Arguments.Get(1).(*models.Appointment)
		assert.Equal(t, alice.ID, created.OwnerID)
		assert.Equal(t, string(domain.StatusPending), created.Status)
		assert.Equal(t, domain.SlotKey(alice.ID, future, nil, true), created.SlotKey)
		repo.AssertExpectations(t)
	})

	t.Run("past date", func(t *testing.T) {
		repo := new(mockRepo)
		_, err := newCreate(repo, defaultRules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     fixedNow.Add(-time.Minute),
		})
		assert.True(t, httperr.IsBusiness(err, "past_date"))
		repo.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})

	t.Run("past date allowed when rule is off", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetClientForOwner", ctx, alice.ID, uint(10)).Return(&models.Client{ID: 10}, nil)
		repo.On("CreateAppointment", ctx, mock.Anything).Return(nil)
		repo.On("GetAppointment", ctx, uint(0)).Return(&models.Appointment{}, nil)

		rules := defaultRules
		rules.RejectPastDates = false
		_, err := newCreate(repo, rules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     fixedNow.Add(-time.Hour),
		})
		assert.NoError(t, err)
	})

	t.Run("service required", func(t *testing.T) {
		rules := defaultRules
		rules.RequireService = true
		_, err := newCreate(new(mockRepo), rules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     future,
		})
		assert.Equal(t, httperr.KindBadRequest, kindOf(err))
	})

	t.Run("foreign client", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetClientForOwner", ctx, alice.ID, uint(10)).Return(nil, domain.ErrNotFound)

		_, err := newCreate(repo, defaultRules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     future,
		})
		assert.Equal(t, httperr.KindBadRequest, kindOf(err))
	})

	t.Run("employee rules", func(t *testing.T) {
		cases := []struct {
			name string
			emp  *models.Employee
			err  error
			code string
		}{
			{"missing", nil, domain.ErrNotFound, "employee_not_found"},
			{"inactive", &models.Employee{ID: 5, IsActive: false}, nil, "employee_inactive"},
			{"someone else's", &models.Employee{ID: 5, IsActive: true, OwnerID: uptr(bob.ID)}, nil, "employee_not_found"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(mockRepo)
				repo.On("GetClientForOwner", ctx, alice.ID, uint(10)).Return(&models.Client{ID: 10}, nil)
				repo.On("GetEmployee", ctx, uint(5)).Return(tc.emp, tc.err)

				_, err := newCreate(repo, defaultRules).Execute(ctx, CreateInput{
					Caller:     alice,
					ClientID:   10,
					EmployeeID: uptr(5),
					Date:       future,
				})
				var he *httperr.Error
				require.ErrorAs(t, err, &he)
				assert.Equal(t, tc.code, he.Code)
			})
		}
	})

	t.Run("slot taken", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetClientForOwner", ctx, alice.ID, uint(10)).Return(&models.Client{ID: 10}, nil)
		repo.On("CreateAppointment", ctx, mock.Anything).Return(httperr.ErrBusiness("time_conflict"))

		_, err := newCreate(repo, defaultRules).Execute(ctx, CreateInput{
			Caller:   alice,
			ClientID: 10,
			Date:     future,
		})
		assert.True(t, httperr.IsBusiness(err, "time_conflict"))
		repo.AssertNotCalled(t, "GetAppointment", mock.Anything, mock.Anything)
	})
}

func TestUpdateAppointment(t *testing.T) {
	existing := func(status domain.Status) *models.Appointment {
		return &models.Appointment{
			ID:       7,
			OwnerID:  alice.ID,
			ClientID: 10,
			Date:     future,
			Status:   string(status),
		}
	}

	newUpdate := func(repo *mockRepo) *UpdateAppointment {
		uc := NewUpdateAppointment(repo, defaultRules, nil)
		uc.now = func() time.Time { return fixedNow }
		return uc
	}

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(nil, domain.ErrNotFound)

		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: alice, ID: 7})
		assert.Equal(t, httperr.KindNotFound, kindOf(err))
	})

	t.Run("not owner", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(existing(domain.StatusPending), nil)

		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: bob, ID: 7})
		assert.Equal(t, httperr.KindForbidden, kindOf(err))
	})

	t.Run("completed cannot go back", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(existing(domain.StatusCompleted), nil)

		status := "pending"
		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: alice, ID: 7, Status: &status})
		assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(existing(domain.StatusPending), nil)

		status := "cancelled"
		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: alice, ID: 7, Status: &status})
		assert.True(t, httperr.IsBusiness(err, "invalid_status"))
	})

	t.Run("admin completes and moves", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(existing(domain.StatusPending), nil)
		repo.On("UpdateAppointment", ctx, mock.AnythingOfType("*models.Appointment")).Return(nil)

		status := "completed"
		moved := future.Add(time.Hour)
		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: admin, ID: 7, Status: &status, Date: &moved})
		require.NoError(t, err)

		saved := repo.Calls[1].Arguments.Get(1).(*models.Appointment)
		assert.Equal(t, string(domain.StatusCompleted), saved.Status)
		assert.Equal(t, domain.SlotKey(alice.ID, moved, nil, true), saved.SlotKey)
	})

	t.Run("moved into the past", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetAppointment", ctx, uint(7)).Return(existing(domain.StatusPending), nil)

		past := fixedNow.Add(-time.Hour)
		_, err := newUpdate(repo).Execute(ctx, UpdateInput{Caller: alice, ID: 7, Date: &past})
		assert.True(t, httperr.IsBusiness(err, "past_date"))
	})
}

func TestFilterAppointments(t *testing.T) {
	t.Run("scoped to caller", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListAppointments", ctx, mock.MatchedBy(func(f domain.Filter) bool {
			return f.OwnerID != nil && *f.OwnerID == alice.ID &&
				f.Status != nil && *f.Status == domain.StatusCompleted
		})).Return([]models.Appointment{}, nil)

		_, err := NewFilterAppointments(repo).Execute(ctx, FilterInput{Caller: alice, Status: "Completed"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("admin unscoped", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListAppointments", ctx, domain.Filter{}).Return([]models.Appointment{}, nil)

		_, err := NewFilterAppointments(repo).Execute(ctx, FilterInput{Caller: admin})
		require.NoError(t, err)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := NewFilterAppointments(new(mockRepo)).Execute(ctx, FilterInput{Caller: alice, Status: "later"})
		assert.True(t, httperr.IsBusiness(err, "invalid_status"))
	})

	t.Run("inverted range", func(t *testing.T) {
		from, to := future, future.Add(-time.Hour)
		_, err := NewFilterAppointments(new(mockRepo)).Execute(ctx, FilterInput{Caller: alice, From: &from, To: &to})
		assert.Equal(t, httperr.KindBadRequest, kindOf(err))
	})
}

func TestDeleteAppointment(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetAppointment", ctx, uint(7)).Return(&models.Appointment{ID: 7, OwnerID: alice.ID}, nil)
	repo.On("DeleteAppointment", ctx, uint(7)).Return(nil)

	uc := NewDeleteAppointment(repo, nil)

	err := uc.Execute(ctx, bob, 7)
	assert.Equal(t, httperr.KindForbidden, kindOf(err))
	repo.AssertNotCalled(t, "DeleteAppointment", ctx, uint(7))

	require.NoError(t, uc.Execute(ctx, alice, 7))
	repo.AssertCalled(t, "DeleteAppointment", ctx, uint(7))
}
