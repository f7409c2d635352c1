package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/domain/access"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type FilterInput struct {
	Caller access.Caller

	Status     string
	EmployeeID *uint
	From       *time.Time
	To         *time.Time
}

type FilterAppointments struct {
	repo domain.Repository
}

func NewFilterAppointments(repo domain.Repository) *FilterAppointments {
	return &FilterAppointments{repo: repo}
}

func (uc *FilterAppointments) Execute(
	ctx context.Context,
	in FilterInput,
) ([]models.Appointment, error) {

	f := domain.Filter{
		OwnerID:    in.Caller.ScopeOwner(),
		EmployeeID: in.EmployeeID,
		From:       in.From,
		To:         in.To,
	}

	if raw := strings.TrimSpace(in.Status); raw != "" {
		status, err := domain.ParseStatus(strings.ToLower(raw))
		if err != nil {
			return nil, err
		}
		f.Status = &status
	}

	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, httperr.NewBadRequest("invalid_date_range", "startDate must not be after endDate.")
	}

	return uc.repo.ListAppointments(ctx, f)
}
