package appointment

import "github.com/BruksfildServices01/salon-manager/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted},
	StatusCompleted: {},
}

// ===============================
// Validations
// ===============================

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return s, nil
}

// CanTransition accepts staying in the same status as a no-op.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_status_transition")
}

func InitialStatus() Status {
	return StatusPending
}
