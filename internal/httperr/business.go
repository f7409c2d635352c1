package httperr

import "errors"

// BusinessError is a domain rule violation identified by a stable code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func (e BusinessError) Message() string {
	if m, ok := businessMessages[e.Code]; ok {
		return m
	}
	return "Request rejected."
}

var businessMessages = map[string]string{
	"time_conflict":             "An appointment already exists at that date and time.",
	"invalid_status":            "Unknown appointment status.",
	"invalid_status_transition": "Appointment status cannot change that way.",
	"past_date":                 "Appointments cannot be booked in the past.",
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
