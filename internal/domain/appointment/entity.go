package appointment

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Rules selects which booking checks are enforced by this deployment.
type Rules = config.AppointmentRules

// SlotKey identifies the booking slot an appointment occupies. Two
// appointments with the same key collide. The date is normalized to UTC so
// the same instant always yields the same key.
func SlotKey(ownerID uint, date time.Time, employeeID *uint, employeeScoped bool) string {
	emp := "*"
	if employeeScoped {
		emp = "-"
		if employeeID != nil {
			emp = strconv.FormatUint(uint64(*employeeID), 10)
		}
	}
	return fmt.Sprintf("%d|%s|%s", ownerID, date.UTC().Format(time.RFC3339Nano), emp)
}

// Assign applies the slot key for the appointment's current owner, date and employee.
func Assign(ap *models.Appointment, rules Rules) {
	ap.Date = ap.Date.UTC()
	ap.SlotKey = SlotKey(ap.OwnerID, ap.Date, ap.EmployeeID, rules.EmployeeScopedConflicts)
}

// IsPast reports whether date lies strictly before now.
func IsPast(date, now time.Time) bool {
	return date.Before(now)
}
