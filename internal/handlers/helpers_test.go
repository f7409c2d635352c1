package handlers_test

import (
	"fmt"
	"time"
)

var future = time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)

// idString renders a JSON-decoded id for use in a path.
func idString(v any) string {
	switch id := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int64(id))
	case uint:
		return fmt.Sprintf("%d", id)
	default:
		return fmt.Sprint(v)
	}
}
