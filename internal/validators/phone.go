package validators

import "strings"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone drops the usual visual separators.
func NormalizePhone(raw string) string {
	return phoneSeparators.Replace(strings.TrimSpace(raw))
}

// IsPhone accepts 3 to 20 digits with an optional leading plus sign.
func IsPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 3 || len(digits) > 20 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
