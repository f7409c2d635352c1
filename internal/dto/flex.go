package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clients send numbers both as JSON numbers and as numeric strings. The
// Flex types accept either and reject everything else at bind time.

// FlexID is a positive integer identifier.
type FlexID uint

func (f *FlexID) UnmarshalJSON(b []byte) error {
	raw := unquote(b)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("invalid id %q", raw)
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) Uint() uint { return uint(f) }

// Ptr converts an optional FlexID into an optional uint.
func (f *FlexID) Ptr() *uint {
	if f == nil {
		return nil
	}
	v := uint(*f)
	return &v
}

// FlexInt is a whole number.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := unquote(b)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %q", raw)
	}
	*f = FlexInt(n)
	return nil
}

// FlexFloat is a finite decimal number.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw := unquote(b)
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("invalid number %q", raw)
	}
	*f = FlexFloat(n)
	return nil
}

// FlexBool is a JSON boolean or the strings "true" and "false".
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(unquote(b)) {
	case "true":
		*f = true
	case "false":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

func unquote(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(b)
}
