package services

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD, falling back to RFC3339 like the booking forms send.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, newValidationError("error.invalidDate", fmt.Sprintf("%s is required", field))
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, newValidationError("error.invalidDate",
		fmt.Sprintf("%s has wrong format. Use YYYY-MM-DD", field))
}
