package dto

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// optionalString turns a blank optional value into nil so it is stored as NULL.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// dateLayouts lists the accepted formats for calendar dates in requests.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses an optional date. Blank input yields nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}

	value := strings.TrimSpace(*s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("invalid date %q: %w", value, lastErr)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// CheckFinite rejects NaN and infinite values, which form binding accepts
// but which cannot be stored.
func CheckFinite(field string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("invalid %s: must be a finite number", field)
	}
	return nil
}
