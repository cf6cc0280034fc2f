// Package dateutil validates and compares the calendar dates carried by annotations.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate indicates a date that is not a real YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Layout is the only accepted annotation date layout (YYYY-MM-DD).
const Layout = "2006-01-02"

// Validate checks that value is a real calendar date in YYYY-MM-DD form.
// Two-digit months and days are required: "2024-1-5" is rejected.
func Validate(value string) error {
	if len(value) != len(Layout) {
		return fmt.Errorf("%w: %q must use YYYY-MM-DD", ErrInvalidDate, value)
	}
	if _, err := time.Parse(Layout, value); err != nil {
		return fmt.Errorf("%w: %q must use YYYY-MM-DD", ErrInvalidDate, value)
	}
	return nil
}

// IsValid reports whether value passes Validate.
func IsValid(value string) bool {
	return Validate(value) == nil
}

// Latest returns the later of two dates. Empty values lose against any date.
// Valid YYYY-MM-DD strings order lexically, so no parsing is needed.
func Latest(a, b string) string {
	if a == "" {
		return b
	}
	if b > a {
		return b
	}
	return a
}

// DaysSince returns the number of whole days between value and now.
func DaysSince(value string, now time.Time) (int, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return int(now.Sub(t).Hours() / 24), nil
}
