package domain

import "time"

// DateOnly truncates t to its calendar date, expressed as UTC midnight.
// The calendar date is taken in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// ValidateNotPast fails with ErrPastDate when date is before the date of now
func ValidateNotPast(date, now time.Time) error {
	if DateOnly(date).Before(DateOnly(now)) {
		return ErrPastDate
	}
	return nil
}

// ValidateBookingWindow checks today <= date <= today + maxAdvanceDays.
// Both bounds are inclusive, maxAdvanceDays == 0 allows today only.
func ValidateBookingWindow(date, now time.Time, maxAdvanceDays int) error {
	if err := ValidateNotPast(date, now); err != nil {
		return err
	}
	if maxAdvanceDays < 0 {
		maxAdvanceDays = 0
	}
	last := DateOnly(now).AddDate(0, 0, maxAdvanceDays)
	if DateOnly(date).After(last) {
		return ErrTooFarInAdvance
	}
	return nil
}
