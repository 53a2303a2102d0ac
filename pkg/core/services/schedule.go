package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// ValidateSchedule checks that a shift schedule is a parseable RRULE.
// An empty schedule is valid and means no recurring shifts.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}
	if _, err := rrule.StrToROption(schedule); err != nil {
		return db.NewError(db.KindInvalidInput, "invalid shift schedule %q: %v", schedule, err)
	}
	return nil
}

// UpcomingShifts returns up to n shift start times of a schedule strictly after from.
// The rule is anchored at dtstart unless it carries its own DTSTART.
func UpcomingShifts(schedule string, dtstart, from time.Time, n int) ([]time.Time, error) {
	if schedule == "" || n <= 0 {
		return nil, nil
	}

	opt, err := rrule.StrToROption(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = dtstart
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}

	shifts := make([]time.Time, 0, n)
	next := from
	for len(shifts) < n {
		next = rule.After(next, false)
		if next.IsZero() {
			break
		}
		shifts = append(shifts, next)
	}
	return shifts, nil
}
