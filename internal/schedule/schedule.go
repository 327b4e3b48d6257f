// Package schedule computes the dashboard's next-update stamp.
//
// The policy is fixed: updates happen at 21:00 UTC, Monday through Friday
// (one hour after US market close). The calculation is a pure function of
// "now"; nothing is persisted between runs.
package schedule

import (
	"time"

	"YieldBoard/internal/model"
)

const updateHour = 21

// NextUpdate returns the next weekday 21:00 occurrence at or after now, in
// now's location. Day stepping uses AddDate so month and year boundaries
// roll over correctly.
func NextUpdate(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), updateHour, 0, 0, 0, now.Location())

	// Past today's slot: move to the next calendar day.
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	switch next.Weekday() {
	case time.Saturday:
		next = next.AddDate(0, 0, 2)
	case time.Sunday:
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Stamp assembles the last_update.json payload for a run that finished at now.
func Stamp(now time.Time) model.ScheduleStamp {
	return model.ScheduleStamp{
		LastUpdate:          now,
		AutoUpdateEnabled:   true,
		NextScheduledUpdate: NextUpdate(now),
		Schedule: model.SchedulePolicy{
			Days:        "Monday-Friday",
			Time:        "9:00 PM UTC",
			Description: "1 hour after US market close",
		},
	}
}

// IsWeekday reports whether now falls on Monday through Friday.
func IsWeekday(now time.Time) bool {
	wd := now.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
