// Package schedule implements the seat-allocation policies of the
// office: weekday/weekend classification, the 14-day booking window,
// the bi-weekly batch rotation, the floating-seat unlock cutoff and
// the per-seat eligibility evaluation that composes them. Everything
// in this package is a pure function of its inputs; persistence and
// clocks are owned by the callers.
package schedule

import "time"

// MaxAdvanceDays is how far ahead of today a seat may be booked.
// Today itself counts as day 0, so the window spans 15 calendar days.
const MaxAdvanceDays = 14

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayUTC maps a timestamp onto midnight UTC of the same calendar day.
// Comparing these values counts calendar days without being thrown off
// by time-of-day, zone offsets or DST transitions.
func dayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysFromToday returns the signed number of calendar days between
// today and date. Negative values mean the date is in the past. Only
// the calendar day of each argument matters.
func DaysFromToday(date, today time.Time) int {
	return int(dayUTC(date).Sub(dayUTC(today)).Hours() / 24)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWithinBookingWindow reports whether date is bookable relative to
// today: not in the past and at most MaxAdvanceDays ahead.
func IsWithinBookingWindow(date, today time.Time) bool {
	diff := DaysFromToday(date, today)
	return diff >= 0 && diff <= MaxAdvanceDays
}
