package schedule

import "time"

// UnlockHour is the server-local hour at which floating seats for the
// next day become bookable. 14:59:59 is still locked; 15:00:00 is not.
const UnlockHour = 15

// IsFloatingUnlocked reports whether floating seats for targetDate can
// be booked at the wall-clock instant now. Same-day bookings are
// always open, tomorrow opens at UnlockHour, and anything further out
// inside the booking window is open around the clock. Dates outside
// the window are locked here too, though the window validation rejects
// them independently. The result changes at a fixed clock boundary, so
// callers must re-evaluate on every request rather than cache it.
func IsFloatingUnlocked(targetDate, now time.Time) bool {
	diff := DaysFromToday(targetDate, now)
	switch {
	case diff == 0:
		return true
	case diff == 1:
		return now.Hour() >= UnlockHour
	case diff > 1 && diff <= MaxAdvanceDays:
		return true
	default:
		return false
	}
}
