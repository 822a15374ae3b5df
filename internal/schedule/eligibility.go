package schedule

import (
	"time"

	"github.com/Haswanth2005/wissen/internal/model"
)

// Verdict reasons surfaced to the UI. They explain why a seat is shown
// as unavailable and carry no behavioral weight beyond display.
const (
	ReasonNotYourBatchDay = "Not your batch day for designated seats"
	ReasonAlreadyBooked   = "Already booked"
	ReasonFloatingLocked  = "Floating seats unlock at 3:00 PM for next day"
	ReasonBatchScheduled  = "Your batch has designated seats on this day"
)

// SeatVerdict is the availability answer for one seat on one date as
// seen by one user. Booked/Mine/MyBookingID let the UI render occupied
// seats and offer cancel/release on the caller's own booking.
type SeatVerdict struct {
	SeatID      uint64 `json:"id"`
	SeatNumber  string `json:"seat_number"`
	Type        string `json:"type"`
	Booked      bool   `json:"is_booked"`
	Mine        bool   `json:"is_my_booking"`
	MyBookingID string `json:"my_booking_id,omitempty"`
	Available   bool   `json:"available"`
	Reason      string `json:"reason,omitempty"`
}

// SeatEligible decides whether a seat is open to a user on a date
// before occupancy is considered. It is the policy gate shared by the
// read path (EvaluateSeats) and the booking write path, so the
// floating-seat rules cannot diverge between the two.
//
// A designated seat requires the user's batch to be scheduled that
// day. A floating seat requires the unlock cutoff to have passed and
// the user's batch to NOT be scheduled: employees with designated
// seats that day leave the floating pool to the off-batch.
func SeatEligible(seat model.Seat, batch string, date, cycleStart, now time.Time) (bool, string) {
	scheduled := IsBatchScheduled(batch, date, cycleStart)
	if seat.Type == model.SeatDesignated {
		if !scheduled {
			return false, ReasonNotYourBatchDay
		}
		return true, ""
	}
	if !IsFloatingUnlocked(date, now) {
		return false, ReasonFloatingLocked
	}
	if scheduled {
		return false, ReasonBatchScheduled
	}
	return true, ""
}

// EvaluateSeats produces a verdict for every seat in the list for the
// given user and date. active must contain the ACTIVE bookings for
// that date. Weekends yield no verdicts at all: nothing is bookable,
// and callers are expected to short-circuit before asking.
//
// This is a pure read over its inputs and may be called unboundedly
// often, e.g. once per visible day of a calendar preview.
func EvaluateSeats(userID uint64, batch string, date, cycleStart, now time.Time, seats []model.Seat, active []model.Booking) []SeatVerdict {
	if IsWeekend(date) {
		return []SeatVerdict{}
	}
	bySeat := make(map[uint64]*model.Booking, len(active))
	for i := range active {
		bySeat[active[i].SeatID] = &active[i]
	}
	verdicts := make([]SeatVerdict, 0, len(seats))
	for _, seat := range seats {
		v := SeatVerdict{
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			Type:       seat.Type,
		}
		booking := bySeat[seat.ID]
		if booking != nil {
			v.Booked = true
			if booking.UserID == userID {
				v.Mine = true
				v.MyBookingID = booking.ID
			}
		}
		ok, reason := SeatEligible(seat, batch, date, cycleStart, now)
		switch {
		case v.Mine:
			// The caller already holds this seat; show it as theirs
			// regardless of policy so cancel/release stays reachable.
			v.Available = true
		case !ok:
			v.Reason = reason
		case v.Booked:
			v.Reason = ReasonAlreadyBooked
		default:
			v.Available = true
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}
