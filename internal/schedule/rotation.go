package schedule

import (
	"time"

	"github.com/Haswanth2005/wissen/internal/model"
)

// The rotation cycle repeats every two weeks. Week 1 gives Mon–Wed to
// batch A and Thu–Fri to batch B; week 2 swaps them. The table is
// fixed; only the anchor (cycle start date) is configurable.
const cycleDays = 14

// WeekNumber returns which week of the bi-weekly cycle (1 or 2) the
// date falls in, relative to cycleStart. A zero cycleStart means no
// anchor has been configured yet and everything counts as week 1, as
// do dates before the anchor. Both are policy defaults, not errors.
func WeekNumber(date, cycleStart time.Time) int {
	if cycleStart.IsZero() {
		return 1
	}
	diff := DaysFromToday(date, cycleStart)
	if diff < 0 {
		return 1
	}
	if diff%cycleDays < 7 {
		return 1
	}
	return 2
}

// IsBatchScheduled reports whether the given batch is entitled to
// designated seats on the date. Batch NONE and weekends are never
// scheduled. The weekday band (Mon–Wed vs Thu–Fri) combined with the
// cycle week selects the batch per the rotation table.
func IsBatchScheduled(batch string, date, cycleStart time.Time) bool {
	if batch == model.BatchNone || batch == "" {
		return false
	}
	if IsWeekend(date) {
		return false
	}
	monToWed := date.Weekday() >= time.Monday && date.Weekday() <= time.Wednesday
	if WeekNumber(date, cycleStart) == 1 {
		if monToWed {
			return batch == model.BatchA
		}
		return batch == model.BatchB
	}
	if monToWed {
		return batch == model.BatchB
	}
	return batch == model.BatchA
}
