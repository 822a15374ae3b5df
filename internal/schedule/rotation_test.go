package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Haswanth2005/wissen/internal/model"
)

func TestWeekNumberWithoutAnchor(t *testing.T) {
	require.Equal(t, 1, WeekNumber(date(2024, time.March, 15), time.Time{}))
	require.Equal(t, 1, WeekNumber(date(2030, time.December, 31), time.Time{}))
}

func TestWeekNumberBeforeAnchor(t *testing.T) {
	anchor := date(2024, time.January, 1) // a Monday
	require.Equal(t, 1, WeekNumber(date(2023, time.December, 25), anchor))
	require.Equal(t, 1, WeekNumber(anchor.AddDate(0, 0, -1), anchor))
}

func TestWeekNumberCycle(t *testing.T) {
	anchor := date(2024, time.January, 1) // a Monday

	// Days 0-6 are week 1, days 7-13 are week 2, then it repeats.
	for offset := 0; offset < 42; offset++ {
		d := anchor.AddDate(0, 0, offset)
		want := 1
		if offset%14 >= 7 {
			want = 2
		}
		require.Equal(t, want, WeekNumber(d, anchor), "offset %d", offset)
	}
}

func TestWeekNumberPeriodicity(t *testing.T) {
	anchor := date(2024, time.January, 1)
	for offset := 0; offset < 14; offset++ {
		d := anchor.AddDate(0, 0, offset)
		require.Equal(t, WeekNumber(d, anchor), WeekNumber(d.AddDate(0, 0, 14), anchor), "offset %d", offset)
	}
}

func TestIsBatchScheduledRotation(t *testing.T) {
	anchor := date(2024, time.January, 1) // a Monday

	cases := []struct {
		name  string
		day   time.Time
		batch string
		want  bool
	}{
		{"week1 wednesday is batch A", date(2024, time.January, 3), model.BatchA, true},
		{"week1 wednesday not batch B", date(2024, time.January, 3), model.BatchB, false},
		{"week1 thursday is batch B", date(2024, time.January, 4), model.BatchB, true},
		{"week1 friday not batch A", date(2024, time.January, 5), model.BatchA, false},
		{"week2 wednesday is batch B", date(2024, time.January, 10), model.BatchB, true},
		{"week2 wednesday not batch A", date(2024, time.January, 10), model.BatchA, false},
		{"week2 thursday is batch A", date(2024, time.January, 11), model.BatchA, true},
		{"week2 friday not batch B", date(2024, time.January, 12), model.BatchB, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsBatchScheduled(tc.batch, tc.day, anchor))
		})
	}
}

func TestIsBatchScheduledExclusivity(t *testing.T) {
	anchor := date(2024, time.January, 1)

	// On any weekday exactly one of the two batches is scheduled.
	for offset := 0; offset < 28; offset++ {
		d := anchor.AddDate(0, 0, offset)
		if IsWeekend(d) {
			continue
		}
		a := IsBatchScheduled(model.BatchA, d, anchor)
		b := IsBatchScheduled(model.BatchB, d, anchor)
		require.NotEqual(t, a, b, "offset %d (%s)", offset, d.Weekday())
	}
}

func TestIsBatchScheduledNeverOnWeekends(t *testing.T) {
	anchor := date(2024, time.January, 1)
	saturday := date(2024, time.January, 6)
	sunday := date(2024, time.January, 7)

	for _, batch := range []string{model.BatchA, model.BatchB} {
		require.False(t, IsBatchScheduled(batch, saturday, anchor))
		require.False(t, IsBatchScheduled(batch, sunday, anchor))
	}
}

func TestIsBatchScheduledBatchNone(t *testing.T) {
	anchor := date(2024, time.January, 1)
	require.False(t, IsBatchScheduled(model.BatchNone, date(2024, time.January, 3), anchor))
	require.False(t, IsBatchScheduled("", date(2024, time.January, 3), anchor))
}

func TestIsBatchScheduledWithoutAnchor(t *testing.T) {
	// No anchor means everything is week 1: Mon-Wed belongs to A,
	// Thu-Fri to B, everywhere on the calendar.
	require.True(t, IsBatchScheduled(model.BatchA, date(2024, time.March, 12), time.Time{}))  // Tuesday
	require.True(t, IsBatchScheduled(model.BatchB, date(2024, time.March, 14), time.Time{})) // Thursday
	require.False(t, IsBatchScheduled(model.BatchB, date(2024, time.March, 12), time.Time{}))
}
