package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hour, min, sec int) time.Time {
	return time.Date(y, m, d, hour, min, sec, 0, time.UTC)
}

func TestFloatingUnlockSameDay(t *testing.T) {
	day := date(2024, time.March, 15)
	require.True(t, IsFloatingUnlocked(day, at(2024, time.March, 15, 0, 0, 0)))
	require.True(t, IsFloatingUnlocked(day, at(2024, time.March, 15, 23, 59, 59)))
}

func TestFloatingUnlockNextDayBoundary(t *testing.T) {
	tomorrow := date(2024, time.March, 16)

	require.False(t, IsFloatingUnlocked(tomorrow, at(2024, time.March, 15, 14, 59, 59)))
	require.True(t, IsFloatingUnlocked(tomorrow, at(2024, time.March, 15, 15, 0, 0)))
	require.True(t, IsFloatingUnlocked(tomorrow, at(2024, time.March, 15, 15, 0, 1)))
	require.True(t, IsFloatingUnlocked(tomorrow, at(2024, time.March, 15, 23, 0, 0)))
}

func TestFloatingUnlockFartherOut(t *testing.T) {
	now := at(2024, time.March, 15, 9, 0, 0)

	// Two days out and beyond is open regardless of the hour.
	for diff := 2; diff <= MaxAdvanceDays; diff++ {
		d := date(2024, time.March, 15).AddDate(0, 0, diff)
		require.True(t, IsFloatingUnlocked(d, now), "diff %d", diff)
	}
}

func TestFloatingUnlockOutsideWindow(t *testing.T) {
	now := at(2024, time.March, 15, 16, 0, 0)

	require.False(t, IsFloatingUnlocked(date(2024, time.March, 14), now))
	require.False(t, IsFloatingUnlocked(date(2024, time.March, 30), now)) // day 15
}
