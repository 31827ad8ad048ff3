package workday_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolve(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")

	t.Run("daytime instant stays on its calendar date", func(t *testing.T) {
		instant := time.Date(2025, 3, 10, 14, 30, 0, 0, paris)
		got := workday.Resolve(instant, paris, 6)
		assert.Equal(t, workday.Date(2025, 3, 10), got)
	})

	t.Run("before cutoff rolls back to previous day", func(t *testing.T) {
		instant := time.Date(2025, 3, 11, 2, 15, 0, 0, paris)
		got := workday.Resolve(instant, paris, 6)
		assert.Equal(t, workday.Date(2025, 3, 10), got)
	})

	t.Run("exactly at cutoff belongs to the current day", func(t *testing.T) {
		instant := time.Date(2025, 3, 11, 6, 0, 0, 0, paris)
		got := workday.Resolve(instant, paris, 6)
		assert.Equal(t, workday.Date(2025, 3, 11), got)
	})

	t.Run("resolution uses local time not UTC", func(t *testing.T) {
		// 23:30 UTC on the 10th is 00:30 on the 11th in Paris (winter),
		// which is before cutoff, so it still resolves to the 10th.
		instant := time.Date(2025, 1, 10, 23, 30, 0, 0, time.UTC)
		got := workday.Resolve(instant, paris, 6)
		assert.Equal(t, workday.Date(2025, 1, 10), got)
	})

	t.Run("month boundary rollback", func(t *testing.T) {
		instant := time.Date(2025, 4, 1, 1, 0, 0, 0, paris)
		got := workday.Resolve(instant, paris, 6)
		assert.Equal(t, workday.Date(2025, 3, 31), got)
	})
}

func TestBounds(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")
	day := workday.Date(2025, 3, 10)

	start, end := workday.Bounds(day, paris, 6)
	assert.Equal(t, time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 11, 5, 0, 0, 0, time.UTC), end)

	// Every instant inside the bounds resolves to the day.
	assert.Equal(t, day, workday.Resolve(start, paris, 6))
	assert.Equal(t, day, workday.Resolve(end.Add(-time.Minute), paris, 6))
	assert.NotEqual(t, day, workday.Resolve(end, paris, 6))
}

func TestElapsed(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")
	day := workday.Date(2025, 3, 10)

	inside := time.Date(2025, 3, 11, 4, 0, 0, 0, time.UTC)
	assert.False(t, workday.Elapsed(day, paris, 6, inside))

	after := time.Date(2025, 3, 11, 5, 0, 0, 0, time.UTC)
	assert.True(t, workday.Elapsed(day, paris, 6, after))
}

func TestMinuteOf(t *testing.T) {
	paris := mustLoc(t, "Europe/Paris")
	day := workday.Date(2025, 3, 10)

	t.Run("same day", func(t *testing.T) {
		instant := time.Date(2025, 3, 10, 9, 5, 0, 0, paris)
		assert.Equal(t, 9*60+5, workday.MinuteOf(instant, day, paris))
	})

	t.Run("past midnight maps beyond 1440", func(t *testing.T) {
		instant := time.Date(2025, 3, 11, 1, 30, 0, 0, paris)
		assert.Equal(t, 24*60+90, workday.MinuteOf(instant, day, paris))
	})
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"09:60", 0, false},
		{"0930", 0, false},
		{"9:00", 0, false},
		{"09:3", 0, false},
		{"09:30extra", 0, false},
		{"0a:30", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := workday.ParseClock(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "09:05", workday.FormatMinutes(545))
	assert.Equal(t, "01:30", workday.FormatMinutes(24*60+90))
	assert.Equal(t, "00:00", workday.FormatMinutes(0))
}

func TestNormalizeWindow(t *testing.T) {
	t.Run("plain window", func(t *testing.T) {
		start, end, err := workday.NormalizeWindow("09:00", "17:00")
		require.NoError(t, err)
		assert.Equal(t, 540, start)
		assert.Equal(t, 1020, end)
	})

	t.Run("midnight crossing pushes end to next day", func(t *testing.T) {
		start, end, err := workday.NormalizeWindow("22:00", "05:30")
		require.NoError(t, err)
		assert.Equal(t, 1320, start)
		assert.Equal(t, 24*60+330, end)
	})

	t.Run("zero length is treated as crossing", func(t *testing.T) {
		start, end, err := workday.NormalizeWindow("09:00", "09:00")
		require.NoError(t, err)
		assert.Equal(t, workday.MinutesPerDay, end-start)
	})

	t.Run("bad clock rejected", func(t *testing.T) {
		_, _, err := workday.NormalizeWindow("9:00", "17:00")
		assert.Error(t, err)
	})
}

func TestValidateSpans(t *testing.T) {
	t.Run("sorted and disjoint", func(t *testing.T) {
		spans := []workday.Span{
			{Index: 1, StartMin: 840, EndMin: 1020},
			{Index: 0, StartMin: 540, EndMin: 720},
		}
		sorted, err := workday.ValidateSpans(spans)
		require.NoError(t, err)
		assert.Equal(t, 0, sorted[0].Index)
		assert.Equal(t, 1, sorted[1].Index)
	})

	t.Run("overlap rejected", func(t *testing.T) {
		spans := []workday.Span{
			{Index: 0, StartMin: 540, EndMin: 720},
			{Index: 1, StartMin: 700, EndMin: 900},
		}
		_, err := workday.ValidateSpans(spans)
		var overlap *workday.OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, 0, overlap.First)
		assert.Equal(t, 1, overlap.Second)
	})

	t.Run("touching edges are fine", func(t *testing.T) {
		spans := []workday.Span{
			{Index: 0, StartMin: 540, EndMin: 720},
			{Index: 1, StartMin: 720, EndMin: 900},
		}
		_, err := workday.ValidateSpans(spans)
		assert.NoError(t, err)
	})
}
