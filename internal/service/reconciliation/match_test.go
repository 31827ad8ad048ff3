package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

func span(index, start, end int, extra bool) workday.Span {
	return workday.Span{Index: index, StartMin: start, EndMin: end, IsExtra: extra}
}

func closed(start, end int) PresenceBlock {
	return PresenceBlock{StartMin: start, EndMin: end}
}

func TestMatch(t *testing.T) {
	morning := span(0, 540, 720, false)    // 09:00-12:00
	afternoon := span(1, 780, 1020, false) // 13:00-17:00

	t.Run("block assigned to the span it overlaps most", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(550, 725), // mostly morning
		})
		require.Len(t, a.Segments, 2)
		assert.Equal(t, []int{0}, a.Segments[0].BlockIdxs)
		assert.Empty(t, a.Segments[1].BlockIdxs)
		assert.True(t, a.Segments[1].Missing)
	})

	t.Run("lateness and early arrival from first presence", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(555, 1020),
		})
		assert.Equal(t, 15, a.LatenessMin)
		assert.Equal(t, 0, a.EarlyArrivalMin)

		a = Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(500, 1020),
		})
		assert.Equal(t, 0, a.LatenessMin)
		assert.Equal(t, 40, a.EarlyArrivalMin)
	})

	t.Run("punching through a planned break counts worked break minutes and splits duration", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(540, 1020), // straight through 12:00-13:00
		})
		assert.Equal(t, 60, a.BreakPlannedMin)
		assert.Equal(t, 60, a.BreakWorkedMin)
		// Duration accounting splits at the window boundary.
		assert.Equal(t, 180, a.Segments[0].WorkedMin)
		assert.Equal(t, 240, a.Segments[1].WorkedMin)
	})

	t.Run("partial break", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(540, 720),
			closed(740, 1020), // resumed 20 min into the break
		})
		assert.Equal(t, 60, a.BreakPlannedMin)
		assert.Equal(t, 40, a.BreakWorkedMin)
	})

	t.Run("early leave and overtime from last closed presence", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(540, 990),
		})
		assert.Equal(t, 30, a.EarlyLeaveMin)
		assert.Equal(t, 0, a.OvertimeMin)

		a = Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(540, 1080),
		})
		assert.Equal(t, 0, a.EarlyLeaveMin)
		assert.Equal(t, 60, a.OvertimeMin)
	})

	t.Run("open block defers departure judgment", func(t *testing.T) {
		a := Match([]workday.Span{morning, afternoon}, []PresenceBlock{
			closed(540, 720),
			{StartMin: 780, EndMin: -1},
		})
		assert.Equal(t, 0, a.EarlyLeaveMin)
		assert.Equal(t, 0, a.OvertimeMin)
	})

	t.Run("presence past plan inside an extra span is not overtime", func(t *testing.T) {
		extra := span(2, 1020, 1140, true) // 17:00-19:00 authorized extra
		a := Match([]workday.Span{morning, afternoon, extra}, []PresenceBlock{
			closed(540, 1140),
		})
		assert.Equal(t, 0, a.OvertimeMin)
		assert.Equal(t, 120, a.Segments[2].WorkedMin)
	})

	t.Run("extra-only day has no plan and no deltas", func(t *testing.T) {
		extra := span(0, 1200, 1440, true) // 20:00-00:00
		a := Match([]workday.Span{extra}, []PresenceBlock{
			closed(1200, 1350), // out at 22:30
		})
		assert.False(t, a.HasPlan)
		assert.Equal(t, 0, a.LatenessMin)
		assert.Equal(t, 150, a.Segments[0].WorkedMin)
		assert.Empty(t, a.UnplannedBlocks)
	})

	t.Run("block overlapping nothing is unplanned; orphans are surfaced", func(t *testing.T) {
		a := Match([]workday.Span{morning}, []PresenceBlock{
			closed(540, 720),
			closed(900, 960),
			{StartMin: 400, EndMin: -1, Orphan: true},
		})
		require.Len(t, a.UnplannedBlocks, 1)
		assert.Equal(t, 900, a.UnplannedBlocks[0].StartMin)
		require.Len(t, a.OrphanBlocks, 1)
	})

	t.Run("no presence at all", func(t *testing.T) {
		a := Match([]workday.Span{morning}, nil)
		assert.True(t, a.HasPlan)
		assert.False(t, a.HasPresence)
		assert.True(t, a.Segments[0].Missing)
	})
}
