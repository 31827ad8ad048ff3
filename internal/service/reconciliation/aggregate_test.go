package reconciliation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

var paris = mustParis()

func mustParis() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
	return loc
}

var testDay = workday.Date(2025, 3, 10)

// punchAt builds a punch at the given local wall-clock time on the test day;
// hours past 24 land on the next calendar date.
func punchAt(id, kind, clock string) punch.PunchEvent {
	var h, m int
	fmt.Sscanf(clock, "%d:%d", &h, &m)
	ts := time.Date(testDay.Year(), testDay.Month(), testDay.Day(), h, m, 0, 0, paris)
	return punch.PunchEvent{ID: id, EmployeeID: "emp-1", Kind: kind, Timestamp: ts.UTC()}
}

func TestAggregatePunches(t *testing.T) {
	t.Run("pairs in and out chronologically", func(t *testing.T) {
		blocks := AggregatePunches([]punch.PunchEvent{
			punchAt("p1", punch.KindIn, "09:00"),
			punchAt("p2", punch.KindOut, "12:00"),
			punchAt("p3", punch.KindIn, "13:00"),
			punchAt("p4", punch.KindOut, "17:00"),
		}, testDay, paris)

		require.Len(t, blocks, 2)
		assert.True(t, blocks[0].Closed())
		assert.Equal(t, 540, blocks[0].StartMin)
		assert.Equal(t, 720, blocks[0].EndMin)
		assert.Equal(t, 780, blocks[1].StartMin)
		assert.Equal(t, 1020, blocks[1].EndMin)
	})

	t.Run("double in orphans the first block", func(t *testing.T) {
		blocks := AggregatePunches([]punch.PunchEvent{
			punchAt("p1", punch.KindIn, "09:00"),
			punchAt("p2", punch.KindIn, "09:30"),
			punchAt("p3", punch.KindOut, "17:00"),
		}, testDay, paris)

		require.Len(t, blocks, 2)
		assert.True(t, blocks[0].Orphan)
		assert.True(t, blocks[0].Open())
		assert.True(t, blocks[1].Closed())
		assert.Equal(t, 570, blocks[1].StartMin)
	})

	t.Run("out without in is an orphan block", func(t *testing.T) {
		blocks := AggregatePunches([]punch.PunchEvent{
			punchAt("p1", punch.KindOut, "08:00"),
			punchAt("p2", punch.KindIn, "09:00"),
			punchAt("p3", punch.KindOut, "17:00"),
		}, testDay, paris)

		require.Len(t, blocks, 2)
		assert.True(t, blocks[0].Orphan)
		assert.Equal(t, -1, blocks[0].StartMin)
		assert.True(t, blocks[1].Closed())
	})

	t.Run("trailing in yields one open non-orphan block", func(t *testing.T) {
		blocks := AggregatePunches([]punch.PunchEvent{
			punchAt("p1", punch.KindIn, "09:00"),
		}, testDay, paris)

		require.Len(t, blocks, 1)
		assert.True(t, blocks[0].Open())
		assert.False(t, blocks[0].Orphan)
		assert.Equal(t, 0, blocks[0].Duration())
	})

	t.Run("night shift punches map past minute 1440", func(t *testing.T) {
		in := punchAt("p1", punch.KindIn, "22:00")
		out := punch.PunchEvent{
			ID:         "p2",
			EmployeeID: "emp-1",
			Kind:       punch.KindOut,
			Timestamp:  time.Date(2025, 3, 11, 5, 30, 0, 0, paris).UTC(),
		}
		blocks := AggregatePunches([]punch.PunchEvent{in, out}, testDay, paris)

		require.Len(t, blocks, 1)
		assert.Equal(t, 1320, blocks[0].StartMin)
		assert.Equal(t, 24*60+330, blocks[0].EndMin)
		assert.Equal(t, 450, blocks[0].Duration())
	})

	t.Run("conservation: every punch lands in exactly one block", func(t *testing.T) {
		punches := []punch.PunchEvent{
			punchAt("p1", punch.KindOut, "07:00"),
			punchAt("p2", punch.KindIn, "09:00"),
			punchAt("p3", punch.KindIn, "10:00"),
			punchAt("p4", punch.KindOut, "12:00"),
			punchAt("p5", punch.KindIn, "13:00"),
		}
		blocks := AggregatePunches(punches, testDay, paris)

		seen := map[string]int{}
		for _, b := range blocks {
			for _, id := range b.PunchIDs {
				seen[id]++
			}
		}
		require.Len(t, seen, len(punches))
		for _, p := range punches {
			assert.Equal(t, 1, seen[p.ID], p.ID)
		}
	})
}
