package reconciliation

import (
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// PresenceBlock is a derived [in, out) interval on the work-day minute
// timeline. It is never persisted.
//
// StartMin or EndMin is -1 when the corresponding punch was not observed.
// A block is flagged Orphan when its pairing was broken: an `in` superseded
// by another `in`, or an `out` with no preceding `in`. A trailing unmatched
// `in` yields an open (EndMin == -1) but non-orphan block.
type PresenceBlock struct {
	StartMin int
	EndMin   int
	Orphan   bool
	PunchIDs []string
}

// Open reports whether the block never saw an out punch.
func (b PresenceBlock) Open() bool {
	return b.EndMin < 0
}

// Closed reports whether the block is a complete, well-paired interval.
func (b PresenceBlock) Closed() bool {
	return b.StartMin >= 0 && b.EndMin >= 0 && !b.Orphan
}

// Duration returns the block length in minutes; open and orphan blocks
// contribute zero worked time until corrected.
func (b PresenceBlock) Duration() int {
	if !b.Closed() {
		return 0
	}
	return b.EndMin - b.StartMin
}

// Overlap returns the minutes the block shares with a planned span.
func (b PresenceBlock) Overlap(s workday.Span) int {
	if !b.Closed() {
		return 0
	}
	start := max(b.StartMin, s.StartMin)
	end := min(b.EndMin, s.EndMin)
	if end <= start {
		return 0
	}
	return end - start
}

// AggregatePunches groups one employee-day's punches, already ordered by
// timestamp, into presence blocks. Every punch lands in exactly one block;
// mis-paired punches are flagged, never dropped.
func AggregatePunches(punches []punch.PunchEvent, day time.Time, loc *time.Location) []PresenceBlock {
	var blocks []PresenceBlock
	var current *PresenceBlock

	for _, p := range punches {
		minute := workday.MinuteOf(p.Timestamp, day, loc)

		switch p.Kind {
		case punch.KindIn:
			if current != nil {
				// A second in without an intervening out orphans the
				// running block.
				current.Orphan = true
				blocks = append(blocks, *current)
			}
			current = &PresenceBlock{
				StartMin: minute,
				EndMin:   -1,
				PunchIDs: []string{p.ID},
			}

		case punch.KindOut:
			if current == nil {
				// An out with no open block is itself an orphan.
				blocks = append(blocks, PresenceBlock{
					StartMin: -1,
					EndMin:   minute,
					Orphan:   true,
					PunchIDs: []string{p.ID},
				})
				continue
			}
			current.EndMin = minute
			current.PunchIDs = append(current.PunchIDs, p.ID)
			blocks = append(blocks, *current)
			current = nil
		}
	}

	// Trailing in: one open-ended block.
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}
