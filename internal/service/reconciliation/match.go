package reconciliation

import (
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// SegmentResult is the outcome of matching one planned span against the
// day's presence blocks.
type SegmentResult struct {
	Span      workday.Span
	BlockIdxs []int
	WorkedMin int // presence minutes inside the planned window
	Missing   bool
}

// Assessment is the day-level picture the matcher hands to the anomaly
// synthesizer and the ledger. All minute values are on the work-day timeline.
type Assessment struct {
	Segments []SegmentResult

	// HasPlan is true when the day plans at least one non-extra work window.
	HasPlan     bool
	HasPresence bool

	// Day-level deltas against the non-extra plan. Positive lateness means
	// the first presence started after the first planned window; positive
	// early leave means the last presence ended before the last planned
	// window. Zero when not computable (no plan, no closed presence).
	LatenessMin     int
	EarlyArrivalMin int
	EarlyLeaveMin   int
	OvertimeMin     int

	// Planned break minutes between consecutive non-extra windows, and how
	// many of them were worked through.
	BreakPlannedMin int
	BreakWorkedMin  int

	// Boundary minutes backing the deltas; -1 when unknown.
	FirstPlannedStart  int
	FirstPresenceStart int
	LastPlannedEnd     int
	LastPresenceEnd    int

	// Blocks overlapping no planned window at all.
	UnplannedBlocks []PresenceBlock
	// Mis-paired punches surfaced by the aggregator.
	OrphanBlocks []PresenceBlock
}

// Match pairs planned spans (sorted, validated) against presence blocks with
// greedy chronological best-overlap assignment, then derives the day-level
// deltas. Extra spans receive worked time like any other span but are
// excluded from every delta: they are paid, not judged.
func Match(spans []workday.Span, blocks []PresenceBlock) Assessment {
	a := Assessment{
		FirstPlannedStart:  -1,
		FirstPresenceStart: -1,
		LastPlannedEnd:     -1,
		LastPresenceEnd:    -1,
	}

	var plan []workday.Span // non-extra windows only
	for _, s := range spans {
		if !s.IsExtra {
			plan = append(plan, s)
		}
	}
	a.HasPlan = len(plan) > 0

	// Assign each closed block to the span it overlaps most; collect the
	// rest as unplanned or orphan.
	assigned := make(map[int][]int, len(spans)) // span slice index → block indexes
	for bi, b := range blocks {
		if b.Orphan {
			a.OrphanBlocks = append(a.OrphanBlocks, b)
			continue
		}
		a.HasPresence = true
		if b.Open() {
			// An open block has no measurable end; assign it by its start
			// so it is not reported as unplanned.
			placed := false
			for si, s := range spans {
				if b.StartMin >= s.StartMin && b.StartMin < s.EndMin {
					assigned[si] = append(assigned[si], bi)
					placed = true
					break
				}
			}
			if !placed {
				a.UnplannedBlocks = append(a.UnplannedBlocks, b)
			}
			continue
		}

		best, bestOverlap := -1, 0
		for si, s := range spans {
			if ov := b.Overlap(s); ov > bestOverlap {
				best, bestOverlap = si, ov
			}
		}
		if best < 0 {
			a.UnplannedBlocks = append(a.UnplannedBlocks, b)
			continue
		}
		assigned[best] = append(assigned[best], bi)
	}

	// Per-span worked time. A block punched through a planned break is
	// split at the window boundaries here: each span counts only the
	// minutes inside its own window, regardless of which span the block
	// was assigned to.
	for si, s := range spans {
		res := SegmentResult{Span: s, BlockIdxs: assigned[si]}
		for _, b := range blocks {
			res.WorkedMin += b.Overlap(s)
		}
		res.Missing = res.WorkedMin == 0 && len(res.BlockIdxs) == 0
		a.Segments = append(a.Segments, res)
	}

	if !a.HasPlan || !a.HasPresence {
		return a
	}
	a.FirstPlannedStart = plan[0].StartMin
	a.LastPlannedEnd = plan[len(plan)-1].EndMin

	// Arrival: first presence start vs first planned window.
	firstStart := -1
	for _, b := range blocks {
		if b.Orphan || b.StartMin < 0 {
			continue
		}
		if firstStart < 0 || b.StartMin < firstStart {
			firstStart = b.StartMin
		}
	}
	if firstStart >= 0 {
		a.FirstPresenceStart = firstStart
		delta := firstStart - plan[0].StartMin
		if delta > 0 {
			a.LatenessMin = delta
		} else {
			a.EarlyArrivalMin = -delta
		}
	}

	// Departure and overtime: last closed presence end vs last planned
	// window. Minutes worked past the plan that fall inside an extra span
	// belong to the ledger, not to overtime.
	lastPlanned := plan[len(plan)-1].EndMin
	lastEnd := -1
	anyOpen := false
	for _, b := range blocks {
		if b.Orphan {
			continue
		}
		if b.Open() {
			anyOpen = true
			continue
		}
		if b.EndMin > lastEnd {
			lastEnd = b.EndMin
		}
	}
	if lastEnd >= 0 && !anyOpen {
		a.LastPresenceEnd = lastEnd
		if lastEnd < lastPlanned {
			a.EarlyLeaveMin = lastPlanned - lastEnd
		} else if lastEnd > lastPlanned {
			over := 0
			for _, b := range blocks {
				if !b.Closed() {
					continue
				}
				start := max(b.StartMin, lastPlanned)
				if b.EndMin <= start {
					continue
				}
				over += b.EndMin - start
				for _, s := range spans {
					if !s.IsExtra {
						continue
					}
					extra := workday.Span{StartMin: max(start, s.StartMin), EndMin: min(b.EndMin, s.EndMin)}
					if extra.EndMin > extra.StartMin {
						over -= extra.EndMin - extra.StartMin
					}
				}
			}
			if over > 0 {
				a.OvertimeMin = over
			}
		}
	}

	// Breaks: the gaps between consecutive non-extra windows. Worked break
	// minutes are presence inside those gaps.
	for i := 1; i < len(plan); i++ {
		gapStart, gapEnd := plan[i-1].EndMin, plan[i].StartMin
		if gapEnd <= gapStart {
			continue
		}
		a.BreakPlannedMin += gapEnd - gapStart
		gap := workday.Span{StartMin: gapStart, EndMin: gapEnd}
		for _, b := range blocks {
			a.BreakWorkedMin += b.Overlap(gap)
		}
	}

	return a
}
