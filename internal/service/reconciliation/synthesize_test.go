package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
)

func testThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		MinSignificantMinutes:         5,
		LateMediumMinutes:             10,
		LateCriticalMinutes:           30,
		EarlyLeaveMediumMinutes:       15,
		EarlyLeaveCriticalMinutes:     30,
		EarlyArrivalCeilingMinutes:    30,
		OvertimeAutoValidateMinutes:   30,
		OvertimePendingCeilingMinutes: 90,
	}
}

func draftTypes(drafts []Draft) []string {
	types := make([]string, 0, len(drafts))
	for _, d := range drafts {
		types = append(types, d.Type)
	}
	return types
}

func TestSynthesize(t *testing.T) {
	th := testThresholds()

	t.Run("insignificant deltas produce nothing", func(t *testing.T) {
		a := Assessment{HasPlan: true, HasPresence: true, LatenessMin: 4, EarlyLeaveMin: 3}
		assert.Empty(t, Synthesize(a, th, true, 2))
	})

	t.Run("lateness severity ladder", func(t *testing.T) {
		for _, tc := range []struct {
			delta    int
			severity string
		}{
			{7, anomaly.SeverityInfo},
			{15, anomaly.SeverityMedium},
			{45, anomaly.SeverityCritical},
		} {
			a := Assessment{HasPlan: true, HasPresence: true, LatenessMin: tc.delta,
				FirstPlannedStart: 540, FirstPresenceStart: 540 + tc.delta}
			drafts := Synthesize(a, th, true, 2)
			require.Len(t, drafts, 1)
			assert.Equal(t, anomaly.TypeLateArrival, drafts[0].Type)
			assert.Equal(t, tc.severity, drafts[0].Severity, "delta %d", tc.delta)
			assert.Equal(t, tc.delta, *drafts[0].Details.DeltaMinutes)
		}
	})

	t.Run("overtime severity ladder", func(t *testing.T) {
		for _, tc := range []struct {
			delta    int
			severity string
		}{
			{20, anomaly.SeverityInfo},
			{60, anomaly.SeverityMedium},
			{120, anomaly.SeverityCritical},
		} {
			a := Assessment{HasPlan: true, HasPresence: true, OvertimeMin: tc.delta,
				LastPlannedEnd: 1020, LastPresenceEnd: 1020 + tc.delta}
			drafts := Synthesize(a, th, true, 2)
			require.Len(t, drafts, 1)
			assert.Equal(t, anomaly.TypeOvertimePending, drafts[0].Type)
			assert.Equal(t, tc.severity, drafts[0].Severity, "delta %d", tc.delta)
		}
	})

	t.Run("full break worked through is break_not_taken", func(t *testing.T) {
		a := Assessment{HasPlan: true, HasPresence: true, BreakPlannedMin: 60, BreakWorkedMin: 60}
		drafts := Synthesize(a, th, true, 2)
		assert.Equal(t, []string{anomaly.TypeBreakNotTaken}, draftTypes(drafts))
	})

	t.Run("shortened break is break_exceeded", func(t *testing.T) {
		a := Assessment{HasPlan: true, HasPresence: true, BreakPlannedMin: 60, BreakWorkedMin: 20}
		drafts := Synthesize(a, th, true, 2)
		assert.Equal(t, []string{anomaly.TypeBreakExceeded}, draftTypes(drafts))
	})

	t.Run("absence only when planned, elapsed and punchless", func(t *testing.T) {
		a := Assessment{HasPlan: true}

		drafts := Synthesize(a, th, true, 0)
		require.Len(t, drafts, 1)
		assert.Equal(t, anomaly.TypeUnjustifiedAbsence, drafts[0].Type)
		assert.Equal(t, anomaly.SeverityCritical, drafts[0].Severity)

		// Day still running: no verdict yet.
		assert.Empty(t, Synthesize(a, th, false, 0))

		// No plan: nothing to miss.
		assert.Empty(t, Synthesize(Assessment{}, th, true, 0))
	})

	t.Run("early arrival within ceiling is informational silence", func(t *testing.T) {
		a := Assessment{HasPlan: true, HasPresence: true, EarlyArrivalMin: 20}
		assert.Empty(t, Synthesize(a, th, true, 2))
	})

	t.Run("early arrival beyond ceiling flags unplanned presence", func(t *testing.T) {
		a := Assessment{HasPlan: true, HasPresence: true, EarlyArrivalMin: 50,
			FirstPlannedStart: 540, FirstPresenceStart: 490}
		drafts := Synthesize(a, th, true, 2)
		assert.Equal(t, []string{anomaly.TypeUnplannedPunch}, draftTypes(drafts))
	})

	t.Run("orphan punches dominate the unplanned slot", func(t *testing.T) {
		a := Assessment{
			HasPlan: true, HasPresence: true,
			OrphanBlocks:    []PresenceBlock{{StartMin: 400, EndMin: -1, Orphan: true}},
			UnplannedBlocks: []PresenceBlock{{StartMin: 900, EndMin: 960}},
		}
		drafts := Synthesize(a, th, true, 3)
		require.Len(t, drafts, 1)
		assert.Equal(t, anomaly.TypeUnplannedPunch, drafts[0].Type)
		assert.Equal(t, anomaly.SeverityMedium, drafts[0].Severity)
	})

	t.Run("at most one draft per type", func(t *testing.T) {
		a := Assessment{
			HasPlan: true, HasPresence: true,
			LatenessMin: 20, OvertimeMin: 40,
			BreakPlannedMin: 60, BreakWorkedMin: 60,
			UnplannedBlocks: []PresenceBlock{{StartMin: 100, EndMin: 160}},
		}
		drafts := Synthesize(a, th, true, 4)
		seen := map[string]bool{}
		for _, d := range drafts {
			assert.False(t, seen[d.Type], d.Type)
			seen[d.Type] = true
		}
	})
}
