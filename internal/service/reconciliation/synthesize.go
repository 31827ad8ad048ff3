package reconciliation

import (
	"fmt"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// Draft is a freshly detected discrepancy before it is diffed against the
// stored anomalies for the day.
type Draft struct {
	Type        string
	Severity    string
	Description string
	Details     anomaly.Details
}

// Synthesize turns a day assessment into at most one draft per anomaly type.
// dayElapsed gates absence detection: a day still in progress never yields
// unjustified_absence. punchCount is the raw punch total for the day, used to
// distinguish "absent" from "present but mis-matched".
func Synthesize(a Assessment, t config.ThresholdConfig, dayElapsed bool, punchCount int) []Draft {
	var drafts []Draft

	// Absence preempts everything: a planned, fully elapsed day with zero
	// punches is exactly one unjustified_absence, never one per segment.
	if a.HasPlan && punchCount == 0 {
		if dayElapsed {
			drafts = append(drafts, Draft{
				Type:        anomaly.TypeUnjustifiedAbsence,
				Severity:    anomaly.SeverityCritical,
				Description: "no punches recorded for a planned work day",
				Details: anomaly.Details{
					ExpectedTime: clockPtr(a.FirstPlannedStart),
				},
			})
		}
		return drafts
	}

	if a.LatenessMin >= t.MinSignificantMinutes {
		drafts = append(drafts, Draft{
			Type:     anomaly.TypeLateArrival,
			Severity: scaled(a.LatenessMin, t.LateMediumMinutes, t.LateCriticalMinutes),
			Description: fmt.Sprintf("arrived %d min after planned start %s",
				a.LatenessMin, workday.FormatMinutes(a.FirstPlannedStart)),
			Details: anomaly.Details{
				ExpectedTime: clockPtr(a.FirstPlannedStart),
				ActualTime:   clockPtr(a.FirstPresenceStart),
				DeltaMinutes: intPtr(a.LatenessMin),
			},
		})
	}

	if a.EarlyLeaveMin >= t.MinSignificantMinutes {
		drafts = append(drafts, Draft{
			Type:     anomaly.TypeEarlyDeparture,
			Severity: scaled(a.EarlyLeaveMin, t.EarlyLeaveMediumMinutes, t.EarlyLeaveCriticalMinutes),
			Description: fmt.Sprintf("left %d min before planned end %s",
				a.EarlyLeaveMin, workday.FormatMinutes(a.LastPlannedEnd)),
			Details: anomaly.Details{
				ExpectedTime: clockPtr(a.LastPlannedEnd),
				ActualTime:   clockPtr(a.LastPresenceEnd),
				DeltaMinutes: intPtr(a.EarlyLeaveMin),
			},
		})
	}

	if a.OvertimeMin >= t.MinSignificantMinutes {
		severity := anomaly.SeverityInfo
		switch {
		case a.OvertimeMin > t.OvertimePendingCeilingMinutes:
			severity = anomaly.SeverityCritical
		case a.OvertimeMin > t.OvertimeAutoValidateMinutes:
			severity = anomaly.SeverityMedium
		}
		drafts = append(drafts, Draft{
			Type:     anomaly.TypeOvertimePending,
			Severity: severity,
			Description: fmt.Sprintf("worked %d min past planned end %s",
				a.OvertimeMin, workday.FormatMinutes(a.LastPlannedEnd)),
			Details: anomaly.Details{
				ExpectedTime: clockPtr(a.LastPlannedEnd),
				ActualTime:   clockPtr(a.LastPresenceEnd),
				DeltaMinutes: intPtr(a.OvertimeMin),
			},
		})
	}

	// One break anomaly per day, regardless of how many gaps the plan has.
	if a.BreakPlannedMin > 0 && a.BreakWorkedMin >= t.MinSignificantMinutes {
		if a.BreakWorkedMin >= a.BreakPlannedMin {
			drafts = append(drafts, Draft{
				Type:        anomaly.TypeBreakNotTaken,
				Severity:    anomaly.SeverityMedium,
				Description: fmt.Sprintf("worked through the full %d min planned break", a.BreakPlannedMin),
				Details:     anomaly.Details{DeltaMinutes: intPtr(a.BreakPlannedMin)},
			})
		} else {
			drafts = append(drafts, Draft{
				Type:     anomaly.TypeBreakExceeded,
				Severity: anomaly.SeverityLow,
				Description: fmt.Sprintf("worked %d of %d planned break minutes",
					a.BreakWorkedMin, a.BreakPlannedMin),
				Details: anomaly.Details{DeltaMinutes: intPtr(a.BreakWorkedMin)},
			})
		}
	}

	if d := unplannedDraft(a, t); d != nil {
		drafts = append(drafts, *d)
	}

	return drafts
}

// unplannedDraft merges every out-of-plan presence condition into the single
// unplanned_punch slot for the day: orphaned punches, blocks matching no
// planned window, and arrivals earlier than the configured ceiling.
func unplannedDraft(a Assessment, t config.ThresholdConfig) *Draft {
	earlyBeyondCeiling := a.EarlyArrivalMin > t.EarlyArrivalCeilingMinutes

	if len(a.OrphanBlocks) == 0 && len(a.UnplannedBlocks) == 0 && !earlyBeyondCeiling {
		return nil
	}

	d := &Draft{
		Type:     anomaly.TypeUnplannedPunch,
		Severity: anomaly.SeverityLow,
	}

	switch {
	case len(a.OrphanBlocks) > 0:
		d.Severity = anomaly.SeverityMedium
		d.Description = fmt.Sprintf("%d punch(es) could not be paired", len(a.OrphanBlocks))
	case len(a.UnplannedBlocks) > 0:
		minutes := 0
		for _, b := range a.UnplannedBlocks {
			minutes += b.Duration()
		}
		d.Description = fmt.Sprintf("presence outside any planned window (%d min)", minutes)
		d.Details.DeltaMinutes = intPtr(minutes)
	default:
		d.Description = fmt.Sprintf("arrived %d min before planned start %s",
			a.EarlyArrivalMin, workday.FormatMinutes(a.FirstPlannedStart))
		d.Details = anomaly.Details{
			ExpectedTime: clockPtr(a.FirstPlannedStart),
			ActualTime:   clockPtr(a.FirstPresenceStart),
			DeltaMinutes: intPtr(a.EarlyArrivalMin),
		}
	}
	return d
}

// scaled maps a positive delta onto the three-step severity ladder shared by
// lateness and early departure.
func scaled(delta, medium, critical int) string {
	switch {
	case delta > critical:
		return anomaly.SeverityCritical
	case delta >= medium:
		return anomaly.SeverityMedium
	default:
		return anomaly.SeverityInfo
	}
}

func clockPtr(minute int) *string {
	if minute < 0 {
		return nil
	}
	s := workday.FormatMinutes(minute)
	return &s
}

func intPtr(v int) *int {
	return &v
}
