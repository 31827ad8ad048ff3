package shift

import (
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// Shift kinds
const (
	KindWork    = "work"
	KindRest    = "rest"
	KindLeave   = "leave"
	KindAbsence = "absence"
)

// Shift is one planned day for one employee. CalendarDate is the planning
// date (midnight UTC); segments may run past midnight into the next calendar
// day and still belong to this shift's work-day.
type Shift struct {
	ID           string
	EmployeeID   string
	CalendarDate time.Time
	Kind         string
	Segments     []Segment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Segment is a planned time window. It has no identity of its own: it is
// addressed by its position within the owning shift.
type Segment struct {
	Position int
	Start    string // "HH:MM"
	End      string // "HH:MM"; before Start means the window crosses midnight
	IsExtra  bool
	Note     string
}

// Spans normalizes the shift's segments onto the work-day minute timeline,
// sorted by start. Overlapping segments return a *workday.OverlapError.
func (s *Shift) Spans() ([]workday.Span, error) {
	spans := make([]workday.Span, 0, len(s.Segments))
	for _, seg := range s.Segments {
		start, end, err := workday.NormalizeWindow(seg.Start, seg.End)
		if err != nil {
			return nil, err
		}
		spans = append(spans, workday.Span{
			Index:    seg.Position,
			StartMin: start,
			EndMin:   end,
			IsExtra:  seg.IsExtra,
			Note:     seg.Note,
		})
	}
	return workday.ValidateSpans(spans)
}

// HasWorkSegments reports whether the shift plans any actual presence. Rest,
// leave and absence days never trigger reconciliation anomalies.
func (s *Shift) HasWorkSegments() bool {
	return s.Kind == KindWork && len(s.Segments) > 0
}
