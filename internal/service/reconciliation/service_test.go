package reconciliation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/employee"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/shift"
)

// ----------------------------------------------------------------------
// in-memory fakes
// ----------------------------------------------------------------------

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]shift.Shift // id → shift
	err    error
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: map[string]shift.Shift{}}
}

func (f *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*shift.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.shifts {
		if s.EmployeeID == employeeID && s.CalendarDate.Equal(date) {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) Update(_ context.Context, s shift.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeShiftRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.shifts, id)
	return nil
}

func (f *fakeShiftRepo) List(_ context.Context, _ shift.ShiftFilter) ([]shift.Shift, int64, error) {
	return nil, 0, nil
}

type fakePunchRepo struct {
	mu      sync.Mutex
	punches []punch.PunchEvent
}

func (f *fakePunchRepo) Create(_ context.Context, p punch.PunchEvent) (punch.PunchEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.punches = append(f.punches, p)
	return p, nil
}

func (f *fakePunchRepo) GetByID(_ context.Context, id string) (punch.PunchEvent, error) {
	for _, p := range f.punches {
		if p.ID == id {
			return p, nil
		}
	}
	return punch.PunchEvent{}, punch.ErrPunchNotFound
}

func (f *fakePunchRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]punch.PunchEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []punch.PunchEvent
	for _, p := range f.punches {
		if p.EmployeeID == employeeID && !p.Timestamp.Before(from) && p.Timestamp.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) List(_ context.Context, _ punch.PunchFilter) ([]punch.PunchEvent, int64, error) {
	return nil, 0, nil
}

func (f *fakePunchRepo) replace(punches ...punch.PunchEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.punches = punches
}

type fakeAnomalyRepo struct {
	mu        sync.Mutex
	anomalies map[string]anomaly.Anomaly
}

func newFakeAnomalyRepo() *fakeAnomalyRepo {
	return &fakeAnomalyRepo{anomalies: map[string]anomaly.Anomaly{}}
}

func (f *fakeAnomalyRepo) Create(_ context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.anomalies[a.ID] = a
	return a, nil
}

func (f *fakeAnomalyRepo) GetByID(_ context.Context, id string) (anomaly.Anomaly, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.anomalies[id]
	if !ok {
		return anomaly.Anomaly{}, anomaly.ErrAnomalyNotFound
	}
	return a, nil
}

func (f *fakeAnomalyRepo) Update(_ context.Context, a anomaly.Anomaly) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.anomalies[a.ID] = a
	return nil
}

func (f *fakeAnomalyRepo) ListActiveByEmployeeAndDay(_ context.Context, employeeID string, workDay time.Time) ([]anomaly.Anomaly, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []anomaly.Anomaly
	for _, a := range f.anomalies {
		if a.EmployeeID == employeeID && a.WorkDay.Equal(workDay) && a.Status != anomaly.StatusObsolete {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnomalyRepo) List(_ context.Context, _ anomaly.AnomalyFilter) ([]anomaly.Anomaly, int64, error) {
	return nil, 0, nil
}

func (f *fakeAnomalyRepo) byType(tpe string) *anomaly.Anomaly {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.anomalies {
		if a.Type == tpe && a.Status != anomaly.StatusObsolete {
			cp := a
			return &cp
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]extrapay.ExtraPayment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]extrapay.ExtraPayment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, p extrapay.ExtraPayment) (extrapay.ExtraPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[p.ID] = p
	return p, nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (extrapay.ExtraPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return extrapay.ExtraPayment{}, extrapay.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) GetBySegment(_ context.Context, shiftID string, position int) (*extrapay.ExtraPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ShiftID == shiftID && p.SegmentPosition == position {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) ListByShift(_ context.Context, shiftID string) ([]extrapay.ExtraPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []extrapay.ExtraPayment
	for _, p := range f.payments {
		if p.ShiftID == shiftID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Update(_ context.Context, p extrapay.ExtraPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) List(_ context.Context, _ extrapay.PaymentFilter) ([]extrapay.ExtraPayment, int64, error) {
	return nil, 0, nil
}

func (f *fakePaymentRepo) StatsByEmployee(_ context.Context, _ string) (map[string]extrapay.StatusStats, error) {
	return nil, nil
}

func (f *fakePaymentRepo) setStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.payments[id]
	p.Status = status
	f.payments[id] = p
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListIDs(_ context.Context) ([]string, error) {
	var out []string
	for id := range f.employees {
		out = append(out, id)
	}
	return out, nil
}

// ----------------------------------------------------------------------
// harness
// ----------------------------------------------------------------------

type harness struct {
	svc      *ReconcileServiceImpl
	shifts   *fakeShiftRepo
	punches  *fakePunchRepo
	anoms    *fakeAnomalyRepo
	payments *fakePaymentRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		WorkDay:    config.WorkDayConfig{CutoffHour: 6, DefaultTimezone: "Europe/Paris"},
		Thresholds: testThresholds(),
		ExtraPay:   config.ExtraPayConfig{DefaultHourlyRate: "10.00"},
	}
	h := &harness{
		shifts:   newFakeShiftRepo(),
		punches:  &fakePunchRepo{},
		anoms:    newFakeAnomalyRepo(),
		payments: newFakePaymentRepo(),
	}
	emps := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Nora Vidal"},
	}}
	svc, err := NewReconcileService(nil, h.shifts, h.punches, h.anoms, h.payments, emps, cfg,
		nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	// Two days after the test day, so the work-day has fully elapsed.
	svc.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }
	h.svc = svc
	return h
}

func (h *harness) planShift(id string, kind string, segments ...shift.Segment) {
	h.shifts.shifts[id] = shift.Shift{
		ID:           id,
		EmployeeID:   "emp-1",
		CalendarDate: testDay,
		Kind:         kind,
		Segments:     segments,
	}
}

func seg(pos int, start, end string, extra bool) shift.Segment {
	return shift.Segment{Position: pos, Start: start, End: end, IsExtra: extra}
}

func anomalyTypes(anomalies []anomaly.Anomaly) map[string]string {
	out := map[string]string{}
	for _, a := range anomalies {
		out[a.Type] = a.Severity
	}
	return out
}

// ----------------------------------------------------------------------
// scenarios
// ----------------------------------------------------------------------

func TestReconcileSplitDayWithMissedBreak(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork,
		seg(0, "09:00", "12:00", false),
		seg(1, "13:00", "17:00", false),
	)
	h.punches.replace(
		punchAt("p1", punch.KindIn, "09:15"),
		punchAt("p2", punch.KindOut, "17:00"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	types := anomalyTypes(res.Anomalies)
	require.Len(t, types, 2)
	assert.Equal(t, anomaly.SeverityMedium, types[anomaly.TypeLateArrival])
	assert.Contains(t, types, anomaly.TypeBreakNotTaken)
	assert.Empty(t, res.ExtraPayments)

	// One break anomaly for the whole day, not one per segment pair.
	count := 0
	for _, a := range h.anoms.anomalies {
		if a.Type == anomaly.TypeBreakNotTaken {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestReconcileExtraOnlyEvening(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "20:00", "00:00", true))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "20:00"),
		punchAt("p2", punch.KindOut, "22:30"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	// Extra segments are paid, never judged.
	assert.Empty(t, res.Anomalies)
	require.Len(t, res.ExtraPayments, 1)

	p := res.ExtraPayments[0]
	assert.True(t, p.HoursWorked.Equal(decimal.RequireFromString("2.5")), p.HoursWorked.String())
	assert.True(t, p.InitialHoursWorked.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("25")), p.Amount.String())
	assert.Equal(t, extrapay.StatusToPay, p.Status)
	assert.Equal(t, "20:00", p.InitialSegmentSnapshot.Start)
}

func TestReconcileAbsence(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork,
		seg(0, "09:00", "12:00", false),
		seg(1, "13:00", "17:00", false),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	// Exactly one absence for the day, not one per planned segment.
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, anomaly.TypeUnjustifiedAbsence, res.Anomalies[0].Type)
	assert.Equal(t, anomaly.SeverityCritical, res.Anomalies[0].Severity)

	t.Run("day still in progress stays silent", func(t *testing.T) {
		h2 := newHarness(t)
		h2.planShift("shift-1", shift.KindWork, seg(0, "09:00", "17:00", false))
		h2.svc.now = func() time.Time { return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) }

		res, err := h2.svc.Reconcile(context.Background(), "emp-1", testDay)
		require.NoError(t, err)
		assert.Empty(t, res.Anomalies)
	})
}

func TestReconcilePaidRecordSurvivesShiftEdit(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "13:00", "17:00", true))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "13:00"),
		punchAt("p2", punch.KindOut, "17:00"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	paymentID := res.ExtraPayments[0].ID
	assert.True(t, res.ExtraPayments[0].HoursWorked.Equal(decimal.NewFromInt(4)))

	h.payments.setStatus(paymentID, extrapay.StatusPaid)

	// Admin shrinks the segment to two hours after payment.
	h.planShift("shift-1", shift.KindWork, seg(0, "13:00", "15:00", true))

	res, err = h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	assert.True(t, res.ExtraPayments[0].HoursWorked.Equal(decimal.NewFromInt(4)),
		"paid record must keep its settled hours")
	assert.Equal(t, extrapay.StatusPaid, res.ExtraPayments[0].Status)
}

func TestReconcileZeroesUnpaidRowWhenWorkDisappears(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "18:00", "22:00", true))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "18:00"),
		punchAt("p2", punch.KindOut, "22:00"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	paymentID := res.ExtraPayments[0].ID
	require.True(t, res.ExtraPayments[0].HoursWorked.Equal(decimal.NewFromInt(4)))

	// The punches turn out to be a capture error and are removed.
	h.punches.replace()

	_, err = h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	row, err := h.payments.GetByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.True(t, row.HoursWorked.IsZero(), "unpaid row must follow worked time down to zero, got %s", row.HoursWorked)
	assert.True(t, row.Amount.IsZero(), row.Amount.String())
	assert.Equal(t, extrapay.StatusToPay, row.Status)
	// The first-write snapshot still records what was originally computed.
	assert.True(t, row.InitialHoursWorked.Equal(decimal.NewFromInt(4)))
}

func TestReconcileZeroesRowWhenSegmentLosesExtraFlag(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "18:00", "22:00", true))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "18:00"),
		punchAt("p2", punch.KindOut, "22:00"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	paymentID := res.ExtraPayments[0].ID

	// Admin re-plans the evening as ordinary work.
	h.planShift("shift-1", shift.KindWork, seg(0, "18:00", "22:00", false))

	_, err = h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	row, err := h.payments.GetByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.True(t, row.HoursWorked.IsZero(), "row for an un-flagged segment must be zeroed, got %s", row.HoursWorked)
	assert.True(t, row.Amount.IsZero())
	assert.Equal(t, extrapay.StatusToPay, row.Status)
}

// ----------------------------------------------------------------------
// properties
// ----------------------------------------------------------------------

func TestReconcileIdempotency(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork,
		seg(0, "09:00", "12:00", false),
		seg(1, "13:00", "17:00", false),
	)
	h.punches.replace(
		punchAt("p1", punch.KindIn, "09:15"),
		punchAt("p2", punch.KindOut, "17:00"),
	)

	first, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	second, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	require.Equal(t, len(first.Anomalies), len(second.Anomalies))
	firstByType := map[string]anomaly.Anomaly{}
	for _, a := range first.Anomalies {
		firstByType[a.Type] = a
	}
	for _, a := range second.Anomalies {
		prev := firstByType[a.Type]
		assert.Equal(t, prev.ID, a.ID, "no duplicate rows on re-run")
		assert.Equal(t, prev.Status, a.Status)
		assert.Equal(t, prev.UpdatedAt, a.UpdatedAt, "unchanged inputs mean no churn")
	}
	assert.Len(t, h.anoms.anomalies, len(first.Anomalies))
}

func TestReconcileStickyDecisions(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "09:00", "17:00", false))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "09:45"),
		punchAt("p2", punch.KindOut, "17:00"),
	)

	_, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	late := h.anoms.byType(anomaly.TypeLateArrival)
	require.NotNil(t, late)

	admin := "admin-1"
	handledAt := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	late.Status = anomaly.StatusValidated
	late.HandledBy = &admin
	late.HandledAt = &handledAt
	require.NoError(t, h.anoms.Update(context.Background(), *late))

	// Same discrepancy still present: the admin decision must not reset.
	_, err = h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)

	after := h.anoms.byType(anomaly.TypeLateArrival)
	require.NotNil(t, after)
	assert.Equal(t, anomaly.StatusValidated, after.Status)
	assert.Equal(t, &admin, after.HandledBy)
}

func TestReconcileObsoletesFixedDiscrepancies(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork,
		seg(0, "09:00", "12:00", false),
		seg(1, "13:00", "17:00", false),
	)
	h.punches.replace(
		punchAt("p1", punch.KindIn, "09:45"),
		punchAt("p2", punch.KindOut, "17:00"),
	)

	_, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.NotNil(t, h.anoms.byType(anomaly.TypeLateArrival))

	// The missing in-punch is corrected: the employee was on time and took
	// the break.
	h.punches.replace(
		punchAt("p1", punch.KindIn, "09:00"),
		punchAt("p2", punch.KindOut, "12:00"),
		punchAt("p3", punch.KindIn, "13:00"),
		punchAt("p4", punch.KindOut, "17:00"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	assert.Empty(t, res.Anomalies)

	assert.Nil(t, h.anoms.byType(anomaly.TypeLateArrival), "superseded anomaly goes obsolete")
	obsolete := 0
	for _, a := range h.anoms.anomalies {
		if a.Status == anomaly.StatusObsolete {
			obsolete++
		}
	}
	assert.Greater(t, obsolete, 0)
}

func TestReconcileSnapshotImmutability(t *testing.T) {
	h := newHarness(t)
	h.planShift("shift-1", shift.KindWork, seg(0, "20:00", "23:00", true))
	h.punches.replace(
		punchAt("p1", punch.KindIn, "20:00"),
		punchAt("p2", punch.KindOut, "22:30"),
	)

	res, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	initial := res.ExtraPayments[0].InitialHoursWorked

	// The out punch is corrected downward; the current value follows, the
	// snapshot does not.
	h.punches.replace(
		punchAt("p1", punch.KindIn, "20:00"),
		punchAt("p2", punch.KindOut, "21:00"),
	)

	res, err = h.svc.Reconcile(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	require.Len(t, res.ExtraPayments, 1)
	assert.True(t, res.ExtraPayments[0].HoursWorked.Equal(decimal.NewFromInt(1)))
	assert.True(t, res.ExtraPayments[0].InitialHoursWorked.Equal(initial))
	assert.True(t, initial.Equal(decimal.RequireFromString("2.5")))
}

func TestRecomputeFrozenFailsLoudly(t *testing.T) {
	p := extrapay.ExtraPayment{Status: extrapay.StatusPaid, HourlyRate: decimal.NewFromInt(10)}
	err := Recompute(&p, 120, time.Now())
	assert.ErrorIs(t, err, extrapay.ErrPaymentFrozen)

	p.Status = extrapay.StatusCancelled
	err = Recompute(&p, 120, time.Now())
	assert.ErrorIs(t, err, extrapay.ErrPaymentFrozen)
}

func TestReconcileTransientLookupFailure(t *testing.T) {
	h := newHarness(t)
	h.shifts.err = context.DeadlineExceeded

	_, err := h.svc.Reconcile(context.Background(), "emp-1", testDay)
	assert.ErrorIs(t, err, reconciliation.ErrTransient)
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	locks := newKeyedMutex()

	var mu sync.Mutex
	running := map[string]int{}
	maxSeen := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		key := "a"
		if i%2 == 0 {
			key = "b"
		}
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			unlock := locks.Lock(key)
			defer unlock()

			mu.Lock()
			running[key]++
			if running[key] > maxSeen[key] {
				maxSeen[key] = running[key]
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running[key]--
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen["a"], "same key never overlaps")
	assert.Equal(t, 1, maxSeen["b"])

	locks.mu.Lock()
	assert.Empty(t, locks.locks, "entries are reclaimed")
	locks.mu.Unlock()
}
