package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/employee"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/shift"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
	"github.com/shiftwatch/timeclock-backend-go/internal/repository/postgresql"
)

// AnomalyPublisher pushes freshly created anomalies to live subscribers.
type AnomalyPublisher interface {
	PublishAnomaly(a anomaly.Anomaly)
}

type ReconcileServiceImpl struct {
	db *database.DB
	shift.ShiftRepository
	punch.PunchRepository
	anomaly.AnomalyRepository
	extrapay.ExtraPaymentRepository
	employee.EmployeeRepository

	thresholds  config.ThresholdConfig
	cutoffHour  int
	defaultLoc  *time.Location
	defaultRate decimal.Decimal

	publisher AnomalyPublisher
	logger    *slog.Logger
	now       func() time.Time
	locks     *keyedMutex
}

func NewReconcileService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	punchRepo punch.PunchRepository,
	anomalyRepo anomaly.AnomalyRepository,
	paymentRepo extrapay.ExtraPaymentRepository,
	employeeRepo employee.EmployeeRepository,
	cfg *config.Config,
	publisher AnomalyPublisher,
	logger *slog.Logger,
) (*ReconcileServiceImpl, error) {
	loc, err := time.LoadLocation(cfg.WorkDay.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load default timezone: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.ExtraPay.DefaultHourlyRate)
	if err != nil {
		return nil, fmt.Errorf("parse default hourly rate: %w", err)
	}
	return &ReconcileServiceImpl{
		db:                     db,
		ShiftRepository:        shiftRepo,
		PunchRepository:        punchRepo,
		AnomalyRepository:      anomalyRepo,
		ExtraPaymentRepository: paymentRepo,
		EmployeeRepository:     employeeRepo,
		thresholds:             cfg.Thresholds,
		cutoffHour:             cfg.WorkDay.CutoffHour,
		defaultLoc:             loc,
		defaultRate:            rate,
		publisher:              publisher,
		logger:                 logger,
		now:                    func() time.Time { return time.Now().UTC() },
		locks:                  newKeyedMutex(),
	}, nil
}

// Reconcile implements reconciliation.ReconcileService. Runs for the same
// (employee, work-day) key are serialized; the computation is pure and only
// the persistence step commits, in one transaction, so a failed run leaves
// prior state untouched.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, employeeID string, workDay time.Time) (reconciliation.Result, error) {
	unlock := s.locks.Lock(employeeID + "|" + workDay.Format("2006-01-02"))
	defer unlock()

	result := reconciliation.Result{EmployeeID: employeeID, WorkDay: workDay}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return result, err
		}
		return result, fmt.Errorf("%w: employee lookup: %v", reconciliation.ErrTransient, err)
	}

	loc := s.defaultLoc
	if emp.Timezone != nil {
		if l, err := time.LoadLocation(*emp.Timezone); err == nil {
			loc = l
		}
	}

	sh, err := s.ShiftRepository.GetByEmployeeAndDate(ctx, employeeID, workDay)
	if err != nil {
		return result, fmt.Errorf("%w: shift lookup: %v", reconciliation.ErrTransient, err)
	}

	from, to := workday.Bounds(workDay, loc, s.cutoffHour)
	punches, err := s.PunchRepository.ListByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return result, fmt.Errorf("%w: punch lookup: %v", reconciliation.ErrTransient, err)
	}

	// Pure computation, no I/O from here to the persistence step.
	var spans []workday.Span
	if sh != nil && sh.Kind == shift.KindWork {
		spans, err = sh.Spans()
		if err != nil {
			// Overlaps are rejected at shift-save time, so this is data
			// corruption, not a transient condition.
			return result, fmt.Errorf("shift %s has invalid segments: %w", sh.ID, err)
		}
	}

	blocks := AggregatePunches(punches, workDay, loc)
	assessment := Match(spans, blocks)
	dayElapsed := workday.Elapsed(workDay, loc, s.cutoffHour, s.now())
	drafts := Synthesize(assessment, s.thresholds, dayElapsed, len(punches))

	var created []anomaly.Anomaly
	err = s.withTx(ctx, func(txCtx context.Context) error {
		anomalies, fresh, err := s.persistAnomalies(txCtx, employeeID, workDay, drafts)
		if err != nil {
			return err
		}
		result.Anomalies = anomalies
		created = fresh

		if sh != nil {
			payments, err := s.settleExtras(txCtx, emp, sh, workDay, assessment)
			if err != nil {
				return err
			}
			result.ExtraPayments = payments
		}
		return nil
	})
	if err != nil {
		return reconciliation.Result{EmployeeID: employeeID, WorkDay: workDay}, err
	}

	for _, a := range created {
		if s.publisher != nil {
			s.publisher.PublishAnomaly(a)
		}
	}

	s.logger.DebugContext(ctx, "reconciled employee day",
		slog.String("employee_id", employeeID),
		slog.String("work_day", workDay.Format("2006-01-02")),
		slog.Int("anomalies", len(result.Anomalies)),
		slog.Int("extra_payments", len(result.ExtraPayments)),
	)

	return result, nil
}

// persistAnomalies diffs the fresh drafts against the stored non-obsolete
// anomalies for the day: update pending rows in place, leave handled rows
// alone, create the rest, and obsolete whatever was not re-detected. Returns
// the day's active set and the subset that was newly created.
func (s *ReconcileServiceImpl) persistAnomalies(ctx context.Context, employeeID string, workDay time.Time, drafts []Draft) ([]anomaly.Anomaly, []anomaly.Anomaly, error) {
	active, err := s.AnomalyRepository.ListActiveByEmployeeAndDay(ctx, employeeID, workDay)
	if err != nil {
		return nil, nil, fmt.Errorf("list active anomalies: %w", err)
	}

	byType := make(map[string]anomaly.Anomaly, len(active))
	for _, a := range active {
		byType[a.Type] = a
	}

	now := s.now()
	var out []anomaly.Anomaly
	var created []anomaly.Anomaly
	detected := make(map[string]bool, len(drafts))

	for _, d := range drafts {
		detected[d.Type] = true

		existing, ok := byType[d.Type]
		if !ok {
			a := anomaly.Anomaly{
				ID:          uuid.NewString(),
				EmployeeID:  employeeID,
				WorkDay:     workDay,
				Type:        d.Type,
				Severity:    d.Severity,
				Status:      anomaly.StatusPending,
				Description: d.Description,
				Details:     d.Details,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			a, err := s.AnomalyRepository.Create(ctx, a)
			if err != nil {
				return nil, nil, fmt.Errorf("create anomaly: %w", err)
			}
			out = append(out, a)
			created = append(created, a)
			continue
		}

		if existing.Handled() {
			// Sticky: an admin decision survives re-detection untouched.
			out = append(out, existing)
			continue
		}

		changed := existing.Severity != d.Severity ||
			existing.Description != d.Description ||
			!detailsEqual(existing.Details, d.Details)
		if changed {
			existing.Severity = d.Severity
			existing.Description = d.Description
			existing.Details = d.Details
			existing.UpdatedAt = now
			if err := s.AnomalyRepository.Update(ctx, existing); err != nil {
				return nil, nil, fmt.Errorf("update anomaly: %w", err)
			}
		}
		out = append(out, existing)
	}

	for _, a := range active {
		if detected[a.Type] {
			continue
		}
		a.Status = anomaly.StatusObsolete
		a.UpdatedAt = now
		if err := s.AnomalyRepository.Update(ctx, a); err != nil {
			return nil, nil, fmt.Errorf("obsolete anomaly: %w", err)
		}
	}

	return out, created, nil
}

// settleExtras maintains the ledger rows for the day's extra segments.
// Frozen rows are skipped entirely; their current values are reported as-is.
func (s *ReconcileServiceImpl) settleExtras(ctx context.Context, emp employee.Employee, sh *shift.Shift, workDay time.Time, a Assessment) ([]extrapay.ExtraPayment, error) {
	rate := s.defaultRate
	if emp.ExtraHourlyRate != nil {
		rate = *emp.ExtraHourlyRate
	}

	now := s.now()
	var out []extrapay.ExtraPayment
	seen := make(map[int]bool)

	for _, res := range a.Segments {
		if !res.Span.IsExtra {
			continue
		}
		seen[res.Span.Index] = true

		existing, err := s.ExtraPaymentRepository.GetBySegment(ctx, sh.ID, res.Span.Index)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get extra payment: %w", err)
		}

		if existing == nil {
			// Nothing worked and nothing ledgered yet: no row to write.
			if res.WorkedMin == 0 {
				continue
			}
			hours := PayableHours(res.WorkedMin)
			amount := PayableAmount(hours, rate)
			seg := segmentAt(sh, res.Span.Index)
			p := extrapay.ExtraPayment{
				ID:              uuid.NewString(),
				EmployeeID:      emp.ID,
				ShiftID:         sh.ID,
				SegmentPosition: res.Span.Index,
				Date:            workDay,
				HoursWorked:     hours,
				HourlyRate:      rate,
				Amount:          amount,
				// Snapshot on first write; never overwritten afterwards.
				InitialHoursWorked: hours,
				InitialAmount:      amount,
				InitialSegmentSnapshot: extrapay.SegmentSnapshot{
					Start: seg.Start,
					End:   seg.End,
					Note:  seg.Note,
				},
				Status:         extrapay.StatusToPay,
				CreatedAt:      now,
				LastModifiedAt: now,
			}
			p, err := s.ExtraPaymentRepository.Create(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("create extra payment: %w", err)
			}
			out = append(out, p)
			continue
		}

		if existing.Frozen() {
			out = append(out, *existing)
			continue
		}

		// Recompute even when worked time dropped to zero, so an unpaid
		// row never carries hours a punch correction has taken away.
		p, err := s.recomputeRow(ctx, *existing, res.WorkedMin, now)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	// Rows whose segment vanished or lost its extra flag in a shift edit:
	// zero them out while still unpaid rather than keeping stale money.
	rows, err := s.ExtraPaymentRepository.ListByShift(ctx, sh.ID)
	if err != nil {
		return nil, fmt.Errorf("list extra payments: %w", err)
	}
	for _, row := range rows {
		if seen[row.SegmentPosition] || row.Frozen() {
			continue
		}
		p, err := s.recomputeRow(ctx, row, 0, now)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

// recomputeRow refreshes a non-frozen ledger row's current hours and amount,
// writing only when the values actually changed.
func (s *ReconcileServiceImpl) recomputeRow(ctx context.Context, p extrapay.ExtraPayment, workedMin int, now time.Time) (extrapay.ExtraPayment, error) {
	hours := PayableHours(workedMin)
	amount := PayableAmount(hours, p.HourlyRate)
	if p.HoursWorked.Equal(hours) && p.Amount.Equal(amount) {
		return p, nil
	}
	if err := Recompute(&p, workedMin, now); err != nil {
		return extrapay.ExtraPayment{}, err
	}
	if err := s.ExtraPaymentRepository.Update(ctx, p); err != nil {
		return extrapay.ExtraPayment{}, fmt.Errorf("update extra payment: %w", err)
	}
	return p, nil
}

// withTx runs fn in one transaction so a day's anomalies and ledger rows
// commit together or not at all. A nil db (pure in-memory wiring) runs fn
// directly.
func (s *ReconcileServiceImpl) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}

func segmentAt(sh *shift.Shift, position int) shift.Segment {
	for _, seg := range sh.Segments {
		if seg.Position == position {
			return seg
		}
	}
	return shift.Segment{Position: position}
}

func detailsEqual(a, b anomaly.Details) bool {
	return ptrEq(a.ExpectedTime, b.ExpectedTime) &&
		ptrEq(a.ActualTime, b.ActualTime) &&
		ptrEq(a.DeltaMinutes, b.DeltaMinutes)
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
