package reconciliation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/employee"
	domain "github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// Sweeper periodically re-reconciles recent work-days for every employee.
// Punch-driven reconciliation only fires when a punch arrives, so an
// employee who never clocks in would never get an unjustified_absence
// row without this pass. It also retries days whose earlier run failed
// on a transient lookup.
type Sweeper struct {
	reconciler   domain.ReconcileService
	employeeRepo employee.EmployeeRepository
	cutoffHour   int
	defaultLoc   *time.Location
	lookbackDays int
	logger       *slog.Logger
	now          func() time.Time
}

func NewSweeper(
	reconciler domain.ReconcileService,
	employeeRepo employee.EmployeeRepository,
	cutoffHour int,
	defaultLoc *time.Location,
	lookbackDays int,
	logger *slog.Logger,
) *Sweeper {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return &Sweeper{
		reconciler:   reconciler,
		employeeRepo: employeeRepo,
		cutoffHour:   cutoffHour,
		defaultLoc:   defaultLoc,
		lookbackDays: lookbackDays,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Run reconciles the last lookbackDays elapsed work-days for every
// employee. Individual failures are logged and do not abort the pass;
// the next cycle picks them up again.
func (s *Sweeper) Run(ctx context.Context) error {
	ids, err := s.employeeRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	current := workday.Resolve(s.now(), s.defaultLoc, s.cutoffHour)
	var failed int
	for _, id := range ids {
		for offset := 1; offset <= s.lookbackDays; offset++ {
			day := current.AddDate(0, 0, -offset)

			if _, err := s.reconciler.Reconcile(ctx, id, day); err != nil {
				failed++
				level := slog.LevelWarn
				if errors.Is(err, domain.ErrTransient) {
					level = slog.LevelDebug
				}
				s.logger.Log(ctx, level, "sweep reconciliation failed",
					slog.String("employee_id", id),
					slog.Time("work_day", day),
					slog.Any("error", err),
				)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.logger.Info("reconciliation sweep completed",
		slog.Int("employees", len(ids)),
		slog.Int("days_per_employee", s.lookbackDays),
		slog.Int("failures", failed),
	)
	return nil
}
