package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound        = errors.New("shift not found")
	ErrShiftAlreadyExists   = errors.New("a shift already exists for this employee on this date")
	ErrSegmentsOverlap      = errors.New("shift segments overlap")
	ErrShiftHasOpenPayments = errors.New("shift has unsettled extra payments, cancel or finalize them first")
)
