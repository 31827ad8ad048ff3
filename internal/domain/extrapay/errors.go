package extrapay

import "errors"

// Extra payment domain errors
var (
	ErrPaymentNotFound         = errors.New("extra payment not found")
	ErrPaymentAlreadyPaid      = errors.New("extra payment has already been paid")
	ErrPaymentAlreadyCancelled = errors.New("extra payment has already been cancelled")

	// ErrPaymentFrozen flags an attempt to recompute a paid or cancelled
	// record. That is a caller bug masking financial-record corruption, so
	// it is never retried or silently ignored.
	ErrPaymentFrozen = errors.New("extra payment is frozen and cannot be recomputed")
)
