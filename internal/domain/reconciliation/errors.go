package reconciliation

import "errors"

var (
	// ErrTransient wraps collaborator failures (shift or punch lookup) so
	// callers know to retry instead of treating the day as reconciled. The
	// periodic sweep retries these.
	ErrTransient = errors.New("reconciliation inputs unavailable, retry")
)
