package anomaly

import "errors"

// Anomaly domain errors
var (
	ErrAnomalyNotFound       = errors.New("anomaly not found")
	ErrAnomalyAlreadyHandled = errors.New("anomaly has already been validated or rejected")
	ErrAnomalyObsolete       = errors.New("anomaly is obsolete and can no longer be handled")
)
