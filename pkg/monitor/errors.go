package monitor

import "errors"

var (
	ErrAlertNotFound = errors.New("monitor: alert not found")
	ErrInvalidRule   = errors.New("monitor: invalid alert rule")
	ErrUnknownMetric = errors.New("monitor: unknown rule metric")
)
