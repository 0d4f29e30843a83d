package monitor

import "time"

// Config defines monitor parameters.
type Config struct {
	// EventBufferSize caps the recording queue; events beyond it are
	// dropped rather than blocking the request path.
	EventBufferSize int `env:"MONITOR_EVENT_BUFFER_SIZE" envDefault:"1024"`

	// PerfWindowSize is the per-operation ring buffer capacity.
	PerfWindowSize int `env:"MONITOR_PERF_WINDOW_SIZE" envDefault:"512"`

	// ViolationWindow is how long security events count toward
	// aggregates and health.
	ViolationWindow time.Duration `env:"MONITOR_VIOLATION_WINDOW" envDefault:"15m"`

	// FlowTimeout marks flows abandoned when no terminal transition
	// arrives in time.
	FlowTimeout time.Duration `env:"MONITOR_FLOW_TIMEOUT" envDefault:"10m"`

	// EvaluateInterval drives the background alert and health sweep.
	EvaluateInterval time.Duration `env:"MONITOR_EVALUATE_INTERVAL" envDefault:"30s"`

	// RecentFlowLimit bounds the retained terminal flow history.
	RecentFlowLimit int `env:"MONITOR_RECENT_FLOW_LIMIT" envDefault:"256"`

	// Violation counts in the window at which health degrades.
	WarningViolations  int `env:"MONITOR_WARNING_VIOLATIONS" envDefault:"5"`
	DegradedViolations int `env:"MONITOR_DEGRADED_VIOLATIONS" envDefault:"20"`
	CriticalViolations int `env:"MONITOR_CRITICAL_VIOLATIONS" envDefault:"50"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		EventBufferSize:    1024,
		PerfWindowSize:     512,
		ViolationWindow:    15 * time.Minute,
		FlowTimeout:        10 * time.Minute,
		EvaluateInterval:   30 * time.Second,
		RecentFlowLimit:    256,
		WarningViolations:  5,
		DegradedViolations: 20,
		CriticalViolations: 50,
	}
}
