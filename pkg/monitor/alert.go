package monitor

import (
	"time"

	"github.com/google/uuid"
)

// Operator compares a metric value against a rule threshold.
type Operator string

const (
	OpGreaterThan Operator = "gt"
	OpAtLeast     Operator = "gte"
	OpLessThan    Operator = "lt"
	OpAtMost      Operator = "lte"
)

func (op Operator) compare(value, threshold float64) bool {
	switch op {
	case OpGreaterThan:
		return value > threshold
	case OpAtLeast:
		return value >= threshold
	case OpLessThan:
		return value < threshold
	case OpAtMost:
		return value <= threshold
	default:
		return false
	}
}

// Metric names evaluable by alert rules. Violation counts accept a
// type-qualified form, e.g. "violation_count:session_hijack", and
// failure rates a method-qualified form, e.g. "failure_rate:session".
const (
	MetricViolationCount = "violation_count"
	MetricFailureRate    = "failure_rate"
)

// AlertRule describes a condition evaluated periodically against the
// monitor's aggregates. The metric is computed over the trailing
// Window at each evaluation; a zero Window means the monitor's
// configured ViolationWindow.
type AlertRule struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Metric    string        `json:"metric"`
	Operator  Operator      `json:"operator"`
	Threshold float64       `json:"threshold"`
	Window    time.Duration `json:"window"`
	Severity  Severity      `json:"severity"`
	Cooldown  time.Duration `json:"cooldown"`
	Enabled   bool          `json:"enabled"`
}

// Alert is a fired rule instance. Acknowledgement records who looked
// at it; resolution happens only when the underlying condition clears.
type Alert struct {
	ID             uuid.UUID `json:"id"`
	RuleID         uuid.UUID `json:"rule_id"`
	RuleName       string    `json:"rule_name"`
	Severity       Severity  `json:"severity"`
	Value          float64   `json:"value"`
	FiredAt        time.Time `json:"fired_at"`
	ResolvedAt     time.Time `json:"resolved_at,omitzero"`
	AcknowledgedAt time.Time `json:"acknowledged_at,omitzero"`
	AcknowledgedBy string    `json:"acknowledged_by,omitempty"`
}

// Active reports whether the alert's condition has not yet cleared.
func (a *Alert) Active() bool {
	return a.ResolvedAt.IsZero()
}

// Acknowledged reports whether an operator has seen the alert.
func (a *Alert) Acknowledged() bool {
	return !a.AcknowledgedAt.IsZero()
}
