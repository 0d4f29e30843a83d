package monitor

import "time"

// Severity ranks violations and alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Well-known violation types recorded by the auth packages. The set is
// open: any string is accepted.
const (
	ViolationSessionHijack     = "session_hijack"
	ViolationCSRFFailure       = "csrf_failure"
	ViolationRateLimitExceeded = "rate_limit_exceeded"
	ViolationInvalidCookie     = "invalid_session_cookie"
	ViolationFixationAttempt   = "fixation_attempt"
	ViolationSuspicious        = "suspicious_activity"
)

// Violation is one recorded security event.
type Violation struct {
	Type        string    `json:"type"`
	Severity    Severity  `json:"severity"`
	SessionID   string    `json:"session_id,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

// ViolationStats aggregates the rolling window by type and severity.
type ViolationStats struct {
	Total      int              `json:"total"`
	ByType     map[string]int   `json:"by_type"`
	BySeverity map[Severity]int `json:"by_severity"`
	Window     time.Duration    `json:"window"`
}
