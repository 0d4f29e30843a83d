package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// HealthStatus is the derived overall state of the auth subsystem.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
	HealthCritical HealthStatus = "critical"
)

// Health is the point-in-time health snapshot.
type Health struct {
	Status           HealthStatus `json:"status"`
	RecentViolations int          `json:"recent_violations"`
	ActiveAlerts     int          `json:"active_alerts"`
	UnackedCritical  int          `json:"unacked_critical"`
	CheckedAt        time.Time    `json:"checked_at"`
}

// Monitor aggregates security and performance observations from the
// auth packages. Recording is a non-blocking enqueue into a buffered
// channel drained by Run; when the buffer is full events are dropped
// and counted, never delaying a request.
type Monitor struct {
	config  Config
	clock   func() time.Time
	logger  *slog.Logger
	events  chan func(now time.Time)
	dropped atomic.Uint64

	mu         sync.RWMutex
	active     map[string]*Flow
	recent     []*Flow
	completion map[string]*CompletionRate
	samples    map[string][]outcome
	perf       map[string]*ring
	violations []Violation
	rules      []AlertRule
	alerts     []*Alert
	lastFired  map[uuid.UUID]time.Time
	health     Health
}

// Option configures the Monitor.
type Option func(*Monitor)

// WithConfig sets custom configuration.
func WithConfig(cfg Config) Option {
	return func(m *Monitor) { m.config = cfg }
}

// WithClock injects the time source. Tests use a fake.
func WithClock(clock func() time.Time) Option {
	return func(m *Monitor) { m.clock = clock }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

// WithRules seeds the alert rule set.
func WithRules(rules ...AlertRule) Option {
	return func(m *Monitor) { m.rules = append(m.rules, rules...) }
}

// New creates a monitor. Call Run to start draining events.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		config:     DefaultConfig(),
		clock:      time.Now,
		logger:     slog.New(slog.DiscardHandler),
		active:     make(map[string]*Flow),
		completion: make(map[string]*CompletionRate),
		samples:    make(map[string][]outcome),
		perf:       make(map[string]*ring),
		lastFired:  make(map[uuid.UUID]time.Time),
		health:     Health{Status: HealthHealthy},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.events = make(chan func(now time.Time), m.config.EventBufferSize)
	return m
}

// Run drains the event queue and drives the periodic alert/health
// sweep until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.config.EvaluateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-m.events:
			m.apply(fn)
		case <-ticker.C:
			m.EvaluateAlerts()
			m.RecomputeHealth()
		}
	}
}

// Sync blocks until every event enqueued before the call has been
// applied. Used at shutdown and in tests.
func (m *Monitor) Sync(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case m.events <- func(time.Time) { close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of events discarded due to a full buffer.
func (m *Monitor) Dropped() uint64 {
	return m.dropped.Load()
}

// ---- recording (non-blocking) ----

// StartFlow begins tracking an authentication flow and returns its id.
func (m *Monitor) StartFlow(method string) string {
	id := uuid.NewString()
	m.enqueue(func(now time.Time) {
		m.active[id] = &Flow{
			ID:        id,
			Method:    method,
			State:     FlowStarted,
			StartedAt: now,
		}
	})
	return id
}

// AdvanceFlow records a named stage transition. Unknown and already
// terminal flows are ignored.
func (m *Monitor) AdvanceFlow(flowID, stage string) {
	m.enqueue(func(now time.Time) {
		flow, ok := m.active[flowID]
		if !ok || flow.State.terminal() {
			return
		}
		flow.Stages = append(flow.Stages, Stage{Name: stage, At: now})
	})
}

// CompleteFlow marks the flow successfully finished.
func (m *Monitor) CompleteFlow(flowID string) {
	m.finishFlow(flowID, FlowCompleted)
}

// FailFlow marks the flow failed.
func (m *Monitor) FailFlow(flowID string) {
	m.finishFlow(flowID, FlowFailed)
}

// AbandonFlow marks the flow abandoned by the caller.
func (m *Monitor) AbandonFlow(flowID string) {
	m.finishFlow(flowID, FlowAbandoned)
}

func (m *Monitor) finishFlow(flowID string, state FlowState) {
	m.enqueue(func(now time.Time) {
		flow, ok := m.active[flowID]
		if !ok || flow.State.terminal() {
			return
		}
		delete(m.active, flowID)
		flow.finish(state, now)
		m.retain(flow)
		m.recordOutcome(flow.Method, state == FlowCompleted, now)
		m.window("flow." + flow.Method).add(flow.Duration)
	})
}

// AuthAttempt records one resolver outcome. Implements the resolver's
// audit contract.
func (m *Monitor) AuthAttempt(method string, success bool, latency time.Duration) {
	m.enqueue(func(now time.Time) {
		m.recordOutcome(method, success, now)
		m.window("auth." + method).add(latency)
	})
}

// RecordDuration adds one sample to the named operation's window.
func (m *Monitor) RecordDuration(operation string, d time.Duration) {
	m.enqueue(func(now time.Time) {
		m.window(operation).add(d)
	})
}

// SecurityViolation records a typed security event. Implements the
// session manager's reporter contract.
func (m *Monitor) SecurityViolation(violationType, severity, sessionID, clientIP, description string) {
	m.enqueue(func(now time.Time) {
		m.pruneViolations(now)
		m.violations = append(m.violations, Violation{
			Type:        violationType,
			Severity:    Severity(severity),
			SessionID:   sessionID,
			ClientIP:    clientIP,
			Description: description,
			At:          now,
		})
	})
}

func (m *Monitor) enqueue(fn func(now time.Time)) {
	select {
	case m.events <- fn:
	default:
		m.dropped.Add(1)
	}
}

func (m *Monitor) apply(fn func(now time.Time)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.clock())
}

// ---- snapshots (read API) ----

// CompletionRates returns per-method completion aggregates.
func (m *Monitor) CompletionRates() map[string]CompletionRate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]CompletionRate, len(m.completion))
	for method, c := range m.completion {
		out[method] = *c
	}
	return out
}

// RecentFlows returns terminal flows, newest last.
func (m *Monitor) RecentFlows() []Flow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Flow, len(m.recent))
	for i, f := range m.recent {
		out[i] = *f
	}
	return out
}

// Performance returns stats for every operation window.
func (m *Monitor) Performance() map[string]PerfStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]PerfStats, len(m.perf))
	for op, r := range m.perf {
		out[op] = r.stats()
	}
	return out
}

// Violations aggregates the rolling window by type and severity.
func (m *Monitor) Violations() ViolationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	m.pruneViolations(now)

	stats := ViolationStats{
		ByType:     make(map[string]int),
		BySeverity: make(map[Severity]int),
		Window:     m.config.ViolationWindow,
	}
	cutoff := now.Add(-m.config.ViolationWindow)
	for _, v := range m.violations {
		if !v.At.After(cutoff) {
			continue
		}
		stats.Total++
		stats.ByType[v.Type]++
		stats.BySeverity[v.Severity]++
	}
	return stats
}

// Alerts returns alerts, optionally only unresolved ones.
func (m *Monitor) Alerts(activeOnly bool) []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if activeOnly && !a.Active() {
			continue
		}
		out = append(out, *a)
	}
	return out
}

// Acknowledge records who looked at an alert. It does not resolve it;
// resolution requires the underlying condition to clear.
func (m *Monitor) Acknowledge(id uuid.UUID, who string) (Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.alerts {
		if a.ID != id {
			continue
		}
		if !a.Acknowledged() {
			a.AcknowledgedAt = m.clock()
			a.AcknowledgedBy = who
		}
		return *a, nil
	}
	return Alert{}, ErrAlertNotFound
}

// HealthSnapshot returns the last computed health.
func (m *Monitor) HealthSnapshot() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health
}

// ---- rules, evaluation, health ----

// AddRule registers an alert rule.
func (m *Monitor) AddRule(rule AlertRule) error {
	if rule.Name == "" || rule.Window < 0 {
		return ErrInvalidRule
	}
	switch rule.Operator {
	case OpGreaterThan, OpAtLeast, OpLessThan, OpAtMost:
	default:
		return ErrInvalidRule
	}
	base, _, _ := strings.Cut(rule.Metric, ":")
	if base != MetricViolationCount && base != MetricFailureRate {
		return ErrUnknownMetric
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
	return nil
}

// Rules returns the configured rule set.
func (m *Monitor) Rules() []AlertRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]AlertRule(nil), m.rules...)
}

// EvaluateAlerts runs every enabled rule against current aggregates.
// A met condition fires at most one alert per cooldown; a cleared
// condition resolves the rule's active alerts. Flows that exceeded
// FlowTimeout are marked abandoned in the same sweep.
func (m *Monitor) EvaluateAlerts() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	m.pruneViolations(now)
	m.sweepAbandoned(now)

	for _, rule := range m.rules {
		if !rule.Enabled {
			continue
		}

		window := rule.Window
		if window == 0 {
			window = m.config.ViolationWindow
		}
		value := m.metricValue(rule.Metric, window, now)
		met := rule.Operator.compare(value, rule.Threshold)

		activeAlert := m.activeAlertFor(rule.ID)

		switch {
		case met && activeAlert != nil:
			activeAlert.Value = value
		case met:
			if last, ok := m.lastFired[rule.ID]; ok && now.Sub(last) < rule.Cooldown {
				continue
			}
			m.alerts = append(m.alerts, &Alert{
				ID:       uuid.New(),
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Severity: rule.Severity,
				Value:    value,
				FiredAt:  now,
			})
			m.lastFired[rule.ID] = now
			m.logger.Warn("alert fired",
				slog.String("rule", rule.Name),
				slog.Float64("value", value),
				slog.Float64("threshold", rule.Threshold),
			)
		case activeAlert != nil:
			activeAlert.ResolvedAt = now
			m.logger.Info("alert resolved", slog.String("rule", rule.Name))
		}
	}
}

// RecomputeHealth derives the overall status. Unacknowledged critical
// alerts force critical regardless of other metrics.
func (m *Monitor) RecomputeHealth() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	m.pruneViolations(now)

	h := Health{CheckedAt: now}
	cutoff := now.Add(-m.config.ViolationWindow)
	for _, v := range m.violations {
		if v.At.After(cutoff) {
			h.RecentViolations++
		}
	}
	for _, a := range m.alerts {
		if !a.Active() {
			continue
		}
		h.ActiveAlerts++
		if a.Severity == SeverityCritical && !a.Acknowledged() {
			h.UnackedCritical++
		}
	}

	switch {
	case h.UnackedCritical > 0:
		h.Status = HealthCritical
	case h.RecentViolations >= m.config.CriticalViolations:
		h.Status = HealthCritical
	case h.RecentViolations >= m.config.DegradedViolations:
		h.Status = HealthDegraded
	case h.RecentViolations >= m.config.WarningViolations || h.ActiveAlerts > 0:
		h.Status = HealthWarning
	default:
		h.Status = HealthHealthy
	}

	m.health = h
}

// ---- internals (callers hold m.mu) ----

func (m *Monitor) counter(method string) *CompletionRate {
	c, ok := m.completion[method]
	if !ok {
		c = &CompletionRate{}
		m.completion[method] = c
	}
	return c
}

func (m *Monitor) window(operation string) *ring {
	r, ok := m.perf[operation]
	if !ok {
		r = newRing(m.config.PerfWindowSize)
		m.perf[operation] = r
	}
	return r
}

func (m *Monitor) retain(flow *Flow) {
	m.recent = append(m.recent, flow)
	if len(m.recent) > m.config.RecentFlowLimit {
		m.recent = m.recent[len(m.recent)-m.config.RecentFlowLimit:]
	}
}

// recordOutcome updates the lifetime counter and appends a timestamped
// sample for windowed failure-rate evaluation.
func (m *Monitor) recordOutcome(method string, success bool, now time.Time) {
	m.counter(method).record(success)

	cutoff := now.Add(-m.retention())
	kept := m.samples[method][:0]
	for _, o := range m.samples[method] {
		if o.at.After(cutoff) {
			kept = append(kept, o)
		}
	}
	m.samples[method] = append(kept, outcome{at: now, success: success})
}

// retention is how long violations and outcome samples must be kept:
// the configured window or the widest rule window, whichever is larger.
func (m *Monitor) retention() time.Duration {
	r := m.config.ViolationWindow
	for _, rule := range m.rules {
		if rule.Window > r {
			r = rule.Window
		}
	}
	return r
}

func (m *Monitor) pruneViolations(now time.Time) {
	cutoff := now.Add(-m.retention())
	kept := m.violations[:0]
	for _, v := range m.violations {
		if v.At.After(cutoff) {
			kept = append(kept, v)
		}
	}
	m.violations = kept
}

func (m *Monitor) sweepAbandoned(now time.Time) {
	for id, flow := range m.active {
		if now.Sub(flow.StartedAt) < m.config.FlowTimeout {
			continue
		}
		delete(m.active, id)
		flow.finish(FlowAbandoned, now)
		m.retain(flow)
		m.recordOutcome(flow.Method, false, now)
	}
}

func (m *Monitor) activeAlertFor(ruleID uuid.UUID) *Alert {
	for _, a := range m.alerts {
		if a.RuleID == ruleID && a.Active() {
			return a
		}
	}
	return nil
}

func (m *Monitor) metricValue(metric string, window time.Duration, now time.Time) float64 {
	base, qualifier, _ := strings.Cut(metric, ":")
	cutoff := now.Add(-window)

	switch base {
	case MetricViolationCount:
		count := 0
		for _, v := range m.violations {
			if !v.At.After(cutoff) {
				continue
			}
			if qualifier != "" && v.Type != qualifier {
				continue
			}
			count++
		}
		return float64(count)

	case MetricFailureRate:
		total, failure := 0, 0
		for method, samples := range m.samples {
			if qualifier != "" && method != qualifier {
				continue
			}
			for _, o := range samples {
				if !o.at.After(cutoff) {
					continue
				}
				total++
				if !o.success {
					failure++
				}
			}
		}
		return rate(failure, total)
	}
	return 0
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
