package monitor

import "time"

// FlowState is the lifecycle state of a tracked authentication flow.
type FlowState string

const (
	FlowStarted   FlowState = "started"
	FlowCompleted FlowState = "completed"
	FlowFailed    FlowState = "failed"
	FlowAbandoned FlowState = "abandoned"
)

// terminal reports whether no further transitions are allowed.
func (s FlowState) terminal() bool {
	return s == FlowCompleted || s == FlowFailed || s == FlowAbandoned
}

// Stage is one recorded step inside a flow.
type Stage struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// Flow tracks a single authentication attempt from start to a terminal
// state. Duration is measured from StartedAt to the terminal
// transition.
type Flow struct {
	ID        string        `json:"id"`
	Method    string        `json:"method"`
	State     FlowState     `json:"state"`
	Stages    []Stage       `json:"stages,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitzero"`
	Duration  time.Duration `json:"duration"`
}

func (f *Flow) finish(state FlowState, at time.Time) {
	f.State = state
	f.EndedAt = at
	f.Duration = at.Sub(f.StartedAt)
}

// outcome is one timestamped result, kept so failure rates can be
// evaluated over a trailing window rather than lifetime counters.
type outcome struct {
	at      time.Time
	success bool
}

// CompletionRate aggregates flow outcomes for one auth method.
type CompletionRate struct {
	Total   int     `json:"total"`
	Success int     `json:"success"`
	Failure int     `json:"failure"`
	Rate    float64 `json:"rate"`
}

func (c *CompletionRate) record(success bool) {
	c.Total++
	if success {
		c.Success++
	} else {
		c.Failure++
	}
	c.Rate = float64(c.Success) / float64(c.Total)
}
