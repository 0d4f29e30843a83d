package monitor

import (
	"math"
	"slices"
	"time"
)

// ring is a fixed-capacity window of duration samples. Once full, new
// samples overwrite the oldest; memory never grows past capacity.
type ring struct {
	samples []time.Duration
	next    int
	size    int
}

func newRing(capacity int) *ring {
	return &ring{samples: make([]time.Duration, capacity)}
}

func (r *ring) add(d time.Duration) {
	r.samples[r.next] = d
	r.next = (r.next + 1) % len(r.samples)
	if r.size < len(r.samples) {
		r.size++
	}
}

// PerfStats summarizes one operation's duration window.
type PerfStats struct {
	Count int           `json:"count"`
	Avg   time.Duration `json:"avg"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
}

func (r *ring) stats() PerfStats {
	if r.size == 0 {
		return PerfStats{}
	}

	sorted := make([]time.Duration, r.size)
	copy(sorted, r.samples[:r.size])
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return PerfStats{
		Count: r.size,
		Avg:   total / time.Duration(r.size),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P95:   percentile(sorted, 0.95),
		P99:   percentile(sorted, 0.99),
	}
}

// percentile uses the nearest-rank method on a sorted window.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
