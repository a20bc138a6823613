package metrics

import (
	"github.com/san-kum/multistate/internal/promoter"
)

// Metric accumulates a statistic over a trajectory observed in time
// order. Between observations the trajectory holds the previous sample.
type Metric interface {
	Name() string
	Observe(t float64, active int, value float64)
	Value() float64
	Reset()
}

// ObserveSSA feeds an SSA trajectory to ms, with the molecule count as
// the observed value.
func ObserveSSA(records []promoter.SSARecord, ms ...Metric) {
	for _, r := range records {
		for _, m := range ms {
			m.Observe(r.Time, r.Active, float64(r.Molecules))
		}
	}
}

// ObservePDMP feeds a PDMP trajectory to ms, with the expression level
// for production rates u as the observed value.
func ObservePDMP(records []promoter.PDMPRecord, u []float64, ms ...Metric) {
	for _, r := range records {
		level := r.Level(u)
		for _, m := range ms {
			m.Observe(r.Time, r.Active, level)
		}
	}
}

// DefaultMetrics returns the metrics reported for a promoter with n states.
func DefaultMetrics(n int) []Metric {
	ms := make([]Metric, 0, n+2)
	for state := 1; state <= n; state++ {
		ms = append(ms, NewOccupancy(state))
	}
	return append(ms, NewSwitchRate(), NewMeanLevel())
}

// clock tracks the time elapsed since the first observation and the
// sample held since the last one.
type clock struct {
	started bool
	start   float64
	last    float64
	active  int
	value   float64
}

// advance records a new observation and returns the time the previous
// sample was held.
func (c *clock) advance(t float64, active int, value float64) (held float64, prevActive int, prevValue float64, ok bool) {
	if !c.started {
		c.started = true
		c.start, c.last, c.active, c.value = t, t, active, value
		return 0, 0, 0, false
	}
	held, prevActive, prevValue = t-c.last, c.active, c.value
	c.last, c.active, c.value = t, active, value
	return held, prevActive, prevValue, true
}

func (c *clock) elapsed() float64 {
	return c.last - c.start
}

func (c *clock) reset() {
	*c = clock{}
}
