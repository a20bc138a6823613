package promoter

import (
	"fmt"
	"math"
)

// State is the instantaneous promoter state of the PDMP: the active
// promoter state and the weight vector the expression level relaxes with.
type State struct {
	Active  int
	Weights []float64
}

func (s State) Clone() State {
	w := make([]float64, len(s.Weights))
	copy(w, s.Weights)
	return State{Active: s.Active, Weights: w}
}

// Sum returns the total mass of the weight vector.
func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s.Weights {
		sum += v
	}
	return sum
}

// Validate checks s against a promoter with n states.
func (s State) Validate(n int) error {
	if s.Active < 1 || s.Active > n {
		return fmt.Errorf("%w: active state %d not in 1..%d", ErrInvalidState, s.Active, n)
	}
	if len(s.Weights) != n {
		return fmt.Errorf("%w: weight vector has %d entries, want %d", ErrInvalidArgument, len(s.Weights), n)
	}
	for _, v := range s.Weights {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight vector is not finite", ErrInvalidArgument)
		}
	}
	if math.Abs(s.Sum()-1) > SimplexTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1", ErrInvalidArgument, s.Sum())
	}
	return nil
}

// SimplexTolerance bounds the accepted deviation of a weight vector sum from 1.
const SimplexTolerance = 1e-9

// DefaultState puts the promoter in state 1 with all weight on state n.
func DefaultState(n int) State {
	w := make([]float64, n)
	if n > 0 {
		w[n-1] = 1
	}
	return State{Active: 1, Weights: w}
}

// PDMPRecord is one observation of a PDMP trajectory.
type PDMPRecord struct {
	Time    float64   `json:"time"`
	Active  int       `json:"active"`
	Weights []float64 `json:"weights"`
}

// Level returns the expression level u·x for per-state production rates u.
func (r PDMPRecord) Level(u []float64) float64 {
	level := 0.0
	for i, w := range r.Weights {
		if i < len(u) {
			level += u[i] * w
		}
	}
	return level
}

// SSARecord is one event of a discrete (SSA) trajectory.
type SSARecord struct {
	Time      float64 `json:"time"`
	Active    int     `json:"active"`
	Molecules int     `json:"molecules"`
}

// Event is a raw promoter sample: the state observed at a given time.
type Event struct {
	Time   float64 `json:"time"`
	Active int     `json:"active"`
}

// Jump is one entry of a JumpPath: the time spent in the previous state
// and the state entered afterwards.
type Jump struct {
	Holding float64 `json:"holding"`
	Next    int     `json:"next"`
}

// JumpPath is the minimal description of a promoter trajectory. Entry 0
// is (0, initial state); each later entry switches to a different state.
type JumpPath []Jump

// Validate checks the JumpPath invariants against a promoter with n states.
// n <= 0 skips the range check.
func (p JumpPath) Validate(n int) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty jump path", ErrInvalidArgument)
	}
	for k, j := range p {
		if j.Holding < 0 || math.IsNaN(j.Holding) {
			return fmt.Errorf("%w: jump %d has holding time %g", ErrInvalidArgument, k, j.Holding)
		}
		if j.Next < 1 || (n > 0 && j.Next > n) {
			return fmt.Errorf("%w: jump %d enters state %d", ErrInvalidState, k, j.Next)
		}
		if k > 0 && j.Next == p[k-1].Next {
			return fmt.Errorf("%w: jump %d is a self-transition", ErrInvalidArgument, k)
		}
	}
	return nil
}

// Duration is the total time covered by the path.
func (p JumpPath) Duration() float64 {
	total := 0.0
	for _, j := range p {
		total += j.Holding
	}
	return total
}

// EventsFromSSA extracts the promoter part of an SSA trajectory.
func EventsFromSSA(records []SSARecord) []Event {
	events := make([]Event, len(records))
	for i, r := range records {
		events[i] = Event{Time: r.Time, Active: r.Active}
	}
	return events
}

// EventsFromPDMP extracts the promoter part of a PDMP trajectory.
func EventsFromPDMP(records []PDMPRecord) []Event {
	events := make([]Event, len(records))
	for i, r := range records {
		events[i] = Event{Time: r.Time, Active: r.Active}
	}
	return events
}
