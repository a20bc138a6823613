package sim

import (
	"fmt"

	"github.com/san-kum/multistate/internal/promoter"
)

const (
	DefaultDecay = 1.0
)

// PDMPConfig parameterises a PDMP run. A zero Decay means DefaultDecay;
// a nil Init starts in state 1 with all weight on the last state.
type PDMPConfig struct {
	Decay float64
	Init  *promoter.State
}

func DefaultPDMPConfig() PDMPConfig {
	return PDMPConfig{Decay: DefaultDecay}
}

// SSAState is the discrete state of the SSA model.
type SSAState struct {
	Active    int
	Molecules int
}

// SSAConfig parameterises an SSA run. Production[i] is the molecule
// creation rate while the promoter is in state i+1. A zero Decay means
// DefaultDecay and a zero Init.Active starts in state 1.
type SSAConfig struct {
	Production []float64
	Horizon    float64
	Init       SSAState
	Decay      float64
}

func DefaultSSAConfig() SSAConfig {
	return SSAConfig{
		Init:  SSAState{Active: 1, Molecules: 0},
		Decay: DefaultDecay,
	}
}

// ReplayConfig parameterises a conditional PDMP run. With Strict unset
// the last state of an exhausted path is held forever; with Strict set an
// observation past the end of the path fails with ErrExhaustedPath.
type ReplayConfig struct {
	Decay  float64
	Strict bool
}

func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{Decay: DefaultDecay}
}

// PDMPResult holds the observations of a PDMP run, aligned with the
// requested timepoints, and the internal state reached after the last
// jump so a caller can resume from it.
type PDMPResult struct {
	Records    []promoter.PDMPRecord
	Jumps      int
	FinalTime  float64
	FinalState promoter.State
}

// SSAResult holds every event of an SSA run, including t=0 and the
// horizon.
type SSAResult struct {
	Records []promoter.SSARecord
	Steps   int
}

// Events returns the promoter part of the run.
func (r *SSAResult) Events() []promoter.Event {
	return promoter.EventsFromSSA(r.Records)
}

// SimulationError wraps an error raised mid-run with its step and time.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
