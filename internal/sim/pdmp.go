package sim

import (
	"context"

	"github.com/san-kum/multistate/internal/promoter"
)

// RunPDMP simulates the PDMP promoter model and observes it at each of
// the non-decreasing timepoints. The observation at t is the exact flow,
// from the last jump before or at t, of the state entered by that jump.
func (s *Simulator) RunPDMP(ctx context.Context, timepoints []float64, cfg PDMPConfig) (*PDMPResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := validateTimepoints(timepoints); err != nil {
		return nil, err
	}
	decay, err := decayOrDefault(cfg.Decay)
	if err != nil {
		return nil, err
	}

	n := s.gen.N()
	state := promoter.DefaultState(n)
	if cfg.Init != nil {
		if err := cfg.Init.Validate(n); err != nil {
			return nil, err
		}
		state = cfg.Init.Clone()
	}

	result := &PDMPResult{
		Records: make([]promoter.PDMPRecord, 0, len(timepoints)),
	}

	clock := 0.0
	prevTime, prev := clock, state

	for _, t := range timepoints {
		for clock <= t {
			if err := s.checkStep(ctx, result.Jumps, clock); err != nil {
				return nil, err
			}

			next, holding, err := Step(state, s.gen, s.src)
			if err != nil {
				return nil, &SimulationError{Step: result.Jumps, Time: clock, Wrapped: err}
			}
			x, err := Flow(holding, state, decay)
			if err != nil {
				return nil, &SimulationError{Step: result.Jumps, Time: clock, Wrapped: err}
			}

			prevTime, prev = clock, state
			state = promoter.State{Active: next, Weights: x}
			clock += holding
			result.Jumps++
		}

		x, err := Flow(t-prevTime, prev, decay)
		if err != nil {
			return nil, &SimulationError{Step: result.Jumps, Time: t, Wrapped: err}
		}
		result.Records = append(result.Records, promoter.PDMPRecord{
			Time:    t,
			Active:  prev.Active,
			Weights: x,
		})
	}

	result.FinalTime = clock
	result.FinalState = state

	s.logger.Debug("pdmp run complete",
		"observations", len(result.Records),
		"jumps", result.Jumps,
		"final_time", clock,
	)
	return result, nil
}
