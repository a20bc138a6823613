package sim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/multistate/internal/promoter"
)

func (s *Simulator) validateSSA(cfg SSAConfig) error {
	n := s.gen.N()
	if len(cfg.Production) != n {
		return fmt.Errorf("%w: %d production rates for %d states", promoter.ErrInvalidArgument, len(cfg.Production), n)
	}
	for i, u := range cfg.Production {
		if u < 0 || math.IsNaN(u) || math.IsInf(u, 0) {
			return fmt.Errorf("%w: production rate %d is %g", promoter.ErrInvalidArgument, i+1, u)
		}
	}
	if !(cfg.Horizon > 0) || math.IsInf(cfg.Horizon, 0) {
		return fmt.Errorf("%w: horizon must be positive and finite, got %g", promoter.ErrInvalidArgument, cfg.Horizon)
	}
	if err := s.gen.CheckState(cfg.Init.Active); err != nil {
		return err
	}
	if cfg.Init.Molecules < 0 {
		return fmt.Errorf("%w: negative initial molecule count %d", promoter.ErrInvalidArgument, cfg.Init.Molecules)
	}
	return nil
}

// RunSSA simulates the discrete model (promoter switching, production
// and degradation of molecules) up to the horizon. Every event is
// recorded; the last record is clipped to the horizon and carries the
// state held just before it.
func (s *Simulator) RunSSA(ctx context.Context, cfg SSAConfig) (*SSAResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if cfg.Init.Active == 0 {
		cfg.Init.Active = 1
	}
	if err := s.validateSSA(cfg); err != nil {
		return nil, err
	}
	decay, err := decayOrDefault(cfg.Decay)
	if err != nil {
		return nil, err
	}

	n := s.gen.N()
	cur := cfg.Init
	clock := 0.0

	result := &SSAResult{
		Records: []promoter.SSARecord{{Time: 0, Active: cur.Active, Molecules: cur.Molecules}},
	}

	// Reactions 0..n-1 switch the promoter, n produces a molecule and
	// n+1 degrades one.
	rates := make([]float64, n+2)

	for clock < cfg.Horizon {
		if err := s.checkStep(ctx, result.Steps, clock); err != nil {
			return nil, err
		}

		i := cur.Active - 1
		if tau := s.gen.ExitRate(cur.Active); !(tau > 0) {
			return nil, &SimulationError{
				Step:    result.Steps,
				Time:    clock,
				Wrapped: fmt.Errorf("%w: state %d has exit rate %g", promoter.ErrDegenerateState, cur.Active, tau),
			}
		}

		copy(rates, s.gen.Column(cur.Active))
		rates[i] = 0
		rates[n] = cfg.Production[i]
		rates[n+1] = decay * float64(cur.Molecules)

		total := floats.Sum(rates)
		clock += distuv.Exponential{Rate: total, Src: s.src}.Rand()

		switch r := int(distuv.NewCategorical(rates, s.src).Rand()); {
		case r < n:
			cur.Active = r + 1
		case r == n:
			cur.Molecules++
		default:
			cur.Molecules--
		}

		result.Records = append(result.Records, promoter.SSARecord{
			Time:      clock,
			Active:    cur.Active,
			Molecules: cur.Molecules,
		})
		result.Steps++
	}

	last := len(result.Records) - 1
	prev := result.Records[last-1]
	result.Records[last] = promoter.SSARecord{
		Time:      cfg.Horizon,
		Active:    prev.Active,
		Molecules: prev.Molecules,
	}

	s.logger.Debug("ssa run complete",
		"events", len(result.Records),
		"steps", result.Steps,
		"horizon", cfg.Horizon,
	)
	return result, nil
}
