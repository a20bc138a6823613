package analysis

import (
	"fmt"

	"github.com/san-kum/multistate/internal/promoter"
)

// SweepPoint holds the stationary statistics of a promoter for one value
// of the swept rate.
type SweepPoint struct {
	Rate           float64 `json:"rate"`
	ActiveFraction float64 `json:"active_fraction"`
	MeanActive     float64 `json:"mean_active"`
	MeanInactive   float64 `json:"mean_inactive"`
	BurstFrequency float64 `json:"burst_frequency"`
}

// RateSweep varies the rate of one transition over steps values spanning
// [lo, hi] and records the stationary statistics of the active state.
// Bursts are the exits from the active state. The mean inactive period
// follows from renewal: π = a / (a + i).
func RateSweep(base promoter.Rates, tr promoter.Transition, lo, hi float64, steps, onstate int) ([]SweepPoint, error) {
	if steps < 1 || lo > hi {
		return nil, fmt.Errorf("%w: need steps >= 1 and lo <= hi", promoter.ErrInvalidArgument)
	}
	step := 0.0
	if steps > 1 {
		step = (hi - lo) / float64(steps-1)
	}

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		rate := lo + float64(i)*step

		rates := base.Clone()
		rates[tr] = rate
		g, err := promoter.TransitionMatrix(rates)
		if err != nil {
			return nil, err
		}
		if err := g.CheckState(onstate); err != nil {
			return nil, err
		}
		exit := g.ExitRate(onstate)
		if exit <= 0 {
			return nil, fmt.Errorf("%w: state %d has no exit at rate %g", promoter.ErrDegenerateState, onstate, rate)
		}
		pi, err := g.Stationary()
		if err != nil {
			return nil, fmt.Errorf("rate %g: %w", rate, err)
		}

		p := SweepPoint{
			Rate:           rate,
			ActiveFraction: pi[onstate-1],
			MeanActive:     1 / exit,
			BurstFrequency: pi[onstate-1] * exit,
		}
		if p.ActiveFraction > 0 {
			p.MeanInactive = p.MeanActive * (1 - p.ActiveFraction) / p.ActiveFraction
		}
		results = append(results, p)
	}
	return results, nil
}
