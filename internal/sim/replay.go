package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/multistate/internal/promoter"
)

// Replay computes the PDMP trajectory driven by a fixed promoter path
// instead of sampled jumps, starting from weights x0 in state path[0].Next.
// Observations follow the same interpolation rule as RunPDMP.
//
// Once the path is exhausted the last state is held for ever, unless
// cfg.Strict is set, in which case any timepoint after the end of the
// path fails with ErrExhaustedPath before anything is computed.
func Replay(timepoints []float64, x0 []float64, path promoter.JumpPath, cfg ReplayConfig) ([]promoter.PDMPRecord, error) {
	if err := validateTimepoints(timepoints); err != nil {
		return nil, err
	}
	decay, err := decayOrDefault(cfg.Decay)
	if err != nil {
		return nil, err
	}
	n := len(x0)
	if err := path.Validate(n); err != nil {
		return nil, err
	}
	state := promoter.State{Active: path[0].Next, Weights: append([]float64(nil), x0...)}
	if err := state.Validate(n); err != nil {
		return nil, err
	}
	if cfg.Strict && len(timepoints) > 0 {
		if end, last := path.Duration(), timepoints[len(timepoints)-1]; last > end {
			return nil, fmt.Errorf("%w: timepoint %g after path end %g", promoter.ErrExhaustedPath, last, end)
		}
	}

	records := make([]promoter.PDMPRecord, 0, len(timepoints))
	clock := 0.0
	prevTime, prev := clock, state
	k := -1

	for _, t := range timepoints {
		for clock <= t {
			if k+1 >= len(path) {
				prevTime, prev = clock, state
				clock = math.Inf(1)
				break
			}
			k++
			j := path[k]
			x, err := Flow(j.Holding, state, decay)
			if err != nil {
				return nil, err
			}
			prevTime, prev = clock, state
			state = promoter.State{Active: j.Next, Weights: x}
			clock += j.Holding
		}

		x, err := Flow(t-prevTime, prev, decay)
		if err != nil {
			return nil, err
		}
		records = append(records, promoter.PDMPRecord{Time: t, Active: prev.Active, Weights: x})
	}
	return records, nil
}
