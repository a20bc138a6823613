package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/multistate/internal/promoter"
)

// Flow is the exact solution of the PDMP flow over elapsed time: every
// weight except the active one decays at the given rate and the active
// weight takes up the remaining mass.
func Flow(elapsed float64, s promoter.State, decay float64) ([]float64, error) {
	if elapsed < 0 || math.IsNaN(elapsed) {
		return nil, fmt.Errorf("%w: elapsed time must be nonnegative, got %g", promoter.ErrInvalidArgument, elapsed)
	}
	if decay < 0 || math.IsNaN(decay) {
		return nil, fmt.Errorf("%w: decay rate must be nonnegative, got %g", promoter.ErrInvalidArgument, decay)
	}
	i := s.Active - 1
	if i < 0 || i >= len(s.Weights) {
		return nil, fmt.Errorf("%w: active state %d outside weight vector of size %d", promoter.ErrInvalidState, s.Active, len(s.Weights))
	}

	x := make([]float64, len(s.Weights))
	copy(x, s.Weights)
	if elapsed == 0 {
		return x, nil
	}

	f := math.Exp(-elapsed * decay)
	rest := 0.0
	for j := range x {
		if j != i {
			x[j] *= f
			rest += x[j]
		}
	}
	x[i] = 1 - rest
	return x, nil
}
