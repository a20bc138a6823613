package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/multistate/internal/promoter"
)

// Step draws the next jump of the promoter chain from state s: the
// holding time before the jump and the (1-based) state entered.
func Step(s promoter.State, g *promoter.Generator, src rand.Source) (next int, holding float64, err error) {
	if src == nil {
		return 0, 0, fmt.Errorf("%w: nil random source", promoter.ErrInvalidArgument)
	}
	if err := g.CheckState(s.Active); err != nil {
		return 0, 0, err
	}

	tau := g.ExitRate(s.Active)
	if !(tau > 0) {
		return 0, 0, fmt.Errorf("%w: state %d has exit rate %g", promoter.ErrDegenerateState, s.Active, tau)
	}

	holding = distuv.Exponential{Rate: tau, Src: src}.Rand()

	// The self weight is forced to zero so round-off in the diagonal can
	// never produce a zero-length self loop.
	w := g.Column(s.Active)
	w[s.Active-1] = 0
	for i := range w {
		w[i] /= tau
	}
	next = int(distuv.NewCategorical(w, src).Rand()) + 1
	return next, holding, nil
}
