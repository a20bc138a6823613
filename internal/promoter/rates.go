package promoter

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Transition identifies the ordered pair From -> To (1-based states).
type Transition struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// Rates maps transitions to their rate. Missing transitions have rate 0.
type Rates map[Transition]float64

// NumStates returns the largest state index referenced.
func (r Rates) NumStates() int {
	n := 0
	for t := range r {
		n = max(n, t.From, t.To)
	}
	return n
}

// Validate rejects empty specifications, bad indices and rates that are
// negative or not finite.
func (r Rates) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no transitions", ErrInvalidRate)
	}
	for t, v := range r {
		if t.From < 1 || t.To < 1 {
			return fmt.Errorf("%w: transition %d->%d has an index below 1", ErrInvalidRate, t.From, t.To)
		}
		if t.From == t.To {
			return fmt.Errorf("%w: self transition %d->%d", ErrInvalidRate, t.From, t.To)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: rate %d->%d is %g", ErrInvalidRate, t.From, t.To, v)
		}
	}
	return nil
}

func (r Rates) Clone() Rates {
	own := make(Rates, len(r))
	for t, v := range r {
		own[t] = v
	}
	return own
}

// Sorted returns the transitions ordered by (From, To).
func (r Rates) Sorted() []Transition {
	keys := make([]Transition, 0, len(r))
	for t := range r {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].From != keys[b].From {
			return keys[a].From < keys[b].From
		}
		return keys[a].To < keys[b].To
	})
	return keys
}

// Generator is the transposed infinitesimal generator of a promoter:
// K[j,i] is the rate i -> j and column i sums to zero. It is built once
// and never mutated.
type Generator struct {
	k     *mat.Dense
	n     int
	rates Rates
}

// TransitionMatrix builds the generator for r.
func TransitionMatrix(r Rates) (*Generator, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	n := r.NumStates()
	if n < 1 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidRate)
	}

	k := mat.NewDense(n, n, nil)
	for t, v := range r {
		k.Set(t.To-1, t.From-1, v)
	}
	for i := 0; i < n; i++ {
		out := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				out += k.At(j, i)
			}
		}
		k.Set(i, i, -out)
	}

	return &Generator{k: k, n: n, rates: r.Clone()}, nil
}

// MustTransitionMatrix is like TransitionMatrix but panics on error.
func MustTransitionMatrix(r Rates) *Generator {
	g, err := TransitionMatrix(r)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Generator) N() int { return g.n }

// At returns K[i,j] with 0-based indices.
func (g *Generator) At(i, j int) float64 { return g.k.At(i, j) }

// ExitRate returns the total rate of leaving state (1-based).
func (g *Generator) ExitRate(state int) float64 {
	return -g.k.At(state-1, state-1)
}

// Column returns a copy of column state-1, the outgoing rates of state.
func (g *Generator) Column(state int) []float64 {
	return mat.Col(nil, state-1, g.k)
}

// Dense returns a mutable copy of K.
func (g *Generator) Dense() *mat.Dense {
	return mat.DenseCopyOf(g.k)
}

// Rates returns a copy of the rates the generator was built from.
func (g *Generator) Rates() Rates {
	return g.rates.Clone()
}

// CheckState reports whether state is a valid 1-based index.
func (g *Generator) CheckState(state int) error {
	if state < 1 || state > g.n {
		return fmt.Errorf("%w: state %d not in 1..%d", ErrInvalidState, state, g.n)
	}
	return nil
}

// Stationary returns the stationary distribution of the promoter chain,
// the normalised kernel of K.
func (g *Generator) Stationary() ([]float64, error) {
	// Replace the last balance equation by the normalisation constraint.
	a := mat.DenseCopyOf(g.k)
	b := mat.NewVecDense(g.n, nil)
	for j := 0; j < g.n; j++ {
		a.Set(g.n-1, j, 1)
	}
	b.SetVec(g.n-1, 1)

	var pi mat.VecDense
	if err := pi.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: generator has no unique stationary law: %v", ErrDegenerateState, err)
	}
	return mat.Col(nil, 0, &pi), nil
}
