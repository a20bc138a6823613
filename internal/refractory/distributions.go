package refractory

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/special"
)

// Inactive returns the density of the duration of an inactive period at
// each t: the absorption density into the active state of the chain
// started from the exit distribution of the active state.
func (m *Model) Inactive(ts []float64) ([]float64, error) {
	n := m.gen.N()
	i := m.onstate - 1

	k := m.gen.Dense()
	p := mat.NewVecDense(n, mat.Col(nil, i, k))
	p.SetVec(i, 0)
	total := mat.Sum(p)
	if total <= 0 {
		return nil, fmt.Errorf("%w: active state %d has no exit", promoter.ErrDegenerateState, m.onstate)
	}
	p.ScaleVec(1/total, p)

	// The active state becomes absorbing.
	for j := 0; j < n; j++ {
		k.Set(j, i, 0)
	}

	out := make([]float64, len(ts))
	var e, ke mat.Dense
	var v mat.VecDense
	for idx, t := range ts {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("%w: time is NaN", promoter.ErrInvalidArgument)
		}
		if t < 0 || math.IsInf(t, 1) {
			continue
		}
		var tk mat.Dense
		tk.Scale(t, k)
		e.Exp(&tk)
		ke.Mul(k, &e)
		v.MulVec(&ke, p)
		out[idx] = v.AtVec(i)
	}
	return out, nil
}

// Active returns the exponential density of an active period, with rate
// the exit rate of the active state.
func (m *Model) Active(ts []float64) ([]float64, error) {
	tau := m.gen.ExitRate(m.onstate)
	if tau <= 0 {
		return nil, fmt.Errorf("%w: active state %d has no exit", promoter.ErrDegenerateState, m.onstate)
	}
	out := make([]float64, len(ts))
	for idx, t := range ts {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("%w: time is NaN", promoter.ErrInvalidArgument)
		}
		if t < 0 {
			continue
		}
		out[idx] = tau * math.Exp(-tau*t)
	}
	return out, nil
}

// Poisson returns the stationary probability of each molecule count when
// molecules are produced at rate scale in the active state and decay at
// rate 1:
//
//	P(m) = Γ(u+m)Γ(v) / (Γ(u)Γ(v+m)) · s^m/m! · pFq(u+m; v+m; -s)
//
// with products over the spectral pair, evaluated in log space.
func (m *Model) Poisson(ms []int, scale float64) ([]float64, error) {
	if err := checkScale(scale); err != nil {
		return nil, err
	}
	for _, count := range ms {
		if count < 0 {
			return nil, fmt.Errorf("%w: negative molecule count %d", promoter.ErrInvalidArgument, count)
		}
	}

	out := make([]float64, len(ms))
	err := parallelFor(len(ms), m.workers, func(start, end int) error {
		for idx := start; idx < end; idx++ {
			p, err := m.poisson(ms[idx], scale)
			if err != nil {
				return err
			}
			out[idx] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Model) poisson(count int, scale float64) (float64, error) {
	mc := complex(float64(count), 0)
	upper := make([]complex128, len(m.spec.U))
	lower := make([]complex128, len(m.spec.V))

	var c complex128
	for k, u := range m.spec.U {
		upper[k] = u + mc
		c += special.LogGamma(upper[k]) - special.LogGamma(u)
	}
	for k, v := range m.spec.V {
		lower[k] = v + mc
		c += special.LogGamma(v) - special.LogGamma(lower[k])
	}

	mant, exp, err := special.HyperScaled(upper, lower, -scale)
	if err != nil {
		return 0, fmt.Errorf("poisson at m=%d: %w", count, err)
	}
	if mant == 0 {
		return 0, nil
	}

	lf, _ := math.Lgamma(float64(count) + 1)
	logScale := float64(count)*math.Log(scale) - lf + float64(exp)*math.Ln2
	p := cmplx.Exp(c+complex(logScale, 0)) * mant
	return m.realPart(p, "poisson", float64(count))
}

// PDMP returns the stationary density of the expression level when the
// level relaxes at rate 1 toward scale in the active state:
//
//	f(x) = Γ(v)/Γ(u) · G^{N,0}_{N,N}(x/s | v-1; u-1) / s
//
// The density vanishes outside [0, scale].
func (m *Model) PDMP(xs []float64, scale float64) ([]float64, error) {
	if err := checkScale(scale); err != nil {
		return nil, err
	}

	var c complex128
	a := make([]complex128, len(m.spec.V))
	b := make([]complex128, len(m.spec.U))
	for k, v := range m.spec.V {
		a[k] = v - 1
		c += special.LogGamma(v)
	}
	for k, u := range m.spec.U {
		b[k] = u - 1
		c -= special.LogGamma(u)
	}
	prefactor := cmplx.Exp(c) / complex(scale, 0)

	for _, x := range xs {
		if math.IsNaN(x) {
			return nil, fmt.Errorf("%w: level is NaN", promoter.ErrInvalidArgument)
		}
	}

	out := make([]float64, len(xs))
	err := parallelFor(len(xs), m.workers, func(start, end int) error {
		for idx := start; idx < end; idx++ {
			x := xs[idx]
			if x < 0 {
				continue
			}
			g, err := special.MeijerG(a, b, x/scale)
			if err != nil {
				return fmt.Errorf("pdmp at x=%g: %w", x, err)
			}
			if g == 0 {
				continue
			}
			f, err := m.realPart(prefactor*g, "pdmp", x)
			if err != nil {
				return err
			}
			out[idx] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Model) InactiveAt(t float64) (float64, error) {
	return first(m.Inactive([]float64{t}))
}

func (m *Model) ActiveAt(t float64) (float64, error) {
	return first(m.Active([]float64{t}))
}

func (m *Model) PoissonAt(count int, scale float64) (float64, error) {
	return first(m.Poisson([]int{count}, scale))
}

func (m *Model) PDMPAt(x, scale float64) (float64, error) {
	return first(m.PDMP([]float64{x}, scale))
}

func first(xs []float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	return xs[0], nil
}

func checkScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: scale must be positive and finite, got %g", promoter.ErrInvalidArgument, scale)
	}
	return nil
}
