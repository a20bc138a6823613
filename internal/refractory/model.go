package refractory

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"runtime"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/special"
)

const (
	DefaultPoissonScale = 100.0
	DefaultPDMPScale    = 1.0

	DefaultImagRel = 1e-6
	DefaultImagAbs = 1e-10
)

// Spectrum is the spectral pair of a refractory promoter, each slice
// sorted by real then imaginary part.
type Spectrum struct {
	U []complex128
	V []complex128
}

// Model evaluates the stationary distributions of one promoter with a
// fixed active state. It is immutable and safe for concurrent use.
type Model struct {
	gen     *promoter.Generator
	onstate int
	spec    Spectrum
	imagRel float64
	imagAbs float64
	workers int
	logger  *slog.Logger
}

type Option func(*Model)

// WithImagTolerance sets the bound |Im| <= rel*|Re| + abs accepted on
// the complex intermediate of the Poisson and PDMP laws.
func WithImagTolerance(rel, abs float64) Option {
	return func(m *Model) {
		m.imagRel = rel
		m.imagAbs = abs
	}
}

// WithWorkers bounds the goroutines used to evaluate the Poisson and
// PDMP laws over many points. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(m *Model) {
		m.workers = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New builds the model of g with the given 1-based active state.
func New(g *promoter.Generator, onstate int, opts ...Option) (*Model, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil generator", promoter.ErrInvalidArgument)
	}
	if g.N() < 2 {
		return nil, fmt.Errorf("%w: a refractory promoter needs at least 2 states, got %d", promoter.ErrInvalidRate, g.N())
	}
	if err := g.CheckState(onstate); err != nil {
		return nil, err
	}

	m := &Model{
		gen:     g,
		onstate: onstate,
		imagRel: DefaultImagRel,
		imagAbs: DefaultImagAbs,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if m.imagRel < 0 || m.imagAbs < 0 {
		return nil, fmt.Errorf("%w: negative imaginary tolerance", promoter.ErrInvalidArgument)
	}
	if m.workers < 1 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", promoter.ErrInvalidArgument, m.workers)
	}

	spec, err := spectrum(g, onstate)
	if err != nil {
		return nil, err
	}
	m.spec = spec
	m.logger.Debug("refractory model",
		"states", g.N(),
		"onstate", onstate,
		"u", fmt.Sprint(spec.U),
		"v", fmt.Sprint(spec.V))
	return m, nil
}

// Eigenvalues returns the spectral pair of rates with the given active state.
func Eigenvalues(rates promoter.Rates, onstate int) (Spectrum, error) {
	g, err := promoter.TransitionMatrix(rates)
	if err != nil {
		return Spectrum{}, err
	}
	m, err := New(g, onstate)
	if err != nil {
		return Spectrum{}, err
	}
	return m.Spectrum(), nil
}

func (m *Model) Generator() *promoter.Generator { return m.gen }

func (m *Model) Onstate() int { return m.onstate }

// Spectrum returns a copy of the spectral pair.
func (m *Model) Spectrum() Spectrum {
	return Spectrum{
		U: append([]complex128(nil), m.spec.U...),
		V: append([]complex128(nil), m.spec.V...),
	}
}

func spectrum(g *promoter.Generator, onstate int) (Spectrum, error) {
	n := g.N()
	i := onstate - 1

	full := mat.NewDense(n, n, nil)
	full.Scale(-1, g.Dense())

	keep := make([]int, 0, n-1)
	for j := 0; j < n; j++ {
		if j != i {
			keep = append(keep, j)
		}
	}
	sub := mat.NewDense(n-1, n-1, nil)
	for r, jr := range keep {
		for c, jc := range keep {
			sub.Set(r, c, full.At(jr, jc))
		}
	}

	u, err := eigenvalues(sub)
	if err != nil {
		return Spectrum{}, err
	}
	all, err := eigenvalues(full)
	if err != nil {
		return Spectrum{}, err
	}

	// Drop the stationary direction, the eigenvalue closest to zero.
	zero := 0
	for j := range all {
		if cmplx.Abs(all[j]) < cmplx.Abs(all[zero]) {
			zero = j
		}
	}
	v := append(append([]complex128(nil), all[:zero]...), all[zero+1:]...)
	sortComplex(v)
	return Spectrum{U: u, V: v}, nil
}

func eigenvalues(a *mat.Dense) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition failed", special.ErrNoConvergence)
	}
	vals := eig.Values(nil)
	sortComplex(vals)
	return vals, nil
}

func sortComplex(xs []complex128) {
	sort.Slice(xs, func(a, b int) bool {
		if real(xs[a]) != real(xs[b]) {
			return real(xs[a]) < real(xs[b])
		}
		return imag(xs[a]) < imag(xs[b])
	})
}

// realPart returns the real part of z once its imaginary part is within
// the model's tolerance.
func (m *Model) realPart(z complex128, what string, at float64) (float64, error) {
	re, im := real(z), imag(z)
	if math.IsNaN(re) || math.IsNaN(im) {
		return 0, fmt.Errorf("%w: %s at %g is NaN", special.ErrPrecision, what, at)
	}
	if math.Abs(im) > m.imagRel*math.Abs(re)+m.imagAbs {
		return 0, fmt.Errorf("%w: %s at %g has imaginary part %g (real %g)", special.ErrPrecision, what, at, im, re)
	}
	return re, nil
}
