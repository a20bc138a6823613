package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/san-kum/multistate/internal/promoter"
)

// Simulator draws promoter trajectories from a fixed generator. The
// random source is owned by the caller; a Simulator is not safe for
// concurrent use because its source is not.
type Simulator struct {
	gen      *promoter.Generator
	src      rand.Source
	logger   *slog.Logger
	maxSteps int
}

type Option func(*Simulator)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithMaxSteps bounds the number of jumps a single run may take.
// Zero means unbounded.
func WithMaxSteps(n int) Option {
	return func(s *Simulator) {
		s.maxSteps = n
	}
}

func New(gen *promoter.Generator, src rand.Source, opts ...Option) *Simulator {
	s := &Simulator{gen: gen, src: src}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s
}

func (s *Simulator) Generator() *promoter.Generator { return s.gen }

func (s *Simulator) validate() error {
	if s.gen == nil {
		return fmt.Errorf("%w: nil generator", promoter.ErrInvalidArgument)
	}
	if s.src == nil {
		return fmt.Errorf("%w: nil random source", promoter.ErrInvalidArgument)
	}
	if s.maxSteps < 0 {
		return fmt.Errorf("%w: max steps must be nonnegative, got %d", promoter.ErrInvalidArgument, s.maxSteps)
	}
	return nil
}

func (s *Simulator) checkStep(ctx context.Context, step int, t float64) error {
	select {
	case <-ctx.Done():
		return &SimulationError{Step: step, Time: t, Wrapped: ctx.Err()}
	default:
	}
	if s.maxSteps > 0 && step >= s.maxSteps {
		return &SimulationError{Step: step, Time: t, Wrapped: promoter.ErrStepLimit}
	}
	return nil
}

func validateTimepoints(timepoints []float64) error {
	for i, t := range timepoints {
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: timepoint %d is %g", promoter.ErrInvalidArgument, i, t)
		}
		if i > 0 && t < timepoints[i-1] {
			return fmt.Errorf("%w: timepoint %d (%g) precedes %g", promoter.ErrUnorderedInput, i, t, timepoints[i-1])
		}
	}
	return nil
}

func decayOrDefault(d float64) (float64, error) {
	if d == 0 {
		return DefaultDecay, nil
	}
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: decay rate must be positive, got %g", promoter.ErrInvalidArgument, d)
	}
	return d, nil
}
