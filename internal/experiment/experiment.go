package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/san-kum/multistate/internal/config"
	"github.com/san-kum/multistate/internal/metrics"
	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/refractory"
	"github.com/san-kum/multistate/internal/sim"
)

// Experiment is one configured run: a promoter built from the registry,
// a seeded simulator and the analytic model of its onstate.
type Experiment struct {
	ID     uuid.UUID
	cfg    *config.Config
	gen    *promoter.Generator
	sim    *sim.Simulator
	logger *slog.Logger
}

// New builds the promoter named by cfg. A nil logger discards output.
func New(cfg *config.Config, reg *Registry, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	rates, err := reg.Build(cfg.Promoter.Archetype, cfg.Promoter.Params)
	if err != nil {
		return nil, err
	}
	gen, err := promoter.TransitionMatrix(rates)
	if err != nil {
		return nil, err
	}
	if err := gen.CheckState(cfg.Onstate); err != nil {
		return nil, err
	}

	id := uuid.New()
	logger = logger.With("run", id.String())
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	e := &Experiment{
		ID:     id,
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		sim:    sim.New(gen, src, sim.WithLogger(logger), sim.WithMaxSteps(cfg.MaxSteps)),
	}
	logger.Info("experiment ready", "archetype", cfg.Promoter.Archetype, "states", gen.N(), "seed", cfg.Seed)
	return e, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Generator() *promoter.Generator { return e.gen }

// Production returns the per-state production rates of the run.
func (e *Experiment) Production() ([]float64, error) {
	return e.cfg.ProductionFor(e.gen.N())
}

func (e *Experiment) RunPDMP(ctx context.Context) (*sim.PDMPResult, error) {
	return e.sim.RunPDMP(ctx, e.cfg.Timepoints(), sim.PDMPConfig{Decay: e.cfg.Decay})
}

func (e *Experiment) RunSSA(ctx context.Context) (*sim.SSAResult, error) {
	u, err := e.Production()
	if err != nil {
		return nil, err
	}
	cfg := sim.DefaultSSAConfig()
	cfg.Production = u
	cfg.Horizon = e.cfg.Duration
	cfg.Decay = e.cfg.Decay
	return e.sim.RunSSA(ctx, cfg)
}

// Replay runs the PDMP conditioned on path from weights x0; a nil x0
// starts with all weight on the last state.
func (e *Experiment) Replay(path promoter.JumpPath, x0 []float64, strict bool) ([]promoter.PDMPRecord, error) {
	if x0 == nil {
		x0 = promoter.DefaultState(e.gen.N()).Weights
	}
	return sim.Replay(e.cfg.Timepoints(), x0, path, sim.ReplayConfig{Decay: e.cfg.Decay, Strict: strict})
}

// Model returns the analytic distributions of the configured onstate.
func (e *Experiment) Model(opts ...refractory.Option) (*refractory.Model, error) {
	opts = append([]refractory.Option{refractory.WithLogger(e.logger)}, opts...)
	m, err := refractory.New(e.gen, e.cfg.Onstate, opts...)
	if err != nil {
		return nil, fmt.Errorf("refractory model: %w", err)
	}
	return m, nil
}

// StationaryModel returns the analytic model with rates measured in
// units of the decay rate. Its PDMP density describes the level of a
// run at scale Scale, its Poisson law the molecule count at scale
// Scale/Decay.
func (e *Experiment) StationaryModel(opts ...refractory.Option) (*refractory.Model, error) {
	rates := e.gen.Rates()
	for t := range rates {
		rates[t] /= e.cfg.Decay
	}
	gen, err := promoter.TransitionMatrix(rates)
	if err != nil {
		return nil, err
	}
	opts = append([]refractory.Option{refractory.WithLogger(e.logger)}, opts...)
	m, err := refractory.New(gen, e.cfg.Onstate, opts...)
	if err != nil {
		return nil, fmt.Errorf("refractory model: %w", err)
	}
	return m, nil
}

// PDMPMetrics evaluates the default metrics over a PDMP trajectory.
func (e *Experiment) PDMPMetrics(records []promoter.PDMPRecord) ([]metrics.Metric, error) {
	u, err := e.Production()
	if err != nil {
		return nil, err
	}
	ms := metrics.DefaultMetrics(e.gen.N())
	metrics.ObservePDMP(records, u, ms...)
	return ms, nil
}

// SSAMetrics evaluates the default metrics over an SSA trajectory.
func (e *Experiment) SSAMetrics(records []promoter.SSARecord) []metrics.Metric {
	ms := metrics.DefaultMetrics(e.gen.N())
	metrics.ObserveSSA(records, ms...)
	return ms
}
