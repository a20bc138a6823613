package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/multistate/internal/config"
	"github.com/san-kum/multistate/internal/experiment"
)

var (
	configFile string
	preset     string
	rateSpec   string
	format     string
	outFile    string
	plot       bool
	verbose    bool

	seed     uint64
	decay    float64
	duration float64
	dt       float64
	onstate  int
	scale    float64
	maxSteps int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "multistate",
		Short:        "multistate promoter simulation and refractory distributions",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use a named promoter preset")
	pf.StringVar(&rateSpec, "rates", "", `custom promoter, e.g. "1-2=10,2-3=4,3-1=5"`)
	pf.StringVar(&format, "format", "table", "output format: table, csv or json")
	pf.StringVarP(&outFile, "out", "o", "", "write output to a file instead of stdout")
	pf.BoolVar(&plot, "plot", false, "draw an ascii plot")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Uint64Var(&seed, "seed", 0, "random seed")
	pf.Float64Var(&decay, "decay", config.DefaultDecay, "decay rate of the expression level")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "observation spacing")
	pf.IntVar(&onstate, "onstate", config.DefaultOnstate, "active promoter state")
	pf.Float64Var(&scale, "scale", config.DefaultScale, "production rate of the active state")
	pf.IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "jump limit per run (0 = unbounded)")

	rootCmd.AddCommand(
		newPDMPCmd(),
		newSSACmd(),
		newReplayCmd(),
		newSpectrumCmd(),
		newSweepCmd(),
		newEigenCmd(),
		newDistCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

// loadConfig resolves the run configuration: a config file, else a
// preset, else the defaults; then MULTISTATE_* variables; then any flag
// set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if err := config.ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if rateSpec != "" {
		params, err := parseRates(rateSpec)
		if err != nil {
			return nil, err
		}
		cfg.Promoter = config.PromoterConfig{Archetype: "custom", Params: params}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("decay") {
		cfg.Decay = decay
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("onstate") {
		cfg.Onstate = onstate
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	lvl, err := cfg.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newExperiment(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, experiment.NewRegistry(), newLogger(cfg))
}

// parseRates reads "from-to=rate" pairs separated by commas into the
// parameter block of the custom archetype.
func parseRates(spec string) (map[string]any, error) {
	var entries []any
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		pair, rate, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("rate %q: want from-to=rate", item)
		}
		from, to, ok := strings.Cut(pair, "-")
		if !ok {
			return nil, fmt.Errorf("rate %q: want from-to=rate", item)
		}
		f, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", item, err)
		}
		t, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", item, err)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", item, err)
		}
		entries = append(entries, map[string]any{"from": f, "to": t, "rate": r})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no rates in %q", spec)
	}
	return map[string]any{"rates": entries}, nil
}

// output opens the --out file, or stdout.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// closeOutput closes the output and reports its error through err unless
// an earlier one is already set.
func closeOutput(closeOut func() error, err *error) {
	if cerr := closeOut(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close output: %w", cerr)
	}
}
