package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/multistate/internal/config"
	"github.com/san-kum/multistate/internal/experiment"
	"github.com/san-kum/multistate/internal/export"
)

var (
	gridMax    float64
	gridPoints int
	countMax   int
	svgFile    string
)

func newEigenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eigen",
		Short: "spectral pair (u, v) of the promoter",
		Args:  cobra.NoArgs,
		RunE:  runEigen,
	}
}

func newDistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dist",
		Short: "analytic stationary distributions of a refractory promoter",
	}
	pf := cmd.PersistentFlags()
	pf.Float64Var(&gridMax, "max", 0, "upper end of the time grid (0 = five mean periods)")
	pf.IntVar(&gridPoints, "points", 101, "grid points")
	pf.IntVar(&countMax, "max-count", 0, "largest molecule count (0 = automatic)")
	pf.StringVar(&svgFile, "svg", "", "also draw the curve to an svg file")

	for _, kind := range []struct{ name, short string }{
		{"inactive", "density of the inactive periods"},
		{"active", "density of the active periods"},
		{"poisson", "distribution of the molecule count"},
		{"pdmp", "density of the expression level"},
	} {
		name := kind.name
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: kind.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDist(cmd, name)
			},
		})
	}
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the available promoter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			printHeading(w, "presets")
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(tw, "  %s\t%s\t%v\n", name, p.Promoter.Archetype, p.Promoter.Params)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(w)
			printHeading(w, "archetypes")
			for _, name := range experiment.NewRegistry().List() {
				fmt.Fprintf(w, "  %s\n", name)
			}
			return nil
		},
	}
}

func runEigen(cmd *cobra.Command, args []string) (err error) {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	model, err := e.Model()
	if err != nil {
		return err
	}
	spec := model.Spectrum()

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	switch format {
	case "json":
		return export.WriteJSON(w, &export.Run{ID: e.ID.String(), Kind: "eigen", Config: e.Config(), Spectrum: &spec})
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"set", "index", "re", "im"})
		for _, set := range []struct {
			name string
			zs   []complex128
		}{{"u", spec.U}, {"v", spec.V}} {
			for i, z := range set.zs {
				_ = cw.Write([]string{set.name, strconv.Itoa(i + 1),
					strconv.FormatFloat(real(z), 'g', -1, 64),
					strconv.FormatFloat(imag(z), 'g', -1, 64)})
			}
		}
		cw.Flush()
		return cw.Error()
	}

	printHeading(w, fmt.Sprintf("spectrum (onstate %d)", model.Onstate()))
	printField(w, "u", formatComplex(spec.U))
	printField(w, "v", formatComplex(spec.V))
	return nil
}

func formatComplex(zs []complex128) string {
	out := "["
	for i, z := range zs {
		if i > 0 {
			out += " "
		}
		if imag(z) == 0 {
			out += strconv.FormatFloat(real(z), 'g', 8, 64)
		} else {
			out += fmt.Sprintf("%.8g%+.8gi", real(z), imag(z))
		}
	}
	return out + "]"
}

func runDist(cmd *cobra.Command, kind string) (err error) {
	if err := checkFormat(); err != nil {
		return err
	}
	if gridPoints < 2 {
		return fmt.Errorf("need at least 2 points, got %d", gridPoints)
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	cfg := e.Config()

	curve := &export.Curve{Name: kind}
	switch kind {
	case "inactive", "active":
		model, err := e.Model()
		if err != nil {
			return err
		}
		hi := gridMax
		if hi <= 0 {
			hi = 5 * meanPeriod(e, kind)
		}
		curve.X = linspace(0, hi, gridPoints)
		if kind == "inactive" {
			curve.Y, err = model.Inactive(curve.X)
		} else {
			curve.Y, err = model.Active(curve.X)
		}
		if err != nil {
			return err
		}

	case "poisson":
		model, err := e.StationaryModel()
		if err != nil {
			return err
		}
		s := cfg.Scale / cfg.Decay
		top := countMax
		if top <= 0 {
			top = int(math.Ceil(s + 5*math.Sqrt(s) + 5))
		}
		ms := make([]int, top+1)
		curve.X = make([]float64, top+1)
		for m := range ms {
			ms[m] = m
			curve.X[m] = float64(m)
		}
		if curve.Y, err = model.Poisson(ms, s); err != nil {
			return err
		}

	case "pdmp":
		model, err := e.StationaryModel()
		if err != nil {
			return err
		}
		// Cell midpoints keep clear of the endpoints, where the density
		// may diverge.
		curve.X = make([]float64, gridPoints)
		for i := range curve.X {
			curve.X[i] = cfg.Scale * (float64(i) + 0.5) / float64(gridPoints)
		}
		if curve.Y, err = model.PDMP(curve.X, cfg.Scale); err != nil {
			return err
		}
	}

	plotSeries(curve.Y, kind+" density")
	if svgFile != "" {
		f, err := os.Create(svgFile)
		if err != nil {
			return err
		}
		if err := export.CurveSVG(f, curve.X, curve.Y, 800, 400, "#1f77b4"); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)
	return writeCurve(w, curve, &export.Run{ID: e.ID.String(), Kind: "dist-" + kind, Config: cfg})
}

// meanPeriod returns the mean length of an active or inactive period.
func meanPeriod(e *experiment.Experiment, kind string) float64 {
	cfg := e.Config()
	exit := e.Generator().ExitRate(cfg.Onstate)
	if exit <= 0 {
		return 1
	}
	if kind == "active" {
		return 1 / exit
	}
	pi, err := e.Generator().Stationary()
	if err != nil || pi[cfg.Onstate-1] == 0 {
		return 1
	}
	p := pi[cfg.Onstate-1]
	return (1 - p) / (p * exit)
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
