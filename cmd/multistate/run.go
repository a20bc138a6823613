package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/multistate/internal/analysis"
	"github.com/san-kum/multistate/internal/experiment"
	"github.com/san-kum/multistate/internal/export"
	"github.com/san-kum/multistate/internal/metrics"
	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/sim"
)

var (
	compare bool
	bins    int
)

func newPDMPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdmp",
		Short: "simulate the promoter and its expression level",
		Args:  cobra.NoArgs,
		RunE:  runPDMP,
	}
	cmd.Flags().BoolVar(&compare, "compare", false, "compare the level histogram with the analytic density")
	cmd.Flags().IntVar(&bins, "bins", 20, "histogram bins for --compare")
	return cmd
}

func newSSACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssa",
		Short: "simulate the promoter and its molecule count (Gillespie)",
		Args:  cobra.NoArgs,
		RunE:  runSSA,
	}
	cmd.Flags().BoolVar(&compare, "compare", false, "compare the count histogram with the analytic distribution")
	return cmd
}

func newReplayCmd() *cobra.Command {
	var eventsFile string
	var strict bool
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "compute the expression level along a recorded promoter path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, eventsFile, strict)
		},
	}
	cmd.Flags().StringVar(&eventsFile, "events", "", "csv with time and active columns (from pdmp or ssa)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when an observation lies past the end of the path")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}

func newSpectrumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spectrum",
		Short: "power spectrum of a simulated expression level",
		Args:  cobra.NoArgs,
		RunE:  runSpectrum,
	}
}

func newSweepCmd() *cobra.Command {
	var from, to, steps int
	var lo, hi float64
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "stationary statistics while one rate varies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, promoter.Transition{From: from, To: to}, lo, hi, steps)
		},
	}
	cmd.Flags().IntVar(&from, "from", 2, "source state of the swept transition")
	cmd.Flags().IntVar(&to, "to", 1, "target state of the swept transition")
	cmd.Flags().Float64Var(&lo, "lo", 0.1, "lowest rate")
	cmd.Flags().Float64Var(&hi, "hi", 10, "highest rate")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of rates")
	return cmd
}

func runPDMP(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := e.RunPDMP(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	return writePDMP(e, "pdmp", res.Records, func(w io.Writer) {
		printField(w, "jumps", res.Jumps)
		printField(w, "elapsed", elapsed)
	})
}

func runReplay(cmd *cobra.Command, eventsFile string, strict bool) error {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(eventsFile)
	if err != nil {
		return err
	}
	defer f.Close()
	events, err := export.ReadEventsCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", eventsFile, err)
	}
	path, err := sim.JumpPathOf(events)
	if err != nil {
		return err
	}

	records, err := e.Replay(path, nil, strict)
	if err != nil {
		return err
	}
	return writePDMP(e, "replay", records, func(w io.Writer) {
		printField(w, "path jumps", len(path)-1)
		printField(w, "path end", path.Duration())
	})
}

func writePDMP(e *experiment.Experiment, kind string, records []promoter.PDMPRecord, extra func(io.Writer)) (err error) {
	u, err := e.Production()
	if err != nil {
		return err
	}
	levels := metrics.Levels(records, u)
	ms, err := e.PDMPMetrics(records)
	if err != nil {
		return err
	}
	plotSeries(levels, "expression level")

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	switch format {
	case "csv":
		return export.WritePDMPCSV(w, records)
	case "json":
		return export.WriteJSON(w, &export.Run{
			ID:      e.ID.String(),
			Kind:    kind,
			Config:  e.Config(),
			Metrics: metricMap(ms),
			PDMP:    records,
		})
	}

	printHeading(w, kind+" run "+e.ID.String())
	printField(w, "states", e.Generator().N())
	printField(w, "observations", len(records))
	extra(w)
	fmt.Fprintln(w)
	printHeading(w, "metrics")
	if err := writeMetrics(w, ms); err != nil {
		return err
	}
	summary, err := metrics.Summarize(levels)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	printHeading(w, "level")
	if err := writeSummary(w, summary); err != nil {
		return err
	}

	if compare {
		fmt.Fprintln(w)
		return compareLevels(w, e, levels)
	}
	return nil
}

// compareLevels sets the level histogram against the stationary PDMP
// density.
func compareLevels(w io.Writer, e *experiment.Experiment, levels []float64) error {
	cfg := e.Config()
	model, err := e.StationaryModel()
	if err != nil {
		return err
	}
	hist, err := analysis.NewHistogram(levels, 0, cfg.Scale, bins)
	if err != nil {
		return err
	}
	centers := hist.Centers()
	density, err := model.PDMP(centers, cfg.Scale)
	if err != nil {
		return err
	}

	printHeading(w, "level density")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  LEVEL\tSIMULATED\tANALYTIC")
	for i, x := range centers {
		fmt.Fprintf(tw, "  %.4f\t%.4f\t%.4f\n", x, hist.Density[i], density[i])
	}
	return tw.Flush()
}

func runSSA(cmd *cobra.Command, args []string) (err error) {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := e.RunSSA(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	ms := e.SSAMetrics(res.Records)
	counts := metrics.CountsAt(res.Records, e.Config().Timepoints())
	plotSeries(counts, "molecules")

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	switch format {
	case "csv":
		return export.WriteSSACSV(w, res.Records)
	case "json":
		return export.WriteJSON(w, &export.Run{
			ID:      e.ID.String(),
			Kind:    "ssa",
			Config:  e.Config(),
			Metrics: metricMap(ms),
			SSA:     res.Records,
		})
	}

	printHeading(w, "ssa run "+e.ID.String())
	printField(w, "states", e.Generator().N())
	printField(w, "events", len(res.Records))
	printField(w, "elapsed", elapsed)
	fmt.Fprintln(w)
	printHeading(w, "metrics")
	if err := writeMetrics(w, ms); err != nil {
		return err
	}
	summary, err := metrics.Summarize(counts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	printHeading(w, "molecules")
	if err := writeSummary(w, summary); err != nil {
		return err
	}

	if compare {
		fmt.Fprintln(w)
		return compareCounts(w, e, counts, int(summary.Max))
	}
	return nil
}

// compareCounts sets the empirical count distribution against the
// stationary Poisson mixture.
func compareCounts(w io.Writer, e *experiment.Experiment, counts []float64, maxCount int) error {
	cfg := e.Config()
	model, err := e.StationaryModel()
	if err != nil {
		return err
	}
	hist, err := analysis.CountHistogram(counts, maxCount)
	if err != nil {
		return err
	}
	ms := make([]int, maxCount+1)
	for m := range ms {
		ms[m] = m
	}
	probs, err := model.Poisson(ms, cfg.Scale/cfg.Decay)
	if err != nil {
		return err
	}

	printHeading(w, "count distribution")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  M\tSIMULATED\tANALYTIC")
	for m := range ms {
		fmt.Fprintf(tw, "  %d\t%.4f\t%.4f\n", m, hist.Density[m], probs[m])
	}
	return tw.Flush()
}

func runSpectrum(cmd *cobra.Command, args []string) (err error) {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	res, err := e.RunPDMP(cmd.Context())
	if err != nil {
		return err
	}
	u, err := e.Production()
	if err != nil {
		return err
	}
	levels := metrics.Levels(res.Records, u)

	ps := analysis.PowerSpectrum(levels)
	if len(ps) < 2 {
		return fmt.Errorf("need at least 2 observations, got %d", len(levels))
	}
	freqs, err := analysis.Frequencies(len(levels), e.Config().Dt)
	if err != nil {
		return err
	}
	// bin 0 carries the removed mean
	ps, freqs = ps[1:], freqs[1:]
	plotSeries(ps, "power spectrum (level)")

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	if format == "table" {
		peak := 0
		for i := range ps {
			if ps[i] > ps[peak] {
				peak = i
			}
		}
		printHeading(w, "power spectrum "+e.ID.String())
		printField(w, "samples", len(levels))
		printField(w, "dominant frequency", fmt.Sprintf("%.4f", freqs[peak]))
		if freqs[peak] > 0 {
			printField(w, "period", fmt.Sprintf("%.4f", 1/freqs[peak]))
		}
		return nil
	}
	curve := &export.Curve{Name: "power", X: freqs, Y: ps}
	return writeCurve(w, curve, &export.Run{ID: e.ID.String(), Kind: "spectrum", Config: e.Config()})
}

func runSweep(cmd *cobra.Command, tr promoter.Transition, lo, hi float64, steps int) (err error) {
	if err := checkFormat(); err != nil {
		return err
	}
	e, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	points, err := analysis.RateSweep(e.Generator().Rates(), tr, lo, hi, steps, e.Config().Onstate)
	if err != nil {
		return err
	}

	fractions := make([]float64, len(points))
	for i, p := range points {
		fractions[i] = p.ActiveFraction
	}
	plotSeries(fractions, fmt.Sprintf("active fraction vs rate %d->%d", tr.From, tr.To))

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOutput(closeOut, &err)

	switch format {
	case "json":
		return export.WriteJSON(w, &export.Run{ID: e.ID.String(), Kind: "sweep", Config: e.Config(), Sweep: points})
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"rate", "active_fraction", "mean_active", "mean_inactive", "burst_frequency"})
		for _, p := range points {
			_ = cw.Write([]string{
				strconv.FormatFloat(p.Rate, 'g', -1, 64),
				strconv.FormatFloat(p.ActiveFraction, 'g', -1, 64),
				strconv.FormatFloat(p.MeanActive, 'g', -1, 64),
				strconv.FormatFloat(p.MeanInactive, 'g', -1, 64),
				strconv.FormatFloat(p.BurstFrequency, 'g', -1, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	printHeading(w, fmt.Sprintf("sweep of rate %d->%d", tr.From, tr.To))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  RATE\tACTIVE\tMEAN ON\tMEAN OFF\tBURSTS")
	for _, p := range points {
		off := fmt.Sprintf("%.4f", p.MeanInactive)
		if p.ActiveFraction == 0 {
			off = fmt.Sprint(math.Inf(1))
		}
		fmt.Fprintf(tw, "  %.4f\t%.4f\t%.4f\t%s\t%.4f\n", p.Rate, p.ActiveFraction, p.MeanActive, off, p.BurstFrequency)
	}
	return tw.Flush()
}
