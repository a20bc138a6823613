package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/multistate/internal/export"
	"github.com/san-kum/multistate/internal/metrics"
)

var (
	heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

const (
	plotWidth  = 80
	plotHeight = 12
)

func printHeading(w io.Writer, title string) {
	fmt.Fprintln(w, heading.Render(title))
}

func printField(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "%s %v\n", label.Render(name+":"), value)
}

// plotSeries draws data on stderr so that it never mixes with csv or
// json output.
func plotSeries(data []float64, caption string) {
	if !plot || len(data) == 0 {
		return
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(os.Stderr, graph)
	fmt.Fprintln(os.Stderr)
}

func writeMetrics(w io.Writer, ms []metrics.Metric) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range ms {
		fmt.Fprintf(tw, "  %s\t%.6f\n", m.Name(), m.Value())
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, s metrics.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  COUNT\tMEAN\tSTD\tFANO\tMIN\tP5\tMEDIAN\tP95\tMAX")
	fmt.Fprintf(tw, "  %d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
		s.Count, s.Mean, s.StdDev, s.Fano, s.Min, s.P5, s.Median, s.P95, s.Max)
	return tw.Flush()
}

func metricMap(ms []metrics.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// writeCurve writes a sampled function in the chosen format.
func writeCurve(w io.Writer, curve *export.Curve, run *export.Run) error {
	switch format {
	case "json":
		run.Curve = curve
		return export.WriteJSON(w, run)
	case "csv":
		fmt.Fprintf(w, "x,%s\n", curve.Name)
		for i := range curve.X {
			fmt.Fprintf(w, "%g,%g\n", curve.X[i], curve.Y[i])
		}
		return nil
	case "table":
		printHeading(w, curve.Name)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i := range curve.X {
			fmt.Fprintf(tw, "  %.6g\t%.6g\n", curve.X[i], curve.Y[i])
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func checkFormat() error {
	switch format {
	case "table", "csv", "json":
		return nil
	}
	return fmt.Errorf("unknown format: %s (want table, csv or json)", format)
}
