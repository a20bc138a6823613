package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/multistate/internal/promoter"
)

// Histogram is the empirical density of a sample on equal-width bins.
// Samples outside [lo, hi) count toward the total but fall in no bin.
type Histogram struct {
	Dividers []float64 `json:"dividers"`
	Density  []float64 `json:"density"`
	Outside  int       `json:"outside"`
}

// NewHistogram bins samples into `bins` equal bins on [lo, hi).
func NewHistogram(samples []float64, lo, hi float64, bins int) (*Histogram, error) {
	if bins < 1 || !(hi > lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: need bins >= 1 and lo < hi, got %d bins on [%g, %g)", promoter.ErrInvalidArgument, bins, lo, hi)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample", promoter.ErrInvalidArgument)
	}

	inside := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v >= lo && v < hi {
			inside = append(inside, v)
		}
	}
	sort.Float64s(inside)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	counts := stat.Histogram(nil, dividers, inside, nil)

	width := (hi - lo) / float64(bins)
	floats.Scale(1/(width*float64(len(samples))), counts)
	return &Histogram{
		Dividers: dividers,
		Density:  counts,
		Outside:  len(samples) - len(inside),
	}, nil
}

// Centers returns the midpoint of every bin.
func (h *Histogram) Centers() []float64 {
	out := make([]float64, len(h.Density))
	for i := range out {
		out[i] = (h.Dividers[i] + h.Dividers[i+1]) / 2
	}
	return out
}

// CountHistogram returns the empirical probability of each integer
// 0..max in samples; larger values only count toward the total.
func CountHistogram(samples []float64, max int) (*Histogram, error) {
	return NewHistogram(samples, -0.5, float64(max)+0.5, max+1)
}
