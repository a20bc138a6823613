package metrics

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/multistate/internal/promoter"
)

// Summary describes a sample of molecule counts or expression levels.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Fano     float64 `json:"fano"`
	Min      float64 `json:"min"`
	Median   float64 `json:"median"`
	P5       float64 `json:"p5"`
	P95      float64 `json:"p95"`
	Max      float64 `json:"max"`
}

// Summarize computes the moments (unbiased variance) and quantiles of
// values. Percentiles use the nearest-rank definition.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("%w: empty sample", promoter.ErrInvalidArgument)
	}
	data := stats.Float64Data(values)

	s := Summary{Count: len(values)}
	s.Mean, s.Variance = stat.MeanVariance(values, nil)
	if len(values) == 1 {
		s.Variance = 0
	}
	s.StdDev = math.Sqrt(s.Variance)
	if s.Mean != 0 {
		s.Fano = s.Variance / s.Mean
	}

	var err error
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	if s.P5, err = data.PercentileNearestRank(5); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	if s.P95, err = data.PercentileNearestRank(95); err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return s, nil
}

// Levels returns the observed values of a trajectory, one per record.
func Levels(records []promoter.PDMPRecord, u []float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Level(u)
	}
	return out
}

// Counts returns the molecule counts of an SSA trajectory.
func Counts(records []promoter.SSARecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Molecules)
	}
	return out
}

// CountsAt samples the molecule count of an SSA trajectory at times ts,
// holding the last event before each time. Times before the first event
// read the first count.
func CountsAt(records []promoter.SSARecord, ts []float64) []float64 {
	out := make([]float64, len(ts))
	if len(records) == 0 {
		return out
	}
	k := 0
	for i, t := range ts {
		for k+1 < len(records) && records[k+1].Time <= t {
			k++
		}
		out[i] = float64(records[k].Molecules)
	}
	return out
}
