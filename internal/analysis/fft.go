package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/multistate/internal/promoter"
)

// PowerSpectrum returns the periodogram |X_k|²/N of data for
// k = 0..N/2, with the mean removed so bin 0 is zero.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := stat.Mean(data, nil)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a / float64(n)
	}
	return ps
}

// Frequencies returns the frequencies of the PowerSpectrum bins for n
// samples taken dt apart.
func Frequencies(n int, dt float64) ([]float64, error) {
	if n <= 0 || !(dt > 0) {
		return nil, fmt.Errorf("%w: need n > 0 and dt > 0, got n=%d dt=%g", promoter.ErrInvalidArgument, n, dt)
	}
	freqs := make([]float64, n/2+1)
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return freqs, nil
}
