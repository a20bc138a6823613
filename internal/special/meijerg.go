package special

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

const (
	// seriesEps is the relative tail bound at which complex128 series stop.
	seriesEps = 1e-15
	// maxSeriesTerms bounds the terms of a complex128 series.
	maxSeriesTerms = 1000000
	// degenerateTol is the tolerance for integer parameter differences.
	degenerateTol = 1e-9
	// floatLostBits is the cancellation a float64 Slater sum may suffer
	// before it is redone in arbitrary precision.
	floatLostBits = 20
	// maxMeijerPrecision bounds the working precision of MeijerG.
	maxMeijerPrecision = 4096
	// perturbation displaces integer-spaced lower parameters.
	perturbation = 0x1p-24
)

// MeijerG returns G^{q,0}_{q,q}(z | a; b) for q = len(a) = len(b) and
// real z >= 0, expanded by Slater's theorem into q hypergeometric series
// qF_{q-1}. The function vanishes for z > 1. At z = 1 it is 0 when the
// parameter excess Σa - Σb has real part above 1, 1/Γ(1) = 1 when the
// excess is exactly 1 and +Inf below.
//
// For 1 - z <= 1/2 the expansion around z = 1 is summed
// directly. Elsewhere, or when that sum cannot certify its accuracy, the
// Slater terms are used. They cancel heavily where G is small; the sum is
// first taken in complex128 and redone in arbitrary precision when too
// many bits were lost. Lower parameters differing by an integer are
// moved apart by ±2^-24 and the two results averaged, which is accurate
// to second order in the displacement.
func MeijerG(a, b []complex128, z float64) (complex128, error) {
	q := len(a)
	if q == 0 || len(b) != q {
		return 0, fmt.Errorf("%w: need len(a) == len(b) > 0, got %d and %d", ErrDomain, len(a), len(b))
	}
	if math.IsNaN(z) || z < 0 {
		return 0, fmt.Errorf("%w: z=%g", ErrDomain, z)
	}
	for _, c := range append(append([]complex128(nil), a...), b...) {
		if cmplx.IsNaN(c) || cmplx.IsInf(c) {
			return 0, fmt.Errorf("%w: parameter %v", ErrDomain, c)
		}
	}
	if z > 1 {
		return 0, nil
	}
	if z == 1 {
		return complex(meijerAtOne(a, b), 0), nil
	}
	if z > 0 && 1-z <= norlundMaxDistance {
		if g, err := meijerNorlund(a, b, z); err == nil {
			return g, nil
		}
	}

	if err := checkDegenerate(b); err != nil {
		if z == 0 {
			return meijerAtZeroDegenerate(b, err)
		}
		return meijerPerturbed(a, b, z, err)
	}
	if z == 0 {
		return meijerAtZero(b, slaterCoefficients(a, b)), nil
	}
	return meijerSlater(a, b, z)
}

func meijerSlater(a, b []complex128, z float64) (complex128, error) {
	g, lost, err := meijerFloat(a, b, z)
	if err == nil && lost <= floatLostBits {
		return g, nil
	}
	if err != nil && !errors.Is(err, ErrNoConvergence) {
		return 0, err
	}
	if err != nil {
		lost = 64
	}

	prec := uint(mantissaBits + guardBits + int(math.Ceil(lost)))
	for attempt := 0; attempt <= maxPrecisionRetries && prec <= maxMeijerPrecision; attempt++ {
		g, lost, err = meijerBig(a, b, z, prec)
		if err != nil {
			return 0, err
		}
		if lost <= float64(prec)-mantissaBits-guardBits/2 {
			return g, nil
		}
		if math.IsInf(lost, 1) {
			// Exact cancellation: the terms sum to zero at every precision.
			return 0, nil
		}
		prec = uint(mantissaBits+guardBits) + uint(math.Ceil(lost))*2
	}
	return 0, fmt.Errorf("%w: G^{%d,0}_{%d,%d} at z=%g", ErrPrecision, len(a), len(a), len(a), z)
}

func meijerPerturbed(a, b []complex128, z float64, cause error) (complex128, error) {
	var sum complex128
	for _, sign := range []float64{1, -1} {
		nb := make([]complex128, len(b))
		for h := range b {
			nb[h] = b[h] + complex(sign*perturbation*float64(h+1), 0)
		}
		if checkDegenerate(nb) != nil {
			return 0, cause
		}
		g, err := meijerSlater(a, nb, z)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrDegenerateSpectrum, err)
		}
		sum += g
	}
	return sum / 2, nil
}

// checkDegenerate rejects lower parameters whose pairwise differences
// are integers.
func checkDegenerate(b []complex128) error {
	for h := range b {
		for j := h + 1; j < len(b); j++ {
			d := b[j] - b[h]
			if math.Abs(imag(d)) > degenerateTol*math.Max(1, cmplx.Abs(d)) {
				continue
			}
			x := real(d)
			if math.Abs(x-math.Round(x)) <= degenerateTol*math.Max(1, math.Abs(x)) {
				return fmt.Errorf("%w: b[%d]=%v, b[%d]=%v", ErrDegenerateSpectrum, h, b[h], j, b[j])
			}
		}
	}
	return nil
}

// slaterCoefficients returns C_h = Π_{j≠h} Γ(b_j - b_h) / Π_j Γ(a_j - b_h),
// zero where a reciprocal gamma factor vanishes.
func slaterCoefficients(a, b []complex128) []complex128 {
	coeffs := make([]complex128, len(b))
	for h := range b {
		var lc complex128
		vanishes := false
		for j := range a {
			d := a[j] - b[h]
			if IsNonPositiveInteger(d, degenerateTol) {
				vanishes = true
				break
			}
			lc -= LogGamma(d)
		}
		if vanishes {
			continue
		}
		for j := range b {
			if j != h {
				lc += LogGamma(b[j] - b[h])
			}
		}
		coeffs[h] = cmplx.Exp(lc)
	}
	return coeffs
}

// slaterParams returns the parameters of the h-th Slater series.
func slaterParams(a, b []complex128, h int) (upper, lower []complex128) {
	upper = make([]complex128, len(a))
	for j := range a {
		upper[j] = 1 + b[h] - a[j]
	}
	lower = make([]complex128, 0, len(b)-1)
	for j := range b {
		if j != h {
			lower = append(lower, 1+b[h]-b[j])
		}
	}
	return upper, lower
}

// meijerFloat sums the Slater expansion in complex128 and reports the
// bits lost to cancellation.
func meijerFloat(a, b []complex128, z float64) (complex128, float64, error) {
	var g complex128
	maxLog := math.Inf(-1)
	lz := math.Log(z)
	for h, c := range slaterCoefficients(a, b) {
		if c == 0 {
			continue
		}
		upper, lower := slaterParams(a, b, h)
		f, maxTerm, err := hyperSeries(upper, lower, z)
		if err != nil {
			return 0, 0, err
		}
		scale := c * cmplx.Exp(b[h]*complex(lz, 0))
		maxLog = math.Max(maxLog, math.Log2(cmplx.Abs(scale)*maxTerm))
		g += scale * f
	}
	if math.IsInf(maxLog, -1) {
		return 0, 0, nil
	}
	return g, maxLog - math.Log2(cmplx.Abs(g)), nil
}

// meijerBig sums the Slater expansion at prec bits, parameters and
// coefficients included, and reports the bits lost to cancellation.
func meijerBig(a, b []complex128, z float64, prec uint) (complex128, float64, error) {
	ba, bb := toBig(a, prec), toBig(b, prec)
	one := newBigComplex(prec, 1)
	lz := bigComplex{re: bigLog(newFloat(prec).SetFloat64(z), prec), im: newFloat(prec)}

	g := newBigComplex(prec, 0)
	maxLog := math.Inf(-1)
	for h := range bb {
		lc := bb[h].mul(lz)
		vanishes := false
		for j := range ba {
			d := ba[j].sub(bb[h])
			if IsNonPositiveInteger(d.value(), degenerateTol) {
				vanishes = true
				break
			}
			lc = lc.sub(bigLogGamma(d))
		}
		if vanishes {
			continue
		}
		for j := range bb {
			if j != h {
				lc = lc.add(bigLogGamma(bb[j].sub(bb[h])))
			}
		}
		scale := lc.exp()

		upper := make([]bigComplex, len(ba))
		for j := range ba {
			upper[j] = one.add(bb[h]).sub(ba[j])
		}
		lower := make([]bigComplex, 0, len(bb)-1)
		for j := range bb {
			if j != h {
				lower = append(lower, one.add(bb[h]).sub(bb[j]))
			}
		}
		f, maxTerm, err := sumHyperBig(upper, lower, z, prec)
		if err != nil {
			return 0, 0, err
		}
		maxLog = math.Max(maxLog, scale.log2Mag()+maxTerm)
		g = g.add(scale.mul(f))
	}
	if math.IsInf(maxLog, -1) {
		return 0, 0, nil
	}
	return g.value(), maxLog - g.log2Mag(), nil
}

func meijerAtOne(a, b []complex128) float64 {
	var excess complex128
	for i := range a {
		excess += a[i] - b[i]
	}
	switch s := real(excess); {
	case s > 1:
		return 0
	case s < 1:
		return math.Inf(1)
	default:
		return real(1 / Gamma(excess))
	}
}

// meijerAtZero takes the z -> 0 limit of Σ C_h z^{b_h}.
func meijerAtZero(b, coeffs []complex128) complex128 {
	var g complex128
	for h, c := range coeffs {
		if c == 0 {
			continue
		}
		switch re := real(b[h]); {
		case re < 0:
			return complex(math.Inf(1), 0)
		case re == 0 && imag(b[h]) == 0:
			g += c
		}
	}
	return g
}

// meijerAtZeroDegenerate resolves z = 0 when the coefficients are
// singular: only the sign of the smallest exponent matters unless it is 0.
func meijerAtZeroDegenerate(b []complex128, cause error) (complex128, error) {
	lowest := math.Inf(1)
	for _, x := range b {
		lowest = math.Min(lowest, real(x))
	}
	switch {
	case lowest > 0:
		return 0, nil
	case lowest < 0:
		return complex(math.Inf(1), 0), nil
	default:
		return 0, cause
	}
}

// hyperSeries sums pFq(a; b; z) in complex128 for |z| < 1, stopping when
// a geometric bound on the tail falls below seriesEps relative to the
// sum. It also returns the largest term magnitude.
func hyperSeries(a, b []complex128, z float64) (complex128, float64, error) {
	for _, c := range b {
		if IsNonPositiveInteger(c, 0) {
			return 0, 0, fmt.Errorf("%w: b=%v", ErrPole, c)
		}
	}
	settled := 0
	for _, ai := range a {
		settled = max(settled, int(math.Ceil(-real(ai))))
	}

	zc := complex(z, 0)
	term, sum := complex(1, 0), complex(1, 0)
	maxTerm := 1.0
	for k := 0; k < maxSeriesTerms; k++ {
		kf := complex(float64(k), 0)
		ratio := zc / (kf + 1)
		for _, ai := range a {
			ratio *= ai + kf
		}
		for _, bi := range b {
			ratio /= bi + kf
		}
		if ratio == 0 {
			return sum, maxTerm, nil
		}
		term *= ratio
		sum += term
		maxTerm = math.Max(maxTerm, cmplx.Abs(term))

		// Ratios tend to z, so bound the tail by the larger of the two.
		r := math.Max(cmplx.Abs(ratio), z)
		if k+1 > settled && r < 1 && cmplx.Abs(term)*r/(1-r) <= seriesEps*cmplx.Abs(sum) {
			return sum, maxTerm, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %dF%d at z=%g after %d terms", ErrNoConvergence, len(a), len(b), z, maxSeriesTerms)
}
