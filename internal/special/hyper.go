package special

import (
	"fmt"
	"math"
	"math/cmplx"
)

const (
	// mantissaBits is the precision of the float64 result.
	mantissaBits = 53
	// guardBits are carried on top of the bits lost to cancellation.
	guardBits = 40
	// maxHyperTerms bounds the number of series terms.
	maxHyperTerms = 200000
	// maxPrecisionRetries bounds the precision increases of Hyper.
	maxPrecisionRetries = 4
	// maxPrecision bounds the working precision in bits.
	maxPrecision = 1 << 16
)

// Hyper returns the generalized hypergeometric function pFq(a; b; z).
// The series is entire for len(a) <= len(b) and converges for |z| < 1
// when len(a) == len(b)+1.
func Hyper(a, b []complex128, z float64) (complex128, error) {
	m, exp, err := HyperScaled(a, b, z)
	if err != nil {
		return 0, err
	}
	return complex(math.Ldexp(real(m), exp), math.Ldexp(imag(m), exp)), nil
}

// HyperScaled is Hyper with the result split as m * 2^exp, for values
// outside the float64 range.
func HyperScaled(a, b []complex128, z float64) (complex128, int, error) {
	if err := checkHyperArgs(a, b, z); err != nil {
		return 0, 0, err
	}
	if z == 0 {
		return 1, 0, nil
	}

	peak, err := estimatePeak(a, b, z)
	if err != nil {
		return 0, 0, err
	}

	prec := uint(mantissaBits + guardBits + int(math.Ceil(math.Max(peak, 0))))
	for attempt := 0; attempt <= maxPrecisionRetries; attempt++ {
		if prec > maxPrecision {
			break
		}
		sum, maxTerm, err := sumHyper(a, b, z, prec)
		if err != nil {
			return 0, 0, err
		}
		lost := maxTerm - sum.log2Mag()
		if lost <= float64(prec)-mantissaBits-guardBits/2 {
			m, exp := sum.scaled()
			return m, exp, nil
		}
		if math.IsInf(lost, 1) {
			break
		}
		prec = uint(mantissaBits+guardBits) + uint(math.Ceil(lost))*2
	}
	return 0, 0, fmt.Errorf("%w: %dF%d at z=%g", ErrPrecision, len(a), len(b), z)
}

func checkHyperArgs(a, b []complex128, z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return fmt.Errorf("%w: z=%g", ErrDomain, z)
	}
	switch p, q := len(a), len(b); {
	case p > q+1:
		return fmt.Errorf("%w: %dF%d series diverges", ErrDomain, p, q)
	case p == q+1 && math.Abs(z) >= 1:
		return fmt.Errorf("%w: %dF%d needs |z| < 1, got %g", ErrDomain, p, q, z)
	}
	for _, c := range append(append([]complex128(nil), a...), b...) {
		if cmplx.IsNaN(c) || cmplx.IsInf(c) {
			return fmt.Errorf("%w: parameter %v", ErrDomain, c)
		}
	}
	for _, c := range b {
		if IsNonPositiveInteger(c, 0) {
			return fmt.Errorf("%w: b=%v", ErrPole, c)
		}
	}
	return nil
}

// termRatio returns log2 of |t_{k+1}/t_k| and whether the series
// terminates at k (an upper parameter equal to -k).
func termRatio(a, b []complex128, z float64, k int) (float64, bool) {
	kf := complex(float64(k), 0)
	r := math.Log2(math.Abs(z)) - math.Log2(float64(k+1))
	for _, ai := range a {
		m := cmplx.Abs(ai + kf)
		if m == 0 {
			return math.Inf(-1), true
		}
		r += math.Log2(m)
	}
	for _, bi := range b {
		r -= math.Log2(cmplx.Abs(bi + kf))
	}
	return r, false
}

// estimatePeak returns log2 of the largest term of the series, using
// float64 magnitudes only.
func estimatePeak(a, b []complex128, z float64) (float64, error) {
	scale := math.Abs(z)
	for _, c := range append(append([]complex128(nil), a...), b...) {
		scale = math.Max(scale, cmplx.Abs(c))
	}

	logTerm, peak := 0.0, 0.0
	for k := 0; k < maxHyperTerms; k++ {
		r, done := termRatio(a, b, z, k)
		if done {
			return peak, nil
		}
		logTerm += r
		peak = math.Max(peak, logTerm)
		if float64(k) > 2*scale && r < -1 {
			return peak, nil
		}
		if len(a) == len(b)+1 && float64(k) > 2*scale && logTerm < peak-mantissaBits-guardBits {
			return peak, nil
		}
	}
	return 0, fmt.Errorf("%w: %dF%d at z=%g", ErrNoConvergence, len(a), len(b), z)
}

// sumHyper sums the series at the given precision and returns the sum
// and log2 of the largest term seen.
func sumHyper(a, b []complex128, z float64, prec uint) (bigComplex, float64, error) {
	return sumHyperBig(toBig(a, prec), toBig(b, prec), z, prec)
}

func toBig(xs []complex128, prec uint) []bigComplex {
	out := make([]bigComplex, len(xs))
	for i, x := range xs {
		out[i] = newBigComplex(prec, x)
	}
	return out
}

func toComplex(xs []bigComplex) []complex128 {
	out := make([]complex128, len(xs))
	for i, x := range xs {
		out[i] = x.value()
	}
	return out
}

// sumHyperBig is sumHyper for parameters already held at prec bits.
func sumHyperBig(ba, bb []bigComplex, z float64, prec uint) (bigComplex, float64, error) {
	a, b := toComplex(ba), toComplex(bb)

	// Term ratios of a convergent pF(p-1) series tend to |z|.
	limit := 0.0
	if len(a) == len(b)+1 {
		limit = math.Abs(z)
	}

	// Ratios are only monotone once k has passed every -Re(a).
	settled := 0
	for _, ai := range a {
		settled = max(settled, int(math.Ceil(-real(ai))))
	}

	one := newBigComplex(prec, 1)
	term, sum := one, one
	maxTerm := 0.0

	for k := 0; k < maxHyperTerms; k++ {
		num, den := one, newBigComplex(prec, complex(float64(k+1), 0))
		for _, ai := range ba {
			num = num.mul(ai.addInt(k))
		}
		for _, bi := range bb {
			den = den.mul(bi.addInt(k))
		}
		if num.isZero() {
			return sum, maxTerm, nil
		}

		term = term.mul(num).quo(den).scale(z)
		sum = sum.add(term)

		lt := term.log2Mag()
		maxTerm = math.Max(maxTerm, lt)

		r, _ := termRatio(a, b, z, k+1)
		ratio := math.Max(math.Exp2(r), limit)
		if k+1 > settled && ratio < 1 {
			// Bound the tail by a geometric series.
			tail := lt + math.Log2(ratio) - math.Log2(1-ratio)
			if tail < sum.log2Mag()-float64(prec) {
				return sum, maxTerm, nil
			}
		}
	}
	return bigComplex{}, 0, fmt.Errorf("%w: %dF%d at z=%g after %d terms", ErrNoConvergence, len(ba), len(bb), z, maxHyperTerms)
}
