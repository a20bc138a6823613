package special

import (
	"math"
	"math/cmplx"
)

var (
	lnPi       = math.Log(math.Pi)
	halfLn2Pi  = 0.5 * math.Log(2*math.Pi)
	stirlingBn = [...]float64{
		1.0 / 12,
		-1.0 / 360,
		1.0 / 1260,
		-1.0 / 1680,
		1.0 / 1188,
		-691.0 / 360360,
		1.0 / 156,
		-3617.0 / 122400,
	}
)

// IsNonPositiveInteger reports whether z lies within tol of 0, -1, -2, ...
func IsNonPositiveInteger(z complex128, tol float64) bool {
	x := real(z)
	if x > tol || math.Abs(imag(z)) > tol {
		return false
	}
	return math.Abs(x-math.Round(x)) <= tol*math.Max(1, math.Abs(x))
}

// LogGamma returns a logarithm of Γ(z). The imaginary part is only
// defined modulo 2π, which is all exponentiated sums of log-gammas need.
// At the poles z = 0, -1, -2, ... it returns +Inf.
func LogGamma(z complex128) complex128 {
	x, y := real(z), imag(z)
	if y == 0 {
		if x <= 0 && x == math.Floor(x) {
			return complex(math.Inf(1), 0)
		}
		if x > 0 {
			lg, _ := math.Lgamma(x)
			return complex(lg, 0)
		}
	}
	if x < 0.5 {
		// Γ(z)Γ(1-z) = π / sin(πz)
		return complex(lnPi, 0) - logSinPi(z) - LogGamma(1-z)
	}

	var shift complex128
	for real(z) < 10 {
		shift += cmplx.Log(z)
		z += 1
	}
	return stirling(z) - shift
}

// Gamma returns Γ(z) through LogGamma.
func Gamma(z complex128) complex128 {
	lg := LogGamma(z)
	if cmplx.IsInf(lg) {
		return cmplx.Inf()
	}
	return cmplx.Exp(lg)
}

func stirling(z complex128) complex128 {
	inv := 1 / z
	inv2 := inv * inv
	series := complex(0, 0)
	p := inv
	for _, b := range stirlingBn {
		series += complex(b, 0) * p
		p *= inv2
	}
	return (z-0.5)*cmplx.Log(z) - z + complex(halfLn2Pi, 0) + series
}

// logSinPi returns a logarithm of sin(πz) that stays finite for large |Im z|.
func logSinPi(z complex128) complex128 {
	y := imag(z)
	switch {
	case y > 20:
		// sin(πz) ≈ (i/2) exp(-iπz)
		return complex(-math.Ln2, math.Pi/2) - complex(0, math.Pi)*z
	case y < -20:
		// sin(πz) ≈ -(i/2) exp(iπz)
		return complex(-math.Ln2, -math.Pi/2) + complex(0, math.Pi)*z
	default:
		return cmplx.Log(cmplx.Sin(complex(math.Pi, 0) * z))
	}
}
