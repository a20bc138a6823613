package special

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

const (
	// norlundMaxDistance is the largest 1 - z summed around z = 1.
	norlundMaxDistance = 0.5
	// maxNorlundTerms bounds the coefficients of the expansion around z = 1.
	maxNorlundTerms = 4096
	// norlundTolerance is the relative error bound a sum around z = 1
	// must meet before it is returned.
	norlundTolerance = 1e-11
	// unitRoundoff is the relative rounding error of one complex128 operation.
	unitRoundoff = 0x1p-53
)

// meijerNorlund expands G^{q,0}_{q,q}(z | a; b) around z = 1 (Nørlund):
//
//	G(z) = z^β (1-z)^{s-1} / Γ(s) · Σ_k g_k (1-z)^k,  s = Σa - Σb
//
// G is the Mellin convolution of the first-order factors
// z^{b_p} (1-z)^{a_p-b_p-1} / Γ(a_p-b_p). Adding factor p to a product
// with excess σ and leading power z^β maps the coefficients through
//
//	g'_k = (σ)_k / (σ+a_p-b_p)_k · Σ_{n<=k} g_n (a_p-β)_{k-n} / (k-n)!
//
// and moves the leading power to z^{b_p}. The series converges for
// 0 < z < 2 and needs no Slater separation, so integer-spaced lower
// parameters are summed as they are.
func meijerNorlund(a, b []complex128, z float64) (complex128, error) {
	a, b = norlundOrder(a, b)
	q := len(a)
	w := 1 - z

	// excess[p] is Σ_{j<=p} a_j - b_j.
	excess := make([]complex128, q)
	excess[0] = a[0] - b[0]
	for p := 1; p < q; p++ {
		excess[p] = excess[p-1] + a[p] - b[p]
	}
	if IsNonPositiveInteger(excess[q-1], degenerateTol) {
		return 0, fmt.Errorf("%w: parameter excess %v", ErrPole, excess[q-1])
	}

	coef := make([][]complex128, q)
	bound := make([][]float64, q)
	shift := make([][]complex128, q)
	ratio := make([]complex128, q)
	for p := range ratio {
		ratio[p] = 1
	}

	var sum complex128
	var sumBound float64
	wk := 1.0
	settled := 0
	for k := 0; k < maxNorlundTerms; k++ {
		kf := complex(float64(k), 0)
		if k == 0 {
			coef[0] = append(coef[0], 1)
		} else {
			coef[0] = append(coef[0], 0)
		}
		bound[0] = append(bound[0], 0)

		for p := 1; p < q; p++ {
			if k == 0 {
				shift[p] = append(shift[p], 1)
			} else {
				c := a[p] - b[p-1]
				shift[p] = append(shift[p], shift[p][k-1]*(c+kf-1)/kf)

				den := excess[p] + kf - 1
				if cmplx.Abs(den) < degenerateTol {
					return 0, fmt.Errorf("%w: partial excess %v", ErrPole, excess[p])
				}
				ratio[p] *= (excess[p-1] + kf - 1) / den
			}

			var acc complex128
			var accAbs, accBound float64
			for n := 0; n <= k; n++ {
				t := coef[p-1][n] * shift[p][k-n]
				acc += t
				accAbs += cmplx.Abs(t)
				accBound += bound[p-1][n] * cmplx.Abs(shift[p][k-n])
			}
			coef[p] = append(coef[p], ratio[p]*acc)
			bound[p] = append(bound[p], cmplx.Abs(ratio[p])*(accBound+float64(3*k+4)*unitRoundoff*accAbs))
		}

		term := coef[q-1][k] * complex(wk, 0)
		sum += term
		sumBound += bound[q-1][k] * wk

		// Coefficients grow at most polynomially, so three consecutive
		// negligible terms leave a tail below the last one.
		if k > 0 && cmplx.Abs(term) <= seriesEps*cmplx.Abs(sum) {
			settled++
		} else {
			settled = 0
		}
		if settled == 3 {
			if sumBound > norlundTolerance*cmplx.Abs(sum) {
				return 0, fmt.Errorf("%w: expansion around z=1 at z=%g", ErrPrecision, z)
			}
			return norlundPrefactor(b[q-1], excess[q-1], z, w) * sum, nil
		}
		wk *= w
	}
	return 0, fmt.Errorf("%w: expansion around z=1 at z=%g after %d terms", ErrNoConvergence, z, maxNorlundTerms)
}

// norlundOrder pairs the parameters for the convolution: the lower
// parameter with the smallest real part goes last, so the leading power
// keeps the coefficients bounded, and the remaining pairs take the
// largest differences first so the partial excesses stay away from
// zeros of the denominators (σ+a_p-b_p)_k.
func norlundOrder(a, b []complex128) ([]complex128, []complex128) {
	sa := append([]complex128(nil), a...)
	sb := append([]complex128(nil), b...)
	sort.SliceStable(sa, func(i, j int) bool { return real(sa[i]) > real(sa[j]) })
	sort.SliceStable(sb, func(i, j int) bool { return real(sb[i]) < real(sb[j]) })

	q := len(sa)
	oa := make([]complex128, 0, q)
	ob := make([]complex128, 0, q)
	oa = append(oa, sa[:q-1]...)
	ob = append(ob, sb[1:]...)
	oa = append(oa, sa[q-1])
	ob = append(ob, sb[0])
	return oa, ob
}

// norlundPrefactor returns z^β (1-z)^{s-1} / Γ(s) in log space.
func norlundPrefactor(beta, s complex128, z, w float64) complex128 {
	l := beta*complex(math.Log(z), 0) + (s-1)*complex(math.Log(w), 0) - LogGamma(s)
	return cmplx.Exp(l)
}
