package special

import (
	"math/big"
	"sync"
)

// maxStirlingTerms bounds the Stirling series.
const maxStirlingTerms = 1000

var bernoulli struct {
	sync.Mutex
	b []*big.Rat
	// coeffs[k] is B_{2k+2} / ((2k+2)(2k+1)).
	coeffs []*big.Rat
}

// stirlingCoeff returns the k-th Stirling coefficient, extending the
// table of Bernoulli numbers on demand.
func stirlingCoeff(k int) *big.Rat {
	bernoulli.Lock()
	defer bernoulli.Unlock()
	if bernoulli.b == nil {
		bernoulli.b = []*big.Rat{big.NewRat(1, 1)}
	}
	for len(bernoulli.coeffs) <= k {
		for m := len(bernoulli.b); m <= 2*len(bernoulli.coeffs)+2; m++ {
			bernoulli.b = append(bernoulli.b, nextBernoulli(bernoulli.b))
		}
		m := int64(2*len(bernoulli.coeffs) + 2)
		c := new(big.Rat).Mul(bernoulli.b[m], big.NewRat(1, m*(m-1)))
		bernoulli.coeffs = append(bernoulli.coeffs, c)
	}
	return bernoulli.coeffs[k]
}

// nextBernoulli returns B_m for m = len(b) from
// B_m = -1/(m+1) Σ_{k<m} C(m+1, k) B_k.
func nextBernoulli(b []*big.Rat) *big.Rat {
	m := len(b)
	sum := new(big.Rat)
	binom := big.NewInt(1)
	for k := 0; k < m; k++ {
		if b[k].Sign() != 0 {
			sum.Add(sum, new(big.Rat).Mul(new(big.Rat).SetInt(binom), b[k]))
		}
		// C(m+1, k+1) = C(m+1, k) (m+1-k) / (k+1)
		binom.Mul(binom, big.NewInt(int64(m+1-k)))
		binom.Quo(binom, big.NewInt(int64(k+1)))
	}
	return sum.Mul(sum, big.NewRat(-1, int64(m+1)))
}

// bigLogGamma returns a logarithm of Γ(z) at z's precision, for z away
// from the poles. The imaginary part is only defined modulo 2π.
func bigLogGamma(z bigComplex) bigComplex {
	p := z.prec()
	w := p + extraBits
	z = bigComplex{re: newFloat(w).Set(z.re), im: newFloat(w).Set(z.im)}

	// Shift until Re z >= p so that the series reaches 2^-p quickly.
	prod := newBigComplex(w, 1)
	shifted := false
	limit := newFloat(w).SetInt64(int64(max(p, 20)))
	for z.re.Cmp(limit) < 0 {
		prod = prod.mul(z)
		z = z.addInt(1)
		shifted = true
	}

	// (z - 1/2) log z - z + log(2π)/2 + Σ c_k / z^{2k-1}
	logZ := z.log()
	half := newBigComplex(w, 0.5)
	res := z.sub(half).mul(logZ).sub(z)

	twoPi := bigPi(w)
	twoPi.SetMantExp(twoPi, 1)
	halfLog := bigLog(twoPi, w)
	halfLog.SetMantExp(halfLog, -1)
	res.re.Add(res.re, halfLog)

	inv := newBigComplex(w, 1).quo(z)
	inv2 := inv.mul(inv)
	pow := inv
	for k := 0; k < maxStirlingTerms; k++ {
		c := stirlingCoeff(k)
		term := pow.mul(bigComplex{re: newFloat(w).SetRat(c), im: newFloat(w)})
		res = res.add(term)
		if term.log2Mag() < res.log2Mag()-float64(w) {
			break
		}
		pow = pow.mul(inv2)
	}

	if shifted {
		res = res.sub(prod.log())
	}
	return bigComplex{re: newFloat(p).Set(res.re), im: newFloat(p).Set(res.im)}
}
