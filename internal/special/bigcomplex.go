package special

import (
	"math"
	"math/big"
)

// bigComplex is a complex number with arbitrary-precision parts.
// Operations allocate their result at the receiver's precision.
type bigComplex struct {
	re, im *big.Float
}

func newBigComplex(prec uint, c complex128) bigComplex {
	return bigComplex{
		re: new(big.Float).SetPrec(prec).SetFloat64(real(c)),
		im: new(big.Float).SetPrec(prec).SetFloat64(imag(c)),
	}
}

func (x bigComplex) prec() uint { return x.re.Prec() }

func (x bigComplex) newFloat() *big.Float {
	return new(big.Float).SetPrec(x.prec())
}

func (x bigComplex) sub(y bigComplex) bigComplex {
	return bigComplex{
		re: x.newFloat().Sub(x.re, y.re),
		im: x.newFloat().Sub(x.im, y.im),
	}
}

func (x bigComplex) add(y bigComplex) bigComplex {
	return bigComplex{
		re: x.newFloat().Add(x.re, y.re),
		im: x.newFloat().Add(x.im, y.im),
	}
}

// addInt returns x + k exactly for any k representable at x's precision.
func (x bigComplex) addInt(k int) bigComplex {
	return bigComplex{
		re: x.newFloat().Add(x.re, x.newFloat().SetInt64(int64(k))),
		im: x.newFloat().Set(x.im),
	}
}

func (x bigComplex) mul(y bigComplex) bigComplex {
	ac := x.newFloat().Mul(x.re, y.re)
	bd := x.newFloat().Mul(x.im, y.im)
	ad := x.newFloat().Mul(x.re, y.im)
	bc := x.newFloat().Mul(x.im, y.re)
	return bigComplex{re: ac.Sub(ac, bd), im: ad.Add(ad, bc)}
}

func (x bigComplex) quo(y bigComplex) bigComplex {
	den := x.newFloat().Mul(y.re, y.re)
	den.Add(den, x.newFloat().Mul(y.im, y.im))

	ac := x.newFloat().Mul(x.re, y.re)
	bd := x.newFloat().Mul(x.im, y.im)
	bc := x.newFloat().Mul(x.im, y.re)
	ad := x.newFloat().Mul(x.re, y.im)

	re := ac.Add(ac, bd)
	im := bc.Sub(bc, ad)
	return bigComplex{re: re.Quo(re, den), im: im.Quo(im, den)}
}

func (x bigComplex) scale(f float64) bigComplex {
	g := x.newFloat().SetFloat64(f)
	return bigComplex{
		re: x.newFloat().Mul(x.re, g),
		im: x.newFloat().Mul(x.im, g),
	}
}

// log returns the principal logarithm of x, which must be nonzero.
func (x bigComplex) log() bigComplex {
	p := x.prec()
	mag := x.newFloat().Mul(x.re, x.re)
	mag.Add(mag, x.newFloat().Mul(x.im, x.im))
	re := bigLog(mag, p)
	re.SetMantExp(re, -1)
	return bigComplex{re: re, im: bigAtan2(x.im, x.re, p)}
}

func (x bigComplex) exp() bigComplex {
	p := x.prec()
	e := bigExp(x.re, p)
	sin, cos := bigSinCos(x.im, p)
	return bigComplex{
		re: x.newFloat().Mul(e, cos),
		im: x.newFloat().Mul(e, sin),
	}
}

func (x bigComplex) value() complex128 {
	re, _ := x.re.Float64()
	im, _ := x.im.Float64()
	return complex(re, im)
}

func (x bigComplex) isZero() bool {
	return x.re.Sign() == 0 && x.im.Sign() == 0
}

// log2Mag approximates log2|x| to within half a bit; -Inf for zero.
func (x bigComplex) log2Mag() float64 {
	best := math.Inf(-1)
	for _, f := range []*big.Float{x.re, x.im} {
		if f.Sign() == 0 {
			continue
		}
		mant := new(big.Float)
		exp := f.MantExp(mant)
		m, _ := mant.Float64()
		best = math.Max(best, float64(exp)+math.Log2(math.Abs(m)))
	}
	return best
}

// scaled splits x into a float64 mantissa and a binary exponent so that
// x = m * 2^exp without overflow or underflow.
func (x bigComplex) scaled() (complex128, int) {
	if x.isZero() {
		return 0, 0
	}
	exp := math.MinInt
	for _, f := range []*big.Float{x.re, x.im} {
		if f.Sign() != 0 {
			exp = max(exp, f.MantExp(nil))
		}
	}
	re, _ := new(big.Float).SetMantExp(x.re, -exp).Float64()
	im, _ := new(big.Float).SetMantExp(x.im, -exp).Float64()
	return complex(re, im), exp
}
