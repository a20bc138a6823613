package special

import (
	"math"
	"math/big"
	"sync"
)

// Elementary functions on big.Float. Each works at prec plus extraBits
// and rounds its result to prec.

const extraBits = 32

type constCache struct {
	mu     sync.Mutex
	values map[uint]*big.Float
	eval   func(prec uint) *big.Float
}

func (c *constCache) get(prec uint) *big.Float {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[prec]; ok {
		return new(big.Float).Set(v)
	}
	if c.values == nil {
		c.values = make(map[uint]*big.Float)
	}
	v := c.eval(prec)
	c.values[prec] = v
	return new(big.Float).Set(v)
}

var (
	piCache  = constCache{eval: computePi}
	ln2Cache = constCache{eval: computeLn2}
)

func bigPi(prec uint) *big.Float  { return piCache.get(prec) }
func bigLn2(prec uint) *big.Float { return ln2Cache.get(prec) }

func newFloat(prec uint) *big.Float { return new(big.Float).SetPrec(prec) }

// negligible reports whether term no longer changes sum at prec bits.
func negligible(term, sum *big.Float, prec uint) bool {
	if term.Sign() == 0 {
		return true
	}
	if sum.Sign() == 0 {
		return false
	}
	return term.MantExp(nil) < sum.MantExp(nil)-int(prec)-2
}

// computePi uses Machin's formula π = 16 atan(1/5) - 4 atan(1/239).
func computePi(prec uint) *big.Float {
	w := prec + extraBits
	a := atanInv(5, w)
	b := atanInv(239, w)
	a.Mul(a, newFloat(w).SetInt64(16))
	b.Mul(b, newFloat(w).SetInt64(4))
	return newFloat(prec).Sub(a, b)
}

// atanInv returns atan(1/n) by its Taylor series.
func atanInv(n int64, prec uint) *big.Float {
	x := newFloat(prec).Quo(newFloat(prec).SetInt64(1), newFloat(prec).SetInt64(n))
	x2 := newFloat(prec).Mul(x, x)
	sum := newFloat(prec).Set(x)
	pow := newFloat(prec).Set(x)
	for k := int64(1); ; k++ {
		pow.Mul(pow, x2)
		term := newFloat(prec).Quo(pow, newFloat(prec).SetInt64(2*k+1))
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		if negligible(term, sum, prec) {
			return sum
		}
	}
}

// computeLn2 sums ln 2 = Σ 1/(k 2^k).
func computeLn2(prec uint) *big.Float {
	w := prec + extraBits
	sum := newFloat(w)
	for k := int64(1); ; k++ {
		term := newFloat(w).SetMantExp(newFloat(w).SetInt64(1), -int(k))
		term.Quo(term, newFloat(w).SetInt64(k))
		sum.Add(sum, term)
		if negligible(term, sum, w) {
			return newFloat(prec).Set(sum)
		}
	}
}

// bigExp returns e^x.
func bigExp(x *big.Float, prec uint) *big.Float {
	if x.Sign() == 0 {
		return newFloat(prec).SetInt64(1)
	}
	w := prec + extraBits
	xf, _ := x.Float64()
	k := int64(math.Round(xf / math.Ln2))

	// x = k ln2 + r with |r| <= ln2/2, then r is halved 2^halvings times.
	const halvings = 8
	r := newFloat(w).Mul(bigLn2(w), newFloat(w).SetInt64(k))
	r.Sub(newFloat(w).Set(x), r)
	r.SetMantExp(r, -halvings)

	sum := newFloat(w).SetInt64(1)
	term := newFloat(w).SetInt64(1)
	for n := int64(1); ; n++ {
		term.Mul(term, r)
		term.Quo(term, newFloat(w).SetInt64(n))
		sum.Add(sum, term)
		if negligible(term, sum, w) {
			break
		}
	}
	for i := 0; i < halvings; i++ {
		sum.Mul(sum, sum)
	}
	sum.SetMantExp(sum, int(k))
	return newFloat(prec).Set(sum)
}

// bigLog returns ln x for x > 0 and -Inf otherwise.
func bigLog(x *big.Float, prec uint) *big.Float {
	if x.Sign() <= 0 {
		return newFloat(prec).SetInf(true)
	}
	w := prec + extraBits
	m := newFloat(w)
	e := x.MantExp(m)
	// Center the mantissa on 1: m in [1/√2, √2).
	if m.Cmp(big.NewFloat(math.Sqrt2/2)) < 0 {
		m.SetMantExp(m, 1)
		e--
	}

	// ln m = 2 atanh(t), t = (m-1)/(m+1).
	one := newFloat(w).SetInt64(1)
	t := newFloat(w).Sub(m, one)
	t.Quo(t, newFloat(w).Add(m, one))
	t2 := newFloat(w).Mul(t, t)
	sum := newFloat(w).Set(t)
	pow := newFloat(w).Set(t)
	for k := int64(1); ; k++ {
		pow.Mul(pow, t2)
		term := newFloat(w).Quo(pow, newFloat(w).SetInt64(2*k+1))
		sum.Add(sum, term)
		if negligible(term, sum, w) {
			break
		}
	}
	sum.SetMantExp(sum, 1)
	sum.Add(sum, newFloat(w).Mul(bigLn2(w), newFloat(w).SetInt64(int64(e))))
	return newFloat(prec).Set(sum)
}

// bigAtan returns atan(x).
func bigAtan(x *big.Float, prec uint) *big.Float {
	w := prec + extraBits
	if x.Sign() == 0 {
		return newFloat(prec)
	}
	if x.Sign() < 0 {
		r := bigAtan(newFloat(w).Neg(x), prec)
		return r.Neg(r)
	}
	one := newFloat(w).SetInt64(1)
	if x.Cmp(one) > 0 {
		// atan(x) = π/2 - atan(1/x)
		r := bigAtan(newFloat(w).Quo(one, x), w)
		half := bigPi(w)
		half.SetMantExp(half, -1)
		return newFloat(prec).Sub(half, r)
	}

	// atan(x) = 2 atan(x / (1 + sqrt(1 + x²))), applied twice.
	y := newFloat(w).Set(x)
	for i := 0; i < 2; i++ {
		s := newFloat(w).Mul(y, y)
		s.Add(s, one)
		s.Sqrt(s)
		s.Add(s, one)
		y.Quo(y, s)
	}

	y2 := newFloat(w).Mul(y, y)
	sum := newFloat(w).Set(y)
	pow := newFloat(w).Set(y)
	for k := int64(1); ; k++ {
		pow.Mul(pow, y2)
		term := newFloat(w).Quo(pow, newFloat(w).SetInt64(2*k+1))
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		if negligible(term, sum, w) {
			break
		}
	}
	sum.SetMantExp(sum, 2)
	return newFloat(prec).Set(sum)
}

// bigAtan2 returns the argument of x + iy in (-π, π].
func bigAtan2(y, x *big.Float, prec uint) *big.Float {
	w := prec + extraBits
	switch {
	case x.Sign() > 0:
		return bigAtan(newFloat(w).Quo(y, x), prec)
	case x.Sign() < 0:
		r := bigAtan(newFloat(w).Quo(y, x), w)
		if y.Sign() >= 0 {
			return newFloat(prec).Add(r, bigPi(w))
		}
		return newFloat(prec).Sub(r, bigPi(w))
	case y.Sign() > 0:
		half := bigPi(prec)
		return half.SetMantExp(half, -1)
	case y.Sign() < 0:
		half := bigPi(prec)
		half.SetMantExp(half, -1)
		return half.Neg(half)
	default:
		return newFloat(prec)
	}
}

// bigSinCos returns sin x and cos x.
func bigSinCos(x *big.Float, prec uint) (sin, cos *big.Float) {
	w := prec + extraBits
	xf, _ := x.Float64()
	k := int64(math.Round(xf / (2 * math.Pi)))

	twoPi := bigPi(w)
	twoPi.SetMantExp(twoPi, 1)
	r := newFloat(w).Mul(twoPi, newFloat(w).SetInt64(k))
	r.Sub(newFloat(w).Set(x), r)

	const halvings = 8
	r.SetMantExp(r, -halvings)
	r2 := newFloat(w).Mul(r, r)

	s := newFloat(w).Set(r)
	c := newFloat(w).SetInt64(1)
	st := newFloat(w).Set(r)
	ct := newFloat(w).SetInt64(1)
	for n := int64(1); ; n++ {
		st.Mul(st, r2)
		st.Quo(st, newFloat(w).SetInt64((2*n)*(2*n+1)))
		ct.Mul(ct, r2)
		ct.Quo(ct, newFloat(w).SetInt64((2*n-1)*(2*n)))
		if n%2 == 1 {
			s.Sub(s, st)
			c.Sub(c, ct)
		} else {
			s.Add(s, st)
			c.Add(c, ct)
		}
		if negligible(st, s, w) && negligible(ct, c, w) {
			break
		}
	}

	two := newFloat(w).SetInt64(2)
	for i := 0; i < halvings; i++ {
		// sin 2r = 2 sin r cos r, cos 2r = 2cos² r - 1
		ns := newFloat(w).Mul(s, c)
		ns.Mul(ns, two)
		nc := newFloat(w).Mul(c, c)
		nc.Mul(nc, two)
		nc.Sub(nc, newFloat(w).SetInt64(1))
		s, c = ns, nc
	}
	return newFloat(prec).Set(s), newFloat(prec).Set(c)
}
