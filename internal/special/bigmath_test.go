package special

import (
	"math"
	"math/big"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func f64(x *big.Float) float64 {
	v, _ := x.Float64()
	return v
}

var _ = Describe("big.Float elementary functions", func() {
	const prec = 200

	It("computes π and ln 2", func() {
		Expect(f64(bigPi(prec))).To(Equal(math.Pi))
		Expect(f64(bigLn2(prec))).To(Equal(math.Ln2))
	})

	It("inverts exp with log", func() {
		for _, x := range []float64{-40.5, -1, 1e-3, 0.7, 12.25, 300} {
			y := bigLog(bigExp(big.NewFloat(x), prec), prec)
			diff := new(big.Float).Sub(y, new(big.Float).SetPrec(prec).SetFloat64(x))
			Expect(math.Abs(f64(diff))).To(BeNumerically("<", 1e-50*math.Max(1, math.Abs(x))))
		}
	})

	It("agrees with float64 math", func() {
		for _, x := range []float64{-7.3, -0.2, 0.5, 3, 25} {
			Expect(f64(bigExp(big.NewFloat(x), prec))).To(BeNumerically("~", math.Exp(x), 1e-15*math.Exp(x)))
			s, c := bigSinCos(big.NewFloat(x), prec)
			Expect(f64(s)).To(BeNumerically("~", math.Sin(x), 1e-15))
			Expect(f64(c)).To(BeNumerically("~", math.Cos(x), 1e-15))
			Expect(f64(bigAtan(big.NewFloat(x), prec))).To(BeNumerically("~", math.Atan(x), 1e-15))
		}
		Expect(f64(bigLog(big.NewFloat(1e-30), prec))).To(BeNumerically("~", math.Log(1e-30), 1e-13))
	})

	It("places atan2 in every quadrant", func() {
		for _, p := range [][2]float64{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}, {0, -2}, {3, 0}, {-3, 0}} {
			got := f64(bigAtan2(big.NewFloat(p[0]), big.NewFloat(p[1]), prec))
			Expect(got).To(BeNumerically("~", math.Atan2(p[0], p[1]), 1e-15))
		}
	})

	It("takes complex logarithms and exponentials", func() {
		z := newBigComplex(prec, complex(-2.5, 0.75))
		Expect(cmplx.Abs(z.log().value() - cmplx.Log(complex(-2.5, 0.75)))).To(BeNumerically("<", 1e-15))
		Expect(cmplx.Abs(z.log().exp().value() - complex(-2.5, 0.75))).To(BeNumerically("<", 1e-14))
	})

	It("matches the float64 log-gamma", func() {
		for _, z := range []complex128{complex(0.5, 0), complex(3.7, -2), complex(-1.5, 0.25), complex(12, 40)} {
			got := bigLogGamma(newBigComplex(prec, z)).value()
			want := LogGamma(z)
			// Both are logarithms of the same Γ(z); compare the values.
			Expect(cmplx.Abs(cmplx.Exp(got-want) - 1)).To(BeNumerically("<", 1e-12))
			Expect(real(got)).To(BeNumerically("~", real(want), 1e-12*math.Max(1, math.Abs(real(want)))))
		}
	})

	It("computes Bernoulli numbers exactly", func() {
		// B_2 = 1/6, B_4 = -1/30, B_12 = -691/2730
		Expect(stirlingCoeff(0).Cmp(big.NewRat(1, 12))).To(BeZero())
		Expect(stirlingCoeff(1).Cmp(big.NewRat(-1, 360))).To(BeZero())
		Expect(stirlingCoeff(5).Cmp(big.NewRat(-691, 360360))).To(BeZero())
	})

	It("sums 0F0 beyond float64 range through the scaled form", func() {
		sum, _, err := sumHyper(nil, nil, -60, 400)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(sum.value())).To(BeNumerically("~", math.Exp(-60), 1e-12*math.Exp(-60)))
	})
})
