package special_test

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/multistate/internal/special"
)

func c(xs ...float64) []complex128 {
	out := make([]complex128, len(xs))
	for i, x := range xs {
		out[i] = complex(x, 0)
	}
	return out
}

var _ = Describe("Hyper", func() {
	DescribeTable("closed forms",
		func(a, b []complex128, z, want float64) {
			got, err := special.Hyper(a, b, z)
			Expect(err).NotTo(HaveOccurred())
			Expect(real(got)).To(BeNumerically("~", want, 1e-12*math.Max(1e-300, math.Abs(want))))
			Expect(imag(got)).To(BeZero())
		},
		Entry("0F0 is the exponential", c(), c(), 2.5, math.Exp(2.5)),
		Entry("0F0 under heavy cancellation", c(), c(), -100.0, math.Exp(-100)),
		Entry("1F1(1;2;x) = (e^x-1)/x", c(1), c(2), -50.0, -math.Expm1(-50)/50),
		Entry("2F1(1,1;2;z) = -ln(1-z)/z", c(1, 1), c(2), 0.5, 2*math.Ln2),
		Entry("terminating 1F1 is a Laguerre polynomial", c(-2), c(1), 3.0, -0.5),
		Entry("1F0(a;;z) = (1-z)^-a", c(2.5), c(), 0.3, math.Pow(0.7, -2.5)),
	)

	It("is 1 at z = 0", func() {
		got, err := special.Hyper(c(3, 4), c(5), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(complex(1, 0)))
	})

	It("returns values beyond float64 range in scaled form", func() {
		m, exp, err := special.HyperScaled(c(), c(), -1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(float64(exp) + math.Log2(cmplx.Abs(m))).To(BeNumerically("~", -1000/math.Ln2, 1e-6))
		Expect(real(m)).To(BeNumerically(">", 0))
	})

	It("handles complex parameters", func() {
		// 1F1(a;a;z) = e^z for any a.
		a := complex(1.5, 2)
		got, err := special.Hyper([]complex128{a}, []complex128{a}, -30)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmplx.Abs(got - complex(math.Exp(-30), 0))).To(BeNumerically("<", 1e-12*math.Exp(-30)))
	})

	It("rejects poles in the lower parameters", func() {
		_, err := special.Hyper(c(1), c(-3), 0.5)
		Expect(err).To(MatchError(special.ErrPole))
	})

	It("rejects divergent configurations", func() {
		_, err := special.Hyper(c(1, 2, 3), c(4), 0.5)
		Expect(err).To(MatchError(special.ErrDomain))

		_, err = special.Hyper(c(1, 1), c(2), 1.5)
		Expect(err).To(MatchError(special.ErrDomain))

		_, err = special.Hyper(c(1), c(2), math.NaN())
		Expect(err).To(MatchError(special.ErrDomain))
	})
})
