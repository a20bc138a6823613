package special_test

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/multistate/internal/special"
)

var _ = Describe("LogGamma", func() {
	DescribeTable("agrees with math.Lgamma on the positive axis",
		func(x float64) {
			want, _ := math.Lgamma(x)
			got := special.LogGamma(complex(x, 0))
			Expect(real(got)).To(BeNumerically("~", want, 1e-12*math.Max(1, math.Abs(want))))
			Expect(imag(got)).To(BeZero())
		},
		Entry("small", 0.25),
		Entry("one", 1.0),
		Entry("half", 0.5),
		Entry("moderate", 7.5),
		Entry("large", 150.0),
	)

	It("matches the complex path for arguments off the axis", func() {
		for _, x := range []float64{0.3, 2.7, 11.2} {
			want, _ := math.Lgamma(x)
			got := special.LogGamma(complex(x, 1e-12))
			Expect(real(got)).To(BeNumerically("~", want, 1e-9))
		}
	})

	It("satisfies the reflection formula", func() {
		z := complex(0.3, 0.7)
		lhs := special.Gamma(z) * special.Gamma(1-z)
		rhs := complex(math.Pi, 0) / cmplx.Sin(complex(math.Pi, 0)*z)
		Expect(cmplx.Abs(lhs - rhs)).To(BeNumerically("<", 1e-12*cmplx.Abs(rhs)))
	})

	It("reproduces |Γ(1+i)|² = π/sinh π", func() {
		g := special.Gamma(complex(1, 1))
		Expect(real(g)*real(g) + imag(g)*imag(g)).To(BeNumerically("~", math.Pi/math.Sinh(math.Pi), 1e-12))
	})

	It("satisfies the recurrence Γ(z+1) = zΓ(z) for complex z", func() {
		z := complex(-2.4, 3.1)
		lhs := special.Gamma(z + 1)
		rhs := z * special.Gamma(z)
		Expect(cmplx.Abs(lhs - rhs)).To(BeNumerically("<", 1e-11*cmplx.Abs(rhs)))
	})

	It("handles negative non-integer reals", func() {
		Expect(real(special.Gamma(complex(-0.5, 0)))).To(BeNumerically("~", -2*math.Sqrt(math.Pi), 1e-12))
	})

	It("returns +Inf at the poles", func() {
		Expect(cmplx.IsInf(special.LogGamma(0))).To(BeTrue())
		Expect(cmplx.IsInf(special.LogGamma(complex(-3, 0)))).To(BeTrue())
	})

	It("recognises nonpositive integers within tolerance", func() {
		Expect(special.IsNonPositiveInteger(complex(-2, 0), 0)).To(BeTrue())
		Expect(special.IsNonPositiveInteger(complex(-2+1e-12, 0), 1e-9)).To(BeTrue())
		Expect(special.IsNonPositiveInteger(complex(-2.5, 0), 1e-9)).To(BeFalse())
		Expect(special.IsNonPositiveInteger(complex(1, 0), 1e-9)).To(BeFalse())
		Expect(special.IsNonPositiveInteger(complex(-1, 0.1), 1e-9)).To(BeFalse())
	})
})
