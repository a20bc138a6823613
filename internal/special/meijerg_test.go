package special_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/multistate/internal/special"
)

var _ = Describe("MeijerG", func() {
	It("reduces to a power function for q = 1", func() {
		// G^{1,0}_{1,1}(z | a; b) = z^b (1-z)^{a-b-1} / Γ(a-b)
		got, err := special.MeijerG(c(4), c(1), 0.3)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(got)).To(BeNumerically("~", 0.0735, 1e-14))
	})

	It("has the Mellin moments ΠΓ(b+1)/ΠΓ(a+1) for q = 2", func() {
		a, b := c(3, 4), c(1, 1.5)
		f := func(x float64) float64 {
			g, err := special.MeijerG(a, b, x)
			Expect(err).NotTo(HaveOccurred())
			return real(g)
		}
		got := quad.Fixed(f, 0, 1, 200, quad.Legendre{}, 0)
		want := math.Gamma(2) * math.Gamma(2.5) / (math.Gamma(4) * math.Gamma(5))
		Expect(got).To(BeNumerically("~", want, 1e-8))
	})

	It("vanishes beyond z = 1", func() {
		got, err := special.MeijerG(c(3, 4), c(1, 1.5), 1.2)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeZero())
	})

	It("follows the parameter excess at z = 1", func() {
		got, err := special.MeijerG(c(3, 4), c(1, 1.5), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeZero())

		got, err = special.MeijerG(c(2), c(1), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(got)).To(BeNumerically("~", 1, 1e-14))

		got, err = special.MeijerG(c(1.5), c(1), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsInf(real(got), 1)).To(BeTrue())
	})

	It("takes the small-argument limit at z = 0", func() {
		got, err := special.MeijerG(c(4), c(1), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeZero())

		got, err = special.MeijerG(c(3), c(0), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(got)).To(BeNumerically("~", 0.5, 1e-14))
	})

	DescribeTable("resolves lower parameters differing by an integer",
		func(a, b []complex128, z, want float64) {
			got, err := special.MeijerG(a, b, z)
			Expect(err).NotTo(HaveOccurred())
			Expect(real(got)).To(BeNumerically("~", want, 1e-9))
			Expect(math.Abs(imag(got))).To(BeNumerically("<", 1e-12))
		},
		// Mellin transform 1/((s+1)(s+2)) gives z(1-z).
		Entry("spaced by one", c(2, 3), c(1, 2), 0.3, 0.3*0.7),
		// Mellin transform 1/(s+1)² gives -z ln z.
		Entry("coincident", c(2, 2), c(1, 1), 0.3, -0.3*math.Log(0.3)),
	)

	It("stays accurate where the Slater terms cancel", func() {
		// ∫ x G(x | 4, 5; 1, 1.5) dx = ΠΓ(b+2)/ΠΓ(a+2); G is tiny near 1.
		a, b := c(4, 5), c(1, 1.5)
		f := func(x float64) float64 {
			g, err := special.MeijerG(a, b, x)
			Expect(err).NotTo(HaveOccurred())
			return x * real(g)
		}
		got := quad.Fixed(f, 0, 1, 100, quad.Legendre{}, 0)
		want := math.Gamma(3) * math.Gamma(3.5) / (math.Gamma(6) * math.Gamma(7))
		Expect(got).To(BeNumerically("~", want, 1e-10))

		g, err := special.MeijerG(a, b, 0.95)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(g)).To(BeNumerically(">=", 0))
	})

	DescribeTable("sums the expansion around z = 1",
		func(z float64) {
			w := 1 - z
			// Mellin transform 1/((s+1)(s+2)(s+3)) gives z(1-z)²/2.
			got, err := special.MeijerG(c(2, 3, 4), c(1, 2, 3), z)
			Expect(err).NotTo(HaveOccurred())
			want := z * w * w / 2
			Expect(real(got)).To(BeNumerically("~", want, want*1e-10))

			// Leading power (1-z)^{s-1}/Γ(s) for the excess s = 4.5.
			got, err = special.MeijerG(c(3, 4), c(1, 1.5), z)
			Expect(err).NotTo(HaveOccurred())
			lead := math.Pow(w, 3.5) / math.Gamma(4.5)
			Expect(real(got) / lead).To(BeNumerically("~", 1, 2*w))
		},
		Entry("at 0.999", 0.999),
		Entry("at 0.9999", 0.9999),
		Entry("next to 1", 1-1e-8),
	)

	DescribeTable("is continuous where the expansion around z = 1 takes over",
		func(a, b []complex128) {
			below, err := special.MeijerG(a, b, 0.5-1e-9)
			Expect(err).NotTo(HaveOccurred())
			above, err := special.MeijerG(a, b, 0.5+1e-9)
			Expect(err).NotTo(HaveOccurred())
			Expect(real(above)).To(BeNumerically("~", real(below), 1e-7*math.Abs(real(below))))
		},
		Entry("distinct lower parameters", c(3, 4), c(1, 1.5)),
		Entry("lower parameters spaced by one", c(2, 3, 4), c(1, 2, 3)),
	)

	It("rejects malformed input", func() {
		_, err := special.MeijerG(c(3, 4), c(1), 0.5)
		Expect(err).To(MatchError(special.ErrDomain))

		_, err = special.MeijerG(c(3), c(1), -0.1)
		Expect(err).To(MatchError(special.ErrDomain))
	})
})
