package refractory_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/refractory"
	"github.com/san-kum/multistate/internal/special"
)

func integrate(f func(float64) (float64, error), lo, hi float64, n int) float64 {
	return quad.Fixed(func(x float64) float64 {
		v, err := f(x)
		Expect(err).NotTo(HaveOccurred())
		return v
	}, lo, hi, n, quad.Legendre{}, 0)
}

var _ = Describe("Distributions", func() {
	Describe("Active", func() {
		It("is exponential with the exit rate of the active state", func() {
			m := newModel(twoState())
			ts := []float64{0, 0.1, 0.5, 2}
			got, err := m.Active(ts)
			Expect(err).NotTo(HaveOccurred())
			for i, t := range ts {
				Expect(got[i]).To(BeNumerically("~", 3*math.Exp(-3*t), 1e-14))
			}
		})

		It("vanishes for negative times", func() {
			got, err := newModel(twoState()).ActiveAt(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeZero())
		})
	})

	Describe("Inactive", func() {
		It("is exponential for two states", func() {
			m := newModel(twoState())
			ts := []float64{0, 0.25, 1, 3}
			got, err := m.Inactive(ts)
			Expect(err).NotTo(HaveOccurred())
			for i, t := range ts {
				Expect(got[i]).To(BeNumerically("~", 2*math.Exp(-2*t), 1e-10))
			}
		})

		It("is a normalised phase-type density with the mean of the cycle", func() {
			m := newModel(cycle(10, 4, 5, 3))
			total := integrate(m.InactiveAt, 0, 40, 200)
			mean := integrate(func(t float64) (float64, error) {
				f, err := m.InactiveAt(t)
				return t * f, err
			}, 0, 40, 200)
			Expect(total).To(BeNumerically("~", 1, 1e-8))
			Expect(mean).To(BeNumerically("~", 1.0/4+1.0/5+1.0/3, 1e-8))
		})

		It("vanishes for negative times and rejects NaN", func() {
			m := newModel(twoState())
			got, err := m.InactiveAt(-0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeZero())

			_, err = m.Inactive([]float64{math.NaN()})
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
		})
	})

	Describe("PDMP", func() {
		It("is Beta(2, 3) for two states", func() {
			m := newModel(twoState())
			beta := distuv.Beta{Alpha: 2, Beta: 3}
			for _, x := range []float64{0.05, 0.2, 0.5, 0.8, 0.99} {
				got, err := m.PDMPAt(x, refractory.DefaultPDMPScale)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(BeNumerically("~", beta.Prob(x), 1e-10))
			}
		})

		It("rescales with the production scale", func() {
			m := newModel(twoState())
			beta := distuv.Beta{Alpha: 2, Beta: 3}
			got, err := m.PDMP([]float64{-1, 0.6, 1.5, 2.5}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0]).To(BeZero())
			Expect(got[1]).To(BeNumerically("~", beta.Prob(0.3)/2, 1e-10))
			Expect(got[2]).To(BeNumerically("~", beta.Prob(0.75)/2, 1e-10))
			Expect(got[3]).To(BeZero())
		})

		DescribeTable("is normalised with the stationary active probability as mean",
			func(rates []float64) {
				g := cycle(rates...)
				m := newModel(g)
				pi, err := g.Stationary()
				Expect(err).NotTo(HaveOccurred())

				total := integrate(func(x float64) (float64, error) { return m.PDMPAt(x, 1) }, 0, 1, 100)
				mean := integrate(func(x float64) (float64, error) {
					f, err := m.PDMPAt(x, 1)
					return x * f, err
				}, 0, 1, 100)
				Expect(total).To(BeNumerically("~", 1, 1e-6))
				Expect(mean).To(BeNumerically("~", pi[0], 1e-6))
			},
			Entry("distinct inactive exit rates", []float64{10, 4.3, 5.7, 3.1}),
			Entry("inactive exit rates spaced by integers", []float64{10, 4, 5, 3}),
		)

		It("stays finite at the top of its support", func() {
			m := newModel(cycle(10, 4, 5, 3))
			got, err := m.PDMP([]float64{0.99, 0.999}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0]).To(BeNumerically("~", 4.337566885867e-18, 1e-26))
			Expect(got[1]).To(BeNumerically("~", 4.298490366461e-27, 1e-35))

			// f(x) ~ ΠΓ(v)/ΠΓ(u) · (1-x)^{s-1}/Γ(s), s the exit rate 10.
			const lead = 4.294191876746
			for _, x := range []float64{0.9999, 1 - 1e-8} {
				f, err := m.PDMPAt(x, 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(f / math.Pow(1-x, 9)).To(BeNumerically("~", lead, 5*(1-x)*lead))
			}
		})

		It("reports an imaginary residue above the tolerance", func() {
			// The inactive block of this cycle has complex eigenvalues, so
			// the evaluated density carries rounding in its imaginary part.
			m := newModel(cycle(10, 4.3, 5.7, 3.1), refractory.WithImagTolerance(0, 0))
			xs := make([]float64, 37)
			for i := range xs {
				xs[i] = (float64(i) + 0.5) / 37
			}
			_, err := m.PDMP(xs, 1)
			Expect(err).To(MatchError(special.ErrPrecision))

			_, err = newModel(cycle(10, 4.3, 5.7, 3.1)).PDMP(xs, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a non-positive scale", func() {
			_, err := newModel(twoState()).PDMP([]float64{0.5}, 0)
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
		})
	})

	Describe("Poisson", func() {
		It("is the Poisson mixture of the PDMP law", func() {
			m := newModel(twoState())
			beta := distuv.Beta{Alpha: 2, Beta: 3}
			const scale = 10.0
			for _, count := range []int{0, 1, 3, 7, 15} {
				want := quad.Fixed(func(x float64) float64 {
					return distuv.Poisson{Lambda: scale * x}.Prob(float64(count)) * beta.Prob(x)
				}, 0, 1, 100, quad.Legendre{}, 0)
				got, err := m.PoissonAt(count, scale)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(BeNumerically("~", want, 1e-10))
			}
		})

		It("sums to one at the default scale", func() {
			m := newModel(cycle(10, 4, 5, 3))
			counts := make([]int, 121)
			for i := range counts {
				counts[i] = i
			}
			ps, err := m.Poisson(counts, refractory.DefaultPoissonScale)
			Expect(err).NotTo(HaveOccurred())

			total, mean := 0.0, 0.0
			for i, p := range ps {
				Expect(p).To(BeNumerically(">=", -1e-12))
				total += p
				mean += float64(i) * p
			}
			pi, err := m.Generator().Stationary()
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeNumerically("~", 1, 1e-8))
			Expect(mean).To(BeNumerically("~", refractory.DefaultPoissonScale*pi[0], 1e-5))
		})

		It("rejects negative counts and non-positive scales", func() {
			m := newModel(twoState())
			_, err := m.Poisson([]int{1, -1}, 10)
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
			_, err = m.PoissonAt(1, -5)
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
		})
	})

	Describe("workers", func() {
		It("do not change the result", func() {
			g := cycle(10, 4.3, 5.7, 3.1)
			xs := make([]float64, 37)
			for i := range xs {
				xs[i] = (float64(i) + 0.5) / 37
			}
			serial, err := newModel(g, refractory.WithWorkers(1)).PDMP(xs, 1)
			Expect(err).NotTo(HaveOccurred())
			concurrent, err := newModel(g, refractory.WithWorkers(8)).PDMP(xs, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(concurrent).To(Equal(serial))

			ms := []int{0, 1, 2, 5, 10, 20, 40, 60, 80, 100}
			serial, err = newModel(g, refractory.WithWorkers(1)).Poisson(ms, 100)
			Expect(err).NotTo(HaveOccurred())
			concurrent, err = newModel(g, refractory.WithWorkers(3)).Poisson(ms, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(concurrent).To(Equal(serial))
		})

		It("must be positive", func() {
			_, err := refractory.New(twoState(), 1, refractory.WithWorkers(0))
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
		})
	})
})
