package refractory_test

import (
	"encoding/json"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/refractory"
)

// twoState switches 1 -> 2 at rate 3 and back at rate 2.
func twoState() *promoter.Generator {
	rates, err := promoter.TwoState(2, 3)
	Expect(err).NotTo(HaveOccurred())
	return promoter.MustTransitionMatrix(rates)
}

func cycle(rates ...float64) *promoter.Generator {
	r, err := promoter.Cyclic(rates, nil)
	Expect(err).NotTo(HaveOccurred())
	return promoter.MustTransitionMatrix(r)
}

func newModel(g *promoter.Generator, opts ...refractory.Option) *refractory.Model {
	m, err := refractory.New(g, 1, opts...)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Model", func() {
	Describe("Spectrum", func() {
		It("gives the exit rate of the inactive state and the relaxation rate for two states", func() {
			spec := newModel(twoState()).Spectrum()
			Expect(spec.U).To(HaveLen(1))
			Expect(spec.V).To(HaveLen(1))
			Expect(real(spec.U[0])).To(BeNumerically("~", 2, 1e-12))
			Expect(real(spec.V[0])).To(BeNumerically("~", 5, 1e-12))
		})

		It("matches the traces of the generator and of the inactive block", func() {
			spec := newModel(cycle(10, 4, 5, 3)).Spectrum()
			Expect(spec.U).To(HaveLen(3))
			Expect(spec.V).To(HaveLen(3))

			// The inactive block of a cycle is triangular.
			for i, want := range []float64{3, 4, 5} {
				Expect(cmplx.Abs(spec.U[i] - complex(want, 0))).To(BeNumerically("<", 1e-10))
			}
			var sum complex128
			for _, v := range spec.V {
				sum += v
				Expect(real(v)).To(BeNumerically(">", 0))
			}
			Expect(real(sum)).To(BeNumerically("~", 22, 1e-10))
			Expect(math.Abs(imag(sum))).To(BeNumerically("<", 1e-10))
		})

		It("sorts by real then imaginary part", func() {
			spec := newModel(cycle(10, 4, 5, 3)).Spectrum()
			for i := 1; i < len(spec.V); i++ {
				prev, cur := spec.V[i-1], spec.V[i]
				Expect(real(prev) < real(cur) || (real(prev) == real(cur) && imag(prev) <= imag(cur))).To(BeTrue())
			}
		})

		It("is available from rates directly", func() {
			rates, err := promoter.TwoState(2, 3)
			Expect(err).NotTo(HaveOccurred())
			spec, err := refractory.Eigenvalues(rates, 2)
			Expect(err).NotTo(HaveOccurred())
			// With state 2 active the inactive block is state 1.
			Expect(real(spec.U[0])).To(BeNumerically("~", 3, 1e-12))
			Expect(real(spec.V[0])).To(BeNumerically("~", 5, 1e-12))
		})

		It("encodes eigenvalues as [re, im] pairs in JSON", func() {
			spec := refractory.Spectrum{U: []complex128{2}, V: []complex128{complex(1, -0.5), complex(1, 0.5)}}
			data, err := json.Marshal(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"u":[[2,0]],"v":[[1,-0.5],[1,0.5]]}`))

			var back refractory.Spectrum
			Expect(json.Unmarshal(data, &back)).To(Succeed())
			Expect(back).To(Equal(spec))
		})

		It("returns a copy", func() {
			m := newModel(twoState())
			spec := m.Spectrum()
			spec.U[0] = 42
			Expect(real(m.Spectrum().U[0])).To(BeNumerically("~", 2, 1e-12))
		})
	})

	Describe("New", func() {
		It("rejects an active state out of range", func() {
			_, err := refractory.New(twoState(), 3)
			Expect(err).To(MatchError(promoter.ErrInvalidState))

			_, err = refractory.New(twoState(), 0)
			Expect(err).To(MatchError(promoter.ErrInvalidState))

			_, err = refractory.Eigenvalues(promoter.Rates{{From: 1, To: 2}: 1, {From: 2, To: 1}: 1}, 5)
			Expect(err).To(MatchError(promoter.ErrInvalidState))
		})

		It("rejects bad arguments", func() {
			_, err := refractory.New(nil, 1)
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))

			_, err = refractory.New(twoState(), 1, refractory.WithImagTolerance(-1, 0))
			Expect(err).To(MatchError(promoter.ErrInvalidArgument))
		})

		It("propagates invalid rates", func() {
			_, err := refractory.Eigenvalues(promoter.Rates{{From: 1, To: 2}: -1}, 1)
			Expect(err).To(MatchError(promoter.ErrInvalidRate))
		})
	})
})
