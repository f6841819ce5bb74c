package series

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bundle", func() {
	It("accepts matching shapes", func() {
		b := NewRealBundle([][]float64{{1, 2}, {3}}, [][]float64{{0.1, 0.1}, {0.2}})
		Expect(b.Validate()).To(Succeed())
		Expect(b.Rows()).To(Equal(2))
		Expect(b.Lags()).To(Equal(2))
	})

	It("rejects mismatched rows", func() {
		b := NewRealBundle([][]float64{{1, 2}}, [][]float64{{0.1}})
		Expect(b.Validate()).To(MatchError(ErrShapeMismatch))
	})

	It("rejects a missing error row", func() {
		b := NewRealBundle([][]float64{{1}, {2}}, [][]float64{{0.1}})
		Expect(b.Validate()).To(MatchError(ErrShapeMismatch))
	})

	It("reports imaginary parts", func() {
		b := NewRealBundle([][]float64{{1, 0.5}}, [][]float64{{0.1, 0.1}})
		Expect(b.HasImag()).To(BeFalse())
		b.Values[0][1] = complex(0.5, 0.1)
		Expect(b.HasImag()).To(BeTrue())
	})
})

var _ = Describe("Component", func() {
	row := []complex128{complex(3, 4), complex(0, 2)}

	DescribeTable("extracts",
		func(name string, want []float64) {
			c, err := ParseComponent(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Extract(row)).To(Equal(want))
		},
		Entry("real parts", "real", []float64{3, 0}),
		Entry("imaginary parts", "imag", []float64{4, 2}),
		Entry("magnitudes", "abs", []float64{5, 2}),
	)

	It("defaults to the real part", func() {
		c, err := ParseComponent("")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(Real))
	})

	It("rejects unknown names", func() {
		_, err := ParseComponent("phase")
		Expect(err).To(MatchError(ErrComponent))
	})
})

var _ = Describe("Log", func() {
	It("maps non-positive values to non-finite results", func() {
		out := Log([]float64{math.E, 0, -1})
		Expect(out[0]).To(BeNumerically("~", 1, 1e-12))
		Expect(math.IsInf(out[1], -1)).To(BeTrue())
		Expect(math.IsNaN(out[2])).To(BeTrue())
	})
})

var _ = Describe("Window", func() {
	values := []float64{1, 0.5, 0.25, -0.1, 0, 0.05}
	errs := []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01}

	It("drops lags with a non-finite log or log error", func() {
		m := Window{}.Apply(values, errs)
		Expect(m.Index).To(Equal([]int{0, 1, 2, 5}))
		Expect(m.Dropped).To(Equal([]int{3, 4}))
		for i := range m.Index {
			Expect(math.IsNaN(m.Log[i]) || math.IsInf(m.Log[i], 0)).To(BeFalse())
			Expect(math.IsNaN(m.LogErr[i]) || math.IsInf(m.LogErr[i], 0)).To(BeFalse())
		}
	})

	It("keeps the parallel slices aligned", func() {
		m := Window{}.Apply(values, errs)
		Expect(m.Lags).To(HaveLen(m.Len()))
		Expect(m.Values).To(HaveLen(m.Len()))
		Expect(m.Errors).To(HaveLen(m.Len()))
		Expect(m.LogErr).To(HaveLen(m.Len()))
		Expect(m.LogErr[1]).To(BeNumerically("~", math.Log(0.51/0.5), 1e-12))
	})

	It("truncates to the window", func() {
		m := Window{From: 1, To: 3}.Apply(values, errs)
		Expect(m.Index).To(Equal([]int{1, 2}))
		Expect(m.Lags).To(Equal([]float64{1, 2}))
	})

	It("clamps out of range bounds", func() {
		from, to := Window{From: -2, To: 100}.Bounds(4)
		Expect(from).To(Equal(0))
		Expect(to).To(Equal(4))

		from, to = Window{From: 9}.Bounds(4)
		Expect(from).To(Equal(4))
		Expect(to).To(Equal(4))
	})

	It("normalizes and rebases lags", func() {
		m := Window{From: 1, To: 3, Normalize: true}.Apply(values, errs)
		Expect(m.Lags).To(Equal([]float64{0, 1}))
		Expect(m.Values[0]).To(BeNumerically("~", 1, 1e-12))
		Expect(m.Values[1]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(m.Errors[0]).To(BeNumerically("~", 0.02, 1e-12))
	})

	It("returns an empty series for an all-zero row", func() {
		m := Window{}.Apply([]float64{0, 0, 0}, []float64{0.1, 0.1, 0.1})
		Expect(m.Len()).To(Equal(0))
		Expect(m.Dropped).To(HaveLen(3))
	})

	It("returns an empty series for an empty row", func() {
		m := Window{Normalize: true}.Apply(nil, nil)
		Expect(m.Len()).To(Equal(0))
	})
})
