package fit

import (
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isingviz/internal/series"
)

// synthetic returns exp(rate*t) with multiplicative noise below the error bars.
func synthetic(rate float64, lags int, rel float64, seed uint64) ([]float64, []float64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	values := make([]float64, lags)
	errs := make([]float64, lags)
	for t := range values {
		exact := math.Exp(rate * float64(t))
		noise := (rng.Float64()*2 - 1) * 0.5 * rel
		values[t] = exact * (1 + noise)
		errs[t] = exact * rel
	}
	return values, errs
}

var _ = Describe("Decay", func() {
	It("recovers a known decay rate", func() {
		values, errs := synthetic(-0.25, 20, 0.02, 1)
		m := series.Window{}.Apply(values, errs)

		res, err := Decay(m, DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Rate).To(BeNumerically("~", -0.25, 0.01))
		Expect(res.Points).To(Equal(20))
		Expect(res.DOF).To(Equal(19))
		Expect(res.StdErr).To(BeNumerically(">", 0))
	})

	It("reproduces the data within the error bars", func() {
		values, errs := synthetic(-0.1, 15, 0.05, 2)
		m := series.Window{}.Apply(values, errs)

		res, err := Decay(m, DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		curve := res.Curve(m.Lags)
		for i := range curve {
			Expect(math.Abs(curve[i]-m.Values[i])).To(BeNumerically("<=", 2*m.Errors[i]))
		}
	})

	It("fits a normalized window", func() {
		values, errs := synthetic(-0.3, 30, 0.01, 3)
		for i := range values {
			values[i] *= 0.4
			errs[i] *= 0.4
		}
		m := series.Window{From: 5, To: 25, Normalize: true}.Apply(values, errs)

		res, err := Decay(m, DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Rate).To(BeNumerically("~", -0.3, 0.02))
	})

	It("gives a log-space line through the origin", func() {
		res := Result{Rate: -0.5}
		Expect(res.Line([]float64{0, 2})).To(Equal([]float64{0, -1}))
	})

	It("uses absolute sigma when asked", func() {
		values, errs := synthetic(-0.2, 10, 0.02, 4)
		m := series.Window{}.Apply(values, errs)

		opts := DefaultOptions()
		opts.AbsoluteSigma = true
		res, err := Decay(m, opts)
		Expect(err).NotTo(HaveOccurred())

		information := 0.0
		for i, t := range m.Lags {
			d := t * math.Exp(res.Rate*t) / m.Errors[i]
			information += d * d
		}
		Expect(res.Variance).To(BeNumerically("~", 1/information, 1e-12))
	})

	It("honours an explicit starting rate", func() {
		values, errs := synthetic(-0.05, 12, 0.01, 5)
		m := series.Window{}.Apply(values, errs)

		opts := DefaultOptions()
		opts.InitialRate = -1
		res, err := Decay(m, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Rate).To(BeNumerically("~", -0.05, 0.005))
	})

	It("labels the legend with the rate", func() {
		Expect(Result{Rate: -0.125, StdErr: 0.001}.Label()).To(Equal("E = -0.1250 ± 0.0010"))
	})

	Context("with unusable rows", func() {
		It("rejects an all-invalid row", func() {
			m := series.Window{}.Apply([]float64{0, -1, 0}, []float64{0.1, 0.1, 0.1})
			_, err := Decay(m, DefaultOptions())
			Expect(err).To(MatchError(ErrNoValidPoints))
		})

		It("rejects an empty row", func() {
			_, err := Decay(series.Masked{}, DefaultOptions())
			Expect(err).To(MatchError(ErrNoValidPoints))
		})

		It("rejects a single point", func() {
			m := series.Window{}.Apply([]float64{1, 0}, []float64{0.1, 0.1})
			_, err := Decay(m, DefaultOptions())
			Expect(err).To(MatchError(ErrTooFewPoints))
		})

		It("rejects zero error bars", func() {
			m := series.Masked{
				Index:  []int{0, 1},
				Lags:   []float64{0, 1},
				Values: []float64{1, 0.5},
				Errors: []float64{0.1, 0},
				Log:    []float64{0, math.Log(0.5)},
				LogErr: []float64{math.Log(1.1), 0},
			}
			_, err := Decay(m, DefaultOptions())
			Expect(err).To(MatchError(ErrDegenerateSigma))
		})

		It("rejects points that all sit at lag zero", func() {
			m := series.Masked{
				Index:  []int{0, 0},
				Lags:   []float64{0, 0},
				Values: []float64{1, 1},
				Errors: []float64{0.1, 0.1},
				Log:    []float64{0, 0},
				LogErr: []float64{math.Log(1.1), math.Log(1.1)},
			}
			_, err := Decay(m, DefaultOptions())
			Expect(err).To(MatchError(ErrUnconstrained))
		})
	})
})

var _ = Describe("Rows", func() {
	It("skips failing rows and fits the rest", func() {
		good, goodErr := synthetic(-0.2, 10, 0.02, 6)
		rows := []series.Masked{
			series.Window{}.Apply(good, goodErr),
			series.Window{}.Apply([]float64{0, 0, 0}, []float64{1, 1, 1}),
			series.Window{}.Apply(good, goodErr),
		}

		out := Rows(rows, DefaultOptions())
		Expect(out).To(HaveLen(3))
		Expect(out[0].OK()).To(BeTrue())
		Expect(out[1].Err).To(MatchError(ErrNoValidPoints))
		Expect(out[1].Row).To(Equal(1))
		Expect(out[2].OK()).To(BeTrue())
		Expect(out[2].Result.Rate).To(BeNumerically("~", out[0].Result.Rate, 1e-12))
	})

	It("fits the same points that are plotted", func() {
		values := []float64{1, 0.8, -0.1, 0.5, 0, 0.3}
		errs := []float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05}
		m := series.Window{}.Apply(values, errs)

		out := Rows([]series.Masked{m}, DefaultOptions())
		Expect(out[0].Masked.Index).To(Equal(m.Index))
		Expect(out[0].Result.Points).To(Equal(len(m.Index)))
	})
})
