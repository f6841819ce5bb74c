package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// windowFactor is c in the self-consistent window W >= c*tau.
const windowFactor = 6

// Autocorrelation returns rho(t) = C(t)/C(0) for t in [0, len(x)). The series
// is zero-padded to twice its length so the transform is not circular. A
// constant series has rho(0) = 1 and zero elsewhere.
func Autocorrelation(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	mean := stat.Mean(x, nil)
	padded := make([]float64, 2*n)
	for i, v := range x {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		a := cmplx.Abs(c)
		spectrum[i] = complex(a*a, 0)
	}
	acf := fft.IFFT(spectrum)

	rho := make([]float64, n)
	c0 := real(acf[0])
	if c0 <= 1e-12*float64(n) {
		rho[0] = 1
		return rho
	}
	for t := range rho {
		rho[t] = real(acf[t]) / c0
	}
	return rho
}

// PowerSpectrum returns |X(k)| of the fluctuations about the mean for the
// non-negative frequencies.
func PowerSpectrum(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x))
	copy(d, x)
	floats.AddConst(-stat.Mean(x, nil), d)

	spectrum := fft.FFTReal(d)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// IntegratedTime returns tau = 1/2 + sum_{t=1}^{W} rho(t) together with the
// window W, the smallest lag with W >= 6 tau. When no such window exists the
// whole series is used.
func IntegratedTime(x []float64) (tau float64, window int) {
	rho := Autocorrelation(x)
	if len(rho) < 2 {
		return 0.5, 0
	}

	tau = 0.5
	for w := 1; w < len(rho); w++ {
		tau += rho[w]
		if float64(w) >= windowFactor*tau {
			return tau, w
		}
	}
	return tau, len(rho) - 1
}

// Thermalization returns the first index from which |cold-hot| <= tol holds
// for the rest of the common length, or -1 if the trajectories never settle.
func Thermalization(cold, hot []float64, tol float64) int {
	n := min(len(cold), len(hot))
	if n == 0 {
		return -1
	}
	diff := make([]float64, n)
	floats.SubTo(diff, cold[:n], hot[:n])

	from := -1
	for i := n - 1; i >= 0; i-- {
		if math.Abs(diff[i]) > tol || math.IsNaN(diff[i]) {
			break
		}
		from = i
	}
	return from
}
