// Package analysis provides statistics for Monte Carlo energy trajectories.
//
//   - [Autocorrelation]: normalized autocorrelation function via FFT
//   - [IntegratedTime]: integrated autocorrelation time with automatic windowing
//   - [Thermalization]: sweep after which cold and hot starts agree
//   - [Summarize]: mean and error of a trajectory after burn-in
//
// # Burn-in
//
// The hot and cold trajectories approach the same equilibrium from opposite
// sides, so the point where they meet is a natural burn-in:
//
//	from := analysis.Thermalization(cold, hot, 0.05)
//	if from >= 0 {
//	    s := analysis.Summarize(hot, from)
//	}
package analysis
