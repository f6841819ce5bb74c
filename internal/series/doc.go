// Package series derives the plotted and fitted quantities from raw
// correlation data.
//
// A correlation [Bundle] holds one complex row per correlator with a parallel
// row of error magnitudes. A row is reduced to real numbers with a
// [Component], then a [Window] truncates, optionally normalizes, and moves it
// to log space:
//
//	log C[t]              the plotted value
//	log((C[t]+err)/C[t])  the log-space error bar
//
// Lags where either quantity is not finite are dropped. The resulting
// [Masked] series is shared by the renderer and the fitter, so both see the
// same set of lags.
package series
