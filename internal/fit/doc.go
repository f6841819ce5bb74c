// Package fit estimates exponential decay rates of correlation functions.
//
// The model is C(t) = exp(E t) with a single rate parameter E, fitted by
// weighted non-linear least squares (Levenberg-Marquardt) with the error
// bars as sigma. The input is a [series.Masked] row, so the fitted points are
// exactly the points that are plotted.
//
// Rows that cannot be fitted return one of the package errors rather than
// aborting a multi-row run; see [Rows].
package fit
