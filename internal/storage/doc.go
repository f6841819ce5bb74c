// Package storage reads and writes the numeric arrays of a run and keeps a
// record of every producing command.
//
// Arrays use the NumPy .npy format. A correlator bundle is either an .npz
// archive or a single stacked .npy array:
//
//	bundle.npz   correlations (rows, lags) real or complex, errors (rows, lags)
//	bundle.npz   real, imag (rows, lags), errors (rows, lags)
//	bundle.npy   (2, rows, lags): [0] values, [1] errors
//
// A 1-D array in place of (rows, lags) is a single row. Any integer, float or
// complex dtype is accepted and widened to float64 or complex128. SaveBundle
// picks the layout from the file extension. Run records live in
// runs/<command>_<unix>.json under the base directory.
package storage
