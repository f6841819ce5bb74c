// Package render draws the energy, correlation and histogram charts with
// gonum/plot. The output format of [Save] follows the file extension: .pdf,
// .svg, .eps, .png, .jpg and .tif are registered.
package render
