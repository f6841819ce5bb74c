// Package viz renders run results in the terminal.
//
//   - [EnergyChart] and [CorrelatorChart]: asciigraph line charts
//   - [FitTable]: styled table of per-row fit results
//   - [Model]: Bubble Tea pager over a set of pages
//
// # Key Bindings
//
//	←/h, →/l  previous/next page
//	t         cycle color themes
//	q         quit
package viz
