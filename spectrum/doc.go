// Package spectrum holds the post-unfolding analysis of one-dimensional
// energy spectra: integrals with propagated errors, mean energy, counting
// uncertainties, per-event and per-width normalization, safe bin-by-bin
// ratios, and a warping distance between spectrum shapes.
//
// Every function takes *histogram.H1 inputs read-only and returns fresh
// histograms. Bin ranges are 1-based and inclusive (see BinRange).
package spectrum
