// Package response builds detector response matrices.
//
// A response matrix is a histogram.H2 whose X axis is the measured energy
// and whose Y axis is the true (generated) energy; R(i,j) counts the
// simulated events of true bin j measured in bin i. Build fills it from
// event samples, NormalizeColumns turns counts into P(measured | true).
//
// The package also owns the resolution-driven variable binning: the first
// bin is 11 units wide and every following bin grows as A·E^power·E, with
// per-channel (A, power) constants held in an immutable ResolutionTable.
package response
