// SPDX-License-Identifier: MIT

package histogram

import (
	"fmt"
	"math"
)

const (
	// SameBinningTolerance is the relative edge tolerance used by SameBinning.
	SameBinningTolerance = 1e-9

	// EdgeTolerance is the absolute edge tolerance used when a histogram
	// (e.g. a prior) must sit on another histogram's binning.
	EdgeTolerance = 1e-6
)

// SameBinning reports whether a and b have the same bin count and every
// edge agrees within tol·max(1, |ea|, |eb|).
func SameBinning(a, b Axis, tol float64) bool {
	if a.NBins() != b.NBins() || !a.Valid() {
		return false
	}
	for k := range a.edges {
		ea, eb := a.edges[k], b.edges[k]
		scale := math.Max(1, math.Max(math.Abs(ea), math.Abs(eb)))
		if math.Abs(ea-eb) > tol*scale {
			return false
		}
	}

	return true
}

// MatchEdges checks that cand sits exactly on ref's binning: same bin
// count and |ref[k]-cand[k]| <= tol for every edge. When cutoff > 0 only
// edges with ref[k] <= cutoff are compared; the bin count must still agree.
// No rebinning is ever attempted.
//
// Errors: ErrBinningMismatch with the first offending edge.
func MatchEdges(ref, cand Axis, tol, cutoff float64) error {
	if ref.NBins() != cand.NBins() {
		return fmt.Errorf("%w: %d bins, want %d", ErrBinningMismatch, cand.NBins(), ref.NBins())
	}
	for k, re := range ref.edges {
		if cutoff > 0 && re > cutoff {
			break // edges are increasing; nothing above the cutoff is compared
		}
		if d := math.Abs(re - cand.edges[k]); d > tol {
			return fmt.Errorf("%w: edge[%d] = %g, want %g (|Δ| = %g > %g)", ErrBinningMismatch, k, cand.edges[k], re, d, tol)
		}
	}

	return nil
}

// Project re-bins src onto target by filling, for every regular src bin
// with content c > 0, the target bin holding the src bin center. Centers
// outside [target.Min, target.Max) are skipped. Errors add in quadrature.
// src is not modified.
//
// Errors: ErrNilHistogram, ErrInvalidAxis.
func Project(src *H1, target Axis) (*H1, error) {
	if src == nil {
		return nil, ErrNilHistogram
	}
	out, err := NewH1(target)
	if err != nil {
		return nil, err
	}
	lo, hi := target.Min(), target.Max()
	for i := 1; i <= src.NBins(); i++ {
		c := src.content[i]
		if c <= 0 {
			continue
		}
		x := src.axis.Center(i)
		if x < lo || x >= hi {
			continue
		}
		j := target.FindBin(x)
		out.content[j] += c
		out.errs[j] = math.Hypot(out.errs[j], src.errs[i])
	}

	return out, nil
}

// Slice extracts the regular bins lying entirely inside [lo, hi] (edges
// compared with EdgeTolerance) into a new histogram on those edges.
// Contents and errors are copied; flows of the result are zero.
//
// Errors: ErrNilHistogram, ErrEmptyRange.
func Slice(h *H1, lo, hi float64) (*H1, error) {
	if h == nil {
		return nil, ErrNilHistogram
	}
	first, last := 0, -1
	for i := 1; i <= h.NBins(); i++ {
		if h.axis.LowEdge(i) >= lo-EdgeTolerance && h.axis.UpEdge(i) <= hi+EdgeTolerance {
			if first == 0 {
				first = i
			}
			last = i
		}
	}
	if first == 0 {
		return nil, fmt.Errorf("%w: [%g, %g] on %s", ErrEmptyRange, lo, hi, h.axis)
	}
	out, err := NewH1FromEdges(h.axis.edges[first-1 : last+1])
	if err != nil {
		return nil, err
	}
	copy(out.content[1:], h.content[first:last+1])
	copy(out.errs[1:], h.errs[first:last+1])

	return out, nil
}
