// SPDX-License-Identifier: MIT

package unfold

import (
	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
)

// Refold forward-folds a true-axis spectrum through the absolute response:
// g'(i) = Σ_j max(R(i,j)/gen, 0)·f(j), skipping f(j) ≤ 0. The result lives on
// the response X axis. Inputs are not modified.
//
// Errors:
//   - ErrInvalidInput joined with ErrNilInput, ErrAxisMismatch (f must have
//     NY bins) or ErrBadParameter (gen ≤ 0).
func Refold(unfolded *histogram.H1, resp *histogram.H2, gen float64) (*histogram.H1, error) {
	if err := checkRefold("Refold", unfolded, resp); err != nil {
		return nil, err
	}
	if !(gen > 0) {
		return nil, invalidf("Refold", ErrBadParameter, "genPerTrueBin must be > 0, got %g", gen)
	}
	scaled, err := matrix.Scale(resp.Matrix(), 1/gen)
	if err != nil {
		return nil, err
	}
	A, err := matrix.ClipMin(scaled, 0)
	if err != nil {
		return nil, err
	}

	return refoldThrough(A, unfolded, resp.XAxis())
}

// RefoldNormalized folds through the column-normalized response (negative
// entries clipped first, zero columns contribute nothing). This is the
// prediction Bayes compares against.
func RefoldNormalized(unfolded *histogram.H1, resp *histogram.H2) (*histogram.H1, error) {
	if err := checkRefold("RefoldNormalized", unfolded, resp); err != nil {
		return nil, err
	}
	clipped, err := matrix.ClipMin(resp.Matrix(), 0)
	if err != nil {
		return nil, err
	}
	Rn, _, err := matrix.NormalizeColumns(clipped)
	if err != nil {
		return nil, err
	}

	return refoldThrough(Rn, unfolded, resp.XAxis())
}

func checkRefold(tag Method, unfolded *histogram.H1, resp *histogram.H2) error {
	if unfolded == nil || resp == nil {
		return invalidf(tag, ErrNilInput, "unfolded and response are required")
	}
	if unfolded.NBins() != resp.NY() {
		return invalidf(tag, ErrAxisMismatch, "unfolded has %d bins, response Y has %d", unfolded.NBins(), resp.NY())
	}

	return nil
}

func refoldThrough(A matrix.Matrix, unfolded *histogram.H1, xAxis histogram.Axis) (*histogram.H1, error) {
	f := unfolded.Contents()
	clipNegative(f)
	g, err := matrix.Fold(A, f)
	if err != nil {
		return nil, err
	}

	return histogramOn(xAxis, g)
}
