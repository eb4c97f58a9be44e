// SPDX-License-Identifier: MIT

package unfold

import (
	"fmt"

	"github.com/katalvlaran/specunfold/histogram"
	"gonum.org/v1/gonum/floats"
)

// priorStart turns a prior into a starting vector on the true axis whose sum
// is target. Negative prior content is clipped to 0 first.
//
// Returns (nil, nil) when no prior was supplied. A prior that does not match
// trueAxis (see histogram.MatchEdges) yields an error wrapping
// ErrPriorMismatch; one with no positive content, or a non-positive target,
// yields ErrPriorEmpty. Either way the caller falls back to its default.
func priorStart(spec PriorSpec, trueAxis histogram.Axis, target float64) ([]float64, error) {
	if spec.Histogram == nil {
		return nil, nil
	}
	if err := histogram.MatchEdges(trueAxis, spec.Histogram.Axis(), histogram.EdgeTolerance, spec.Cutoff); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPriorMismatch, err)
	}
	f := spec.Histogram.Contents()
	clipNegative(f)
	sum := floats.Sum(f)
	if !(sum > 0) || !(target > 0) {
		return nil, fmt.Errorf("%w: prior sum %g, target %g", ErrPriorEmpty, sum, target)
	}
	floats.Scale(target/sum, f)

	return f, nil
}

// flat returns n copies of total/n.
func flat(n int, total float64) []float64 {
	f := make([]float64, n)
	if n > 0 {
		floats.AddConst(total/float64(n), f)
	}

	return f
}
