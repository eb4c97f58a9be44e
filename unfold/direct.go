// SPDX-License-Identifier: MIT

package unfold

import (
	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
)

// Direct runs single-pass top-down stripping.
//
// MAIN DESCRIPTION:
//   - A(i,j) = max(R(i,j)/gen, 0), eff(j) = Σ_i A(i,j), and the source is
//     the measured content clipped at 0.
//   - Bins i = min(NX, NY) … 1 are visited from the highest down. A bin is
//     skipped (true(i) = 0) when source(i) ≤ 0 or A(i,i) ≤ 0. Otherwise
//     norm = source(i)/A(i,i), then norm /= eff(i) when eff(i) > 0 unless
//     SkipEfficiencyDivision is set. true(i) = norm and norm·A(j,i) is
//     subtracted from source(j) for every j ≤ i; with EnforcePositivity a
//     source below DirectEpsilon is clamped to 0.
//   - Residual is the final source, Refolded is A·true.
//
// Modeling assumption:
//   - This is not a matrix inversion. It is only meaningful for a causal
//     response, where a true bin deposits at or below its own measured bin.
//     Migration upwards is ignored.
//
// Errors:
//   - ErrInvalidInput joined with ErrNilInput, ErrAxisMismatch or
//     ErrBadParameter.
//
// Complexity:
//   - Time O(NX·NY), Space O(NX·NY).
func Direct(measured *histogram.H1, resp *histogram.H2, opts DirectOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p, err := prepare(MethodDirect, measured, resp)
	if err != nil {
		return nil, err
	}
	A, eff, err := p.absolute(opts.GenPerTrueBin)
	if err != nil {
		return nil, err
	}
	source, _ := p.clippedMeasured()
	trueV := make([]float64, p.ny)

	data := A.RawRowMajor()
	at := func(i, j int) float64 { return data[i*p.ny+j] }
	for i := min(p.nx, p.ny) - 1; i >= 0; i-- {
		diag := at(i, i)
		if source[i] <= 0 || diag <= 0 {
			continue
		}
		norm := source[i] / diag
		if !opts.SkipEfficiencyDivision && eff[i] > 0 {
			norm /= eff[i]
		}
		trueV[i] = norm
		for j := 0; j <= i; j++ {
			source[j] -= norm * at(j, i)
			if opts.EnforcePositivity && source[j] < DirectEpsilon {
				source[j] = 0
			}
		}
	}

	refold, err := matrix.Fold(A, trueV)
	if err != nil {
		return nil, err
	}
	res := &Result{Method: MethodDirect, Efficiency: eff, Converged: true}
	if res.Unfolded, err = p.trueHistogram(trueV); err != nil {
		return nil, err
	}
	if res.Residual, err = p.measuredHistogram(source); err != nil {
		return nil, err
	}
	if res.Refolded, err = p.measuredHistogram(refold); err != nil {
		return nil, err
	}

	return res, nil
}
