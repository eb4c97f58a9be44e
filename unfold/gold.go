// SPDX-License-Identifier: MIT

package unfold

import (
	"errors"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
)

// Gold runs the multiplicative Gold iteration on the absolute response.
//
// MAIN DESCRIPTION:
//   - A(i,j) = max(R(i,j)/gen, 0) (not column-normalized), eff = column sums.
//   - u⁰ is the matching prior scaled to Σm. A mismatched prior falls back to
//     the back-projection Σ_i A(i,j)·m(i)/eff(j); a prior without positive
//     content falls back to flat Σm/NY. Without a prior the back-projection
//     is used.
//   - Iteration: f = A·u; ratio(i) = m(i)/f(i), or 1 where f(i) ≤ 0;
//     u(j) ← u(j)·[Σ_i A(i,j)·ratio(i)]/eff(j), 0 where eff(j) ≤ 0; clip at
//     0 when EnforcePositivity.
//   - Trace and stop rule are the same as Bayes.
//
// Errors:
//   - ErrInvalidInput joined with ErrNilInput, ErrAxisMismatch or
//     ErrBadParameter.
//
// Complexity:
//   - Time O(MaxIter·NX·NY), Space O(NX·NY).
func Gold(measured *histogram.H1, resp *histogram.H2, opts GoldOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p, err := prepare(MethodGold, measured, resp)
	if err != nil {
		return nil, err
	}
	A, eff, err := p.absolute(opts.GenPerTrueBin)
	if err != nil {
		return nil, err
	}
	g, sumG := p.clippedMeasured()
	res := &Result{Method: MethodGold, Efficiency: eff}

	u, perr := priorStart(opts.Prior, p.yAxis, sumG)
	switch {
	case perr != nil && errors.Is(perr, ErrPriorEmpty):
		res.PriorRejected = perr
		u = flat(p.ny, sumG)
	case perr != nil:
		res.PriorRejected = perr
	case u != nil:
		res.PriorUsed = true
	}
	if u == nil {
		bp, err := matrix.BackProject(A, g)
		if err != nil {
			return nil, err
		}
		u = divideByEfficiency(bp, eff)
	}
	if opts.EnforcePositivity {
		clipNegative(u)
	}

	ratio := make([]float64, p.nx)
	var pred []float64
	for k := 0; k < opts.MaxIter; k++ {
		fold, err := matrix.Fold(A, u)
		if err != nil {
			return nil, err
		}
		for i := range ratio {
			ratio[i] = 1
			if fold[i] > 0 {
				ratio[i] = g[i] / fold[i]
			}
		}
		corr, err := matrix.BackProject(A, ratio)
		if err != nil {
			return nil, err
		}
		corr = divideByEfficiency(corr, eff)
		for j := range u {
			u[j] *= corr[j]
		}
		if opts.EnforcePositivity {
			clipNegative(u)
		}

		if pred, err = matrix.Fold(A, u); err != nil {
			return nil, err
		}
		res.Trace = append(res.Trace, poissonChi2(k+1, g, pred))
		res.Iterations = k + 1
		if converged(res.Trace, opts.Tolerance) {
			res.Converged = true
			break
		}
	}

	if res.Unfolded, err = p.trueHistogram(u); err != nil {
		return nil, err
	}
	if res.Refolded, err = p.measuredHistogram(pred); err != nil {
		return nil, err
	}

	return res, nil
}

// divideByEfficiency returns v(j)/eff(j), with 0 where eff(j) ≤ 0. v is
// overwritten and returned.
func divideByEfficiency(v, eff []float64) []float64 {
	for j := range v {
		if eff[j] > 0 {
			v[j] /= eff[j]
		} else {
			v[j] = 0
		}
	}

	return v
}
