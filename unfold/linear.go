// SPDX-License-Identifier: MIT

package unfold

import (
	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear runs additive back-projection (Landweber) unfolding.
//
// MAIN DESCRIPTION:
//   - R is the response, column-normalized when NormalizeColumns is set
//     (zero-sum columns untouched). Negative entries are kept.
//   - Ncol = max_j Σ_i |R(i,j)| bounds the step; Ncol ≤ 0 is rejected.
//   - f⁰ is flat at Σm/NY over the unclipped measured content.
//   - Iteration: δ = m − R·f; f ← f + Rᵀ·δ/Ncol, clipped at 0 when
//     EnforcePositivity; the refold R·f is recomputed for the trace.
//   - Per-bin variance is error² when positive, else max(m(i), 1).
//   - Stopping is only considered from iteration MinIter on, when the
//     relative change of chi2/point against the previous iteration is
//     below Tolerance.
//
// Implementation:
//   - gonum mat vectors over views of the working matrix; R.T() avoids
//     materializing the transpose.
//
// Errors:
//   - ErrInvalidInput joined with ErrNilInput, ErrAxisMismatch,
//     ErrBadParameter or ErrDegenerateResponse.
//
// Complexity:
//   - Time O(MaxIter·NX·NY), Space O(NX·NY).
func Linear(measured *histogram.H1, resp *histogram.H2, opts LinearOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p, err := prepare(MethodLinear, measured, resp)
	if err != nil {
		return nil, err
	}

	work := p.resp
	if opts.NormalizeColumns {
		if work, _, err = matrix.NormalizeColumns(p.resp); err != nil {
			return nil, err
		}
	}
	ncol, err := matrix.Norm1(work)
	if err != nil {
		return nil, err
	}
	if !(ncol > 0) {
		return nil, invalidf(MethodLinear, ErrDegenerateResponse, "Ncol = %g", ncol)
	}
	eff, err := matrix.ColSums(work)
	if err != nil {
		return nil, err
	}

	R := mat.NewDense(p.nx, p.ny, work.RawRowMajor())
	g := mat.NewVecDense(p.nx, p.meas)
	f := mat.NewVecDense(p.ny, flat(p.ny, floats.Sum(p.meas)))
	var rf, delta, corr mat.VecDense
	rf.MulVec(R, f)

	res := &Result{Method: MethodLinear, Efficiency: eff}
	minIter := opts.minIter()
	raw := f.RawVector().Data
	for k := 0; k < opts.MaxIter; k++ {
		delta.SubVec(g, &rf)
		corr.MulVec(R.T(), &delta)
		f.AddScaledVec(f, 1/ncol, &corr)
		if opts.EnforcePositivity {
			clipNegative(raw)
		}
		rf.MulVec(R, f)

		pt := weightedChi2(k+1, p.meas, p.errs, rf.RawVector().Data)
		res.Trace = append(res.Trace, pt)
		res.Iterations = k + 1
		if k+1 >= minIter && linearStop(res.Trace, opts.Tolerance) {
			res.Converged = true
			break
		}
	}

	if res.Unfolded, err = p.trueHistogram(raw); err != nil {
		return nil, err
	}
	if res.Refolded, err = p.measuredHistogram(rf.RawVector().Data); err != nil {
		return nil, err
	}

	return res, nil
}

// linearStop reports an exact fit or a relative chi2/point change below tol
// against the previous iteration.
func linearStop(t Trace, tol float64) bool {
	n := len(t)
	cur := t[n-1].Chi2PerPoint
	if cur <= exactFit {
		return true
	}
	if n < 2 {
		return false
	}

	return relativeChange(t[n-2].Chi2PerPoint, cur) < tol
}
