// SPDX-License-Identifier: MIT

package unfold

import (
	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
	"gonum.org/v1/gonum/floats"
)

// Bayes runs iterative Bayesian unfolding (D'Agostini) with global intensity
// conservation at every step.
//
// MAIN DESCRIPTION:
//   - The response is clipped at 0 and column-normalized into R'. Columns
//     with a zero sum get eff(j) = 0 and their true bin stays 0 for good.
//   - f⁰ is the matching prior scaled to Σm, else flat Σm/NY.
//   - Iteration: D = R'·f; f'(j) = f(j)·Σ_i R'(i,j)·m(i)/D(i), skipping
//     measured bins with D(i) ≤ 0; clip at 0 when EnforcePositivity; rescale
//     so Σf' = Σm.
//   - The trace point of iteration k compares m with R'·f after the update.
//     The loop stops at an exact fit, when the symmetric relative change of
//     chi2/point drops below Tolerance, or at MaxIter (Converged = false).
//
// Implementation:
//   - Measured content is clipped at 0 before use; genPerTrueBin only enters
//     through validation because R' is scale-free.
//   - The renormalization is skipped when Σf' = 0 (all columns degenerate),
//     which yields an all-zero spectrum rather than an error.
//
// Errors:
//   - ErrInvalidInput joined with ErrNilInput, ErrAxisMismatch or
//     ErrBadParameter. A prior problem never fails the run.
//
// Complexity:
//   - Time O(MaxIter·NX·NY), Space O(NX·NY).
func Bayes(measured *histogram.H1, resp *histogram.H2, opts BayesOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p, err := prepare(MethodBayes, measured, resp)
	if err != nil {
		return nil, err
	}

	clipped, err := matrix.ClipMin(p.resp, 0)
	if err != nil {
		return nil, err
	}
	Rn, sums, err := matrix.NormalizeColumns(clipped)
	if err != nil {
		return nil, err
	}
	active := make([]bool, p.ny)
	eff := make([]float64, p.ny)
	for j, s := range sums {
		if s > 0 {
			active[j] = true
			eff[j] = 1
		}
	}

	g, sumG := p.clippedMeasured()
	res := &Result{Method: MethodBayes, Efficiency: eff}

	f, perr := priorStart(opts.Prior, p.yAxis, sumG)
	switch {
	case perr != nil:
		res.PriorRejected = perr
		f = flat(p.ny, sumG)
	case f != nil:
		res.PriorUsed = true
	default:
		f = flat(p.ny, sumG)
	}

	ratio := make([]float64, p.nx)
	var pred []float64
	for k := 0; k < opts.MaxIter; k++ {
		D, err := matrix.Fold(Rn, f)
		if err != nil {
			return nil, err
		}
		for i := range ratio {
			ratio[i] = 0
			if D[i] > 0 {
				ratio[i] = g[i] / D[i]
			}
		}
		bp, err := matrix.BackProject(Rn, ratio)
		if err != nil {
			return nil, err
		}
		for j := range f {
			if !active[j] {
				f[j] = 0
				continue
			}
			f[j] *= bp[j]
		}
		if opts.EnforcePositivity {
			clipNegative(f)
		}
		if s := floats.Sum(f); s > 0 && sumG > 0 {
			floats.Scale(sumG/s, f)
		}

		if pred, err = matrix.Fold(Rn, f); err != nil {
			return nil, err
		}
		res.Trace = append(res.Trace, poissonChi2(k+1, g, pred))
		res.Iterations = k + 1
		if converged(res.Trace, opts.Tolerance) {
			res.Converged = true
			break
		}
	}

	if res.Unfolded, err = p.trueHistogram(f); err != nil {
		return nil, err
	}
	if res.Refolded, err = p.measuredHistogram(pred); err != nil {
		return nil, err
	}

	return res, nil
}
