// SPDX-License-Identifier: MIT

package unfold

import "math"

// exactFit is the chi2/point at or below which a prediction is a perfect fit.
const exactFit = 1e-24

// poissonChi2 compares meas with pred using variance max(m(i), 1), over the
// bins where either side is positive.
func poissonChi2(iter int, meas, pred []float64) TracePoint {
	pt := TracePoint{Iteration: iter}
	for i, m := range meas {
		d := pred[i]
		if m <= 0 && d <= 0 {
			continue
		}
		r := m - d
		pt.Chi2 += r * r / math.Max(m, 1)
		pt.Points++
	}
	if pt.Points > 0 {
		pt.Chi2PerPoint = pt.Chi2 / float64(pt.Points)
	}

	return pt
}

// weightedChi2 uses the measured error² as variance where it is positive and
// falls back to max(m(i), 1). Every bin counts.
func weightedChi2(iter int, meas, errs, pred []float64) TracePoint {
	pt := TracePoint{Iteration: iter}
	for i, m := range meas {
		v := errs[i] * errs[i]
		if v <= 0 {
			v = math.Max(m, 1)
		}
		r := m - pred[i]
		pt.Chi2 += r * r / v
		pt.Points++
	}
	if pt.Points > 0 {
		pt.Chi2PerPoint = pt.Chi2 / float64(pt.Points)
	}

	return pt
}

// symmetricChange returns |cur−prev| / ((cur+prev)/2), with 0 when both are 0.
func symmetricChange(prev, cur float64) float64 {
	avg := 0.5 * (cur + prev)
	if avg == 0 {
		return 0
	}

	return math.Abs(cur-prev) / avg
}

// relativeChange returns |cur−prev| / prev, with 0 when both are 0 and +Inf
// when only prev is.
func relativeChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}

		return math.Inf(1)
	}

	return math.Abs(cur-prev) / prev
}

// converged applies the stop rule shared by Bayes and Gold: an exact fit
// stops at once, otherwise the symmetric relative change of chi2/point
// against the previous iteration must fall below tol.
func converged(t Trace, tol float64) bool {
	n := len(t)
	if n == 0 {
		return false
	}
	cur := t[n-1]
	if cur.Chi2PerPoint <= exactFit {
		return true
	}
	if n < 2 {
		return false
	}

	return symmetricChange(t[n-2].Chi2PerPoint, cur.Chi2PerPoint) < tol
}
