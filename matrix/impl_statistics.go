// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column/row reductions and the column-wise transforms used by response
//     matrices: column normalization by signed sum, lower clipping,
//     operator 1-norm.
//
// Exposed API:
//   - ColSums(X), RowSums(X), ColAbsSums(X), Norm1(X), Sum(X)
//   - NormalizeColumns(X) -> (Y, sums)   // degenerate columns unchanged
//   - ClipMin(X, lo)                        // elementwise max(x, lo)
//   - AllClose(a, b, rtol, atol)
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

import "math"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opColSums          = "ColSums"
	opRowSums          = "RowSums"
	opColAbsSums       = "ColAbsSums"
	opNormalizeColumns = "NormalizeColumns"
	opClipMin          = "ClipMin"
	opAllClose         = "AllClose"
)

// ColSums returns s(j) = Σ_i X(i,j).
// Complexity: O(r*c) time, O(c) space.
func ColSums(X Matrix) ([]float64, error) {
	return colReduce(X, opColSums, func(v float64) float64 { return v })
}

// ColAbsSums returns s(j) = Σ_i |X(i,j)|.
// Complexity: O(r*c) time, O(c) space.
func ColAbsSums(X Matrix) ([]float64, error) {
	return colReduce(X, opColAbsSums, math.Abs)
}

// Norm1 returns the operator 1-norm max_j Σ_i |X(i,j)|.
// Complexity: O(r*c).
func Norm1(X Matrix) (float64, error) {
	sums, err := ColAbsSums(X)
	if err != nil {
		return 0, err
	}
	best := 0.0
	for _, s := range sums {
		if s > best {
			best = s
		}
	}

	return best, nil
}

// colReduce folds f(X(i,j)) over rows for every column.
// Implementation:
//   - Stage 1 (Validate): X non-nil.
//   - Stage 2 (Execute): Dense fast-path on the flat buffer; At fallback.
func colReduce(X Matrix, tag string, f func(float64) float64) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	r, c := X.Rows(), X.Cols()
	out := make([]float64, c)

	if d, ok := X.(*Dense); ok {
		var i, j, base int
		for i = 0; i < r; i++ {
			base = i * c
			for j = 0; j < c; j++ {
				out[j] += f(d.data[base+j])
			}
		}

		return out, nil
	}

	var v float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(tag, err)
			}
			out[j] += f(v)
		}
	}

	return out, nil
}

// RowSums returns s(i) = Σ_j X(i,j).
// Complexity: O(r*c) time, O(r) space.
func RowSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	r, c := X.Rows(), X.Cols()
	out := make([]float64, r)

	if d, ok := X.(*Dense); ok {
		for i := 0; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				out[i] += d.data[base+j]
			}
		}

		return out, nil
	}

	var v float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(opRowSums, err)
			}
			out[i] += v
		}
	}

	return out, nil
}

// Sum returns Σ_ij X(i,j).
func Sum(X Matrix) (float64, error) {
	rs, err := RowSums(X)
	if err != nil {
		return 0, err
	}
	s := zeroSum
	for _, v := range rs {
		s += v
	}

	return s, nil
}

// NormalizeColumns divides each column by its signed sum Σ_i X(i,j), so
// that Σ_i Y(i,j) = 1. This is not an L1 normalization: negative entries
// reduce the divisor. Use ColAbsSums for absolute column norms.
// Implementation:
//   - Stage 1 (Validate): X non-nil.
//   - Stage 2 (Execute): signed column sums from ColSums.
//   - Stage 3 (Apply): divide columns with sum > 0; others are copied unchanged.
//
// Behavior highlights:
//   - Degenerate (zero or negative sum) columns are left exactly as they are;
//     callers dividing by the column sum must guard against them.
//   - X is never modified; Y is a fresh *Dense.
//
// Returns:
//   - *Dense normalized copy, []float64 original column sums.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NormalizeColumns(X Matrix) (*Dense, []float64, error) {
	// Stage 1 (Validate): ensure X is present.
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeColumns, err)
	}
	// Stage 2 (Execute): column sums.
	sums, err := ColSums(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeColumns, err)
	}
	Y, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeColumns, err)
	}

	// Stage 3 (Apply): 1/sum for normal columns; degenerate columns untouched.
	var i, j, base int
	for i = 0; i < Y.r; i++ {
		base = i * Y.c
		for j = 0; j < Y.c; j++ {
			if sums[j] > 0 {
				Y.data[base+j] /= sums[j]
			}
		}
	}

	return Y, sums, nil
}

// ClipMin returns a copy of X with every element below lo replaced by lo.
// NaN entries are preserved (comparison is false); ingest with the numeric
// policy on to exclude them.
// Complexity: O(r*c).
func ClipMin(X Matrix, lo float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opClipMin, err)
	}
	Y, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf(opClipMin, err)
	}
	for k, v := range Y.data {
		if v < lo {
			Y.data[k] = lo
		}
	}

	return Y, nil
}

// AllClose reports whether |a−b| ≤ atol + rtol·|b| elementwise.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: O(r*c).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	var av, bv float64
	var err error
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}
