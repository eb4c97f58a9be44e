// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Matrix-vector kernels used by forward folding (A·x) and back-projection (Aᵀ·y).
//   - Scalar scaling of a whole matrix.
//
// Determinism & Performance:
//   - Fixed i→j traversal; Dense fast-paths operate on the flat buffer.
//   - Fallback paths use the Matrix interface (At) and wrap errors with the op tag.

package matrix

import "fmt"

// Operation name constants for unified error wrapping.
const (
	opMatVec  = "MatVec"
	opMatTVec = "MatTVec"
	opScale   = "Scale"
)

// zeroSum is the accumulator seed for dot-products.
const zeroSum = 0.0

// matrixErrorf wraps err with an operation tag: "<tag>: <err>".
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m·x.
// Implementation:
//   - Stage 1: Validate m (non-nil) and len(x) == Cols().
//   - Stage 2: row-wise dot-products; Dense fast-path skips zero x(j).
//
// Returns:
//   - []float64 of length Rows().
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "MatVec").
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	// Fast-path: *Dense allows flat, row-major dot-products.
	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc, xv float64
		for i = 0; i < d.r; i++ {
			acc = zeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				xv = x[j]
				if xv != 0 { // skip zero multiplications
					acc += d.data[base+j] * xv
				}
			}
			y[i] = acc
		}

		return y, nil
	}

	// Fallback: interface-based dot-products via At.
	var mv float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			mv, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// MatTVec computes z = mᵀ·y without materializing the transpose.
// Implementation:
//   - Stage 1: Validate m (non-nil) and len(y) == Rows().
//   - Stage 2: accumulate z(j) += m(i,j)·y(i) in i→j order; zero y(i) rows are skipped.
//
// Returns:
//   - []float64 of length Cols().
//
// Complexity:
//   - Time O(r*c), Space O(c).
func MatTVec(m Matrix, y []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	if err := ValidateVecLen(y, m.Rows()); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	z := make([]float64, cols)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var yv float64
		for i = 0; i < d.r; i++ {
			yv = y[i]
			if yv == 0 {
				continue
			}
			base = i * d.c
			for j = 0; j < d.c; j++ {
				z[j] += d.data[base+j] * yv
			}
		}

		return z, nil
	}

	var mv float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			mv, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatTVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			z[j] += mv * y[i]
		}
	}

	return z, nil
}

// Scale returns a new *Dense equal to alpha·m.
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for k := range out.data {
		out.data[k] *= alpha
	}

	return out, nil
}

// toDense returns an independent *Dense copy of m (fast path for *Dense).
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.cloneDense(), nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}
