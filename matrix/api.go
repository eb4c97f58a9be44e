// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Thin entry points named after what the solvers do with them.
//   - Each facade delegates to the canonical kernel.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.
//   - Validation is performed in the kernels; facades only compose or forward.

package matrix

// ---------- Constructors & Utilities ----------

// NewDiagonal returns the square matrix with d on its diagonal.
func NewDiagonal(d []float64) (*Dense, error) {
	D, err := NewDense(len(d), len(d))
	if err != nil {
		return nil, err
	}
	if err = ValidateFinite(d); err != nil {
		return nil, err
	}
	for i, v := range d {
		D.data[i*len(d)+i] = v
	}

	return D, nil
}

// ---------- Vector kernels ----------

// Fold is the forward-folding facade: y = A·x.
func Fold(A Matrix, x []float64) ([]float64, error) { return MatVec(A, x) }

// BackProject is the transpose facade: z = Aᵀ·y.
func BackProject(A Matrix, y []float64) ([]float64, error) { return MatTVec(A, y) }
