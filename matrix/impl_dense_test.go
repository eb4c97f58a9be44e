// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // attempt to create with zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, 0)                       // attempt to create with zero columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestRowsCols verifies that Rows() and Cols() return correct dimension values.
func TestRowsCols(t *testing.T) {
	m, err := matrix.NewDense(3, 4) // create a Dense matrix of size 3x4
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)                          // negative row index
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange

	_, err = m.At(0, 2) // column index out of range
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23) // row index out of range
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.AddAt(0, -1, 4.56) // negative column index
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetGet validates Set() followed by At() and AddAt accumulation.
func TestSetGet(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 7.89))
	require.NoError(t, m.AddAt(1, 2, 0.11))

	val, err := m.At(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, val, 1e-12)
}

// TestNaNPolicy checks the finite-only guard.
func TestNaNPolicy(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestNewDenseFromShape checks buffer-length and ragged-row validation.
func TestNewDenseFromShape(t *testing.T) {
	_, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestCloneIndependence ensures Clone and RawRowMajor return independent storage.
func TestCloneIndependence(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2}, {3, 4}})

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 99))
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v)

	raw := m.RawRowMajor()
	raw[3] = -1
	v, _ = m.At(1, 1)
	assert.Equal(t, 4.0, v)
	assert.Equal(t, []float64{1, 2, 3, 4}, m.RawRowMajor())
}

// TestAddAtOverflow checks that an accumulation overflowing to Inf is
// rejected and leaves the cell unchanged.
func TestAddAtOverflow(t *testing.T) {
	m := MustDense(t, [][]float64{{math.MaxFloat64}})

	require.ErrorIs(t, m.AddAt(0, 0, math.MaxFloat64), matrix.ErrNaNInf)
	v, _ := m.At(0, 0)
	assert.Equal(t, math.MaxFloat64, v)

	require.NoError(t, m.AddAt(0, 0, -1))
	require.ErrorIs(t, m.AddAt(1, 0, 1), matrix.ErrOutOfRange)
}
