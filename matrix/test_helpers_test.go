package matrix_test

import (
	"testing"

	"github.com/katalvlaran/specunfold/matrix"
	"github.com/stretchr/testify/require"
)

// MustDense builds a *Dense from rows or fails the test.
func MustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}
