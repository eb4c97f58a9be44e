package unfold_test

import (
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
	"github.com/stretchr/testify/require"
)

// mustResponse builds a response on unit-width axes, rows[i][j] = R(i+1, j+1).
func mustResponse(t testing.TB, rows [][]float64) *histogram.H2 {
	t.Helper()
	x, err := histogram.NewUniformAxis(len(rows), 0, float64(len(rows)))
	require.NoError(t, err)
	y, err := histogram.NewUniformAxis(len(rows[0]), 0, float64(len(rows[0])))
	require.NoError(t, err)
	h, err := histogram.NewH2(x, y)
	require.NoError(t, err)
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)
	require.NoError(t, h.SetMatrix(m))

	return h
}

// mustSpectrum builds an H1 on the given axis with the given contents.
func mustSpectrum(t testing.TB, a histogram.Axis, v []float64) *histogram.H1 {
	t.Helper()
	h, err := histogram.NewH1(a)
	require.NoError(t, err)
	require.NoError(t, h.SetContents(v))

	return h
}

// diagonal returns an n×n response with gen on the diagonal.
func diagonal(n int, gen float64) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = gen
	}

	return rows
}

// smeared is a 4×3 response with migration to neighbouring bins.
var smeared = [][]float64{
	{5, 1, 0},
	{2, 6, 1},
	{0, 2, 7},
	{1, 0, 2},
}

var smearedMeasured = []float64{10, 20, 15, 4}
