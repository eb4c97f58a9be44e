package histogram_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewAxisValidation rejects short, unsorted and non-finite edge lists.
func TestNewAxisValidation(t *testing.T) {
	_, err := histogram.NewAxis([]float64{1})
	require.ErrorIs(t, err, histogram.ErrInvalidAxis)

	_, err = histogram.NewAxis([]float64{0, 1, 1})
	require.ErrorIs(t, err, histogram.ErrInvalidAxis)

	_, err = histogram.NewAxis([]float64{0, math.NaN()})
	require.ErrorIs(t, err, histogram.ErrInvalidAxis)

	_, err = histogram.NewUniformAxis(0, 0, 1)
	require.ErrorIs(t, err, histogram.ErrInvalidAxis)

	_, err = histogram.NewUniformAxis(3, 1, 1)
	require.ErrorIs(t, err, histogram.ErrInvalidAxis)
}

// TestAxisGeometry checks edges, centers and widths on a variable axis.
func TestAxisGeometry(t *testing.T) {
	a, err := histogram.NewAxis([]float64{0, 1, 3, 7})
	require.NoError(t, err)

	assert.Equal(t, 3, a.NBins())
	assert.Equal(t, 0.0, a.Min())
	assert.Equal(t, 7.0, a.Max())
	assert.Equal(t, 2.0, a.Center(2))
	assert.Equal(t, 4.0, a.Width(3))
	assert.Equal(t, 3.0, a.LowEdge(3))
	assert.Equal(t, 7.0, a.UpEdge(3))
	assert.True(t, math.IsNaN(a.Center(0)))
	assert.True(t, math.IsNaN(a.Width(4)))
}

// TestFindBin covers interior points, exact edges and both flows.
func TestFindBin(t *testing.T) {
	a, err := histogram.NewAxis([]float64{0, 1, 3, 7})
	require.NoError(t, err)

	cases := []struct {
		x    float64
		want int
	}{
		{-0.1, 0},
		{0, 1},
		{0.5, 1},
		{1, 2},
		{2.99, 2},
		{3, 3},
		{6.999, 3},
		{7, 4},
		{100, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, a.FindBin(c.x), "x=%g", c.x)
	}
	assert.Equal(t, -1, a.FindBin(math.NaN()))
}

// TestUniformAxisEdges checks the last edge is exact and edges are copies.
func TestUniformAxisEdges(t *testing.T) {
	a, err := histogram.NewUniformAxis(3, 0, 0.3)
	require.NoError(t, err)
	e := a.Edges()
	assert.Equal(t, 0.3, e[3])
	e[0] = 42
	assert.Equal(t, 0.0, a.Min())
}

// TestCenters checks the cutoff and the "all centers" mode.
func TestCenters(t *testing.T) {
	a, err := histogram.NewUniformAxis(4, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, a.Centers(-1))
	assert.Equal(t, []float64{0.5, 1.5}, a.Centers(2.5))
}
