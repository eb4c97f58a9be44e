package histogram_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustH1 builds an H1 on edges with the given regular-bin contents.
func mustH1(t *testing.T, edges, content []float64) *histogram.H1 {
	t.Helper()
	h, err := histogram.NewH1FromEdges(edges)
	require.NoError(t, err)
	if content != nil {
		require.NoError(t, h.SetContents(content))
	}

	return h
}

// TestH1Fill checks accumulation, error propagation and flows.
func TestH1Fill(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2}, nil)

	assert.Equal(t, 1, h.Fill(0.5, 3))
	assert.Equal(t, 1, h.Fill(0.7, 4))
	assert.Equal(t, 0, h.Fill(-5, 1))
	assert.Equal(t, 3, h.Fill(2, 2))
	assert.Equal(t, -1, h.Fill(math.NaN(), 1))
	assert.Equal(t, -1, h.Fill(0.5, math.Inf(1)))

	v, err := h.At(1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	e, err := h.Err(1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, e, 1e-12)

	assert.Equal(t, 1.0, h.Underflow())
	assert.Equal(t, 2.0, h.Overflow())
	assert.Equal(t, 7.0, h.Sum())
}

// TestH1Setters checks bounds, NaN and negative-error validation.
func TestH1Setters(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2}, nil)

	require.ErrorIs(t, h.Set(4, 1), histogram.ErrOutOfRange)
	require.ErrorIs(t, h.Set(1, math.NaN()), histogram.ErrNaN)
	require.ErrorIs(t, h.SetErr(1, -1), histogram.ErrNegativeError)
	require.ErrorIs(t, h.SetContents([]float64{1}), histogram.ErrLengthMismatch)
	require.ErrorIs(t, h.SetErrors([]float64{1, -2}), histogram.ErrNegativeError)
	_, err := h.At(-1)
	require.ErrorIs(t, err, histogram.ErrOutOfRange)

	require.NoError(t, h.Set(3, 5)) // overflow slot is addressable
	require.NoError(t, h.SetContents([]float64{1, 2}))
	require.NoError(t, h.SetErrors([]float64{0.5, 0}))
	assert.Equal(t, []float64{1, 2}, h.Contents())
	assert.Equal(t, []float64{0.5, 0}, h.Errors())
	assert.Equal(t, 5.0, h.Overflow())
}

// TestH1CloneScaleReset checks independence of clones and scaling of errors.
func TestH1CloneScaleReset(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2}, []float64{2, 4})
	require.NoError(t, h.SetErrors([]float64{1, 2}))

	c := h.Clone()
	c.Scale(-0.5)
	assert.Equal(t, []float64{-1, -2}, c.Contents())
	assert.Equal(t, []float64{0.5, 1}, c.Errors())
	assert.Equal(t, []float64{2, 4}, h.Contents())

	c.Reset()
	assert.Equal(t, 0.0, c.Sum())
	assert.Equal(t, []float64{0, 0}, c.Errors())
}
