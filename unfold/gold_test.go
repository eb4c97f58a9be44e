package unfold_test

import (
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/unfold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGoldIdentityResponse checks correction ≡ 1 once u = m.
func TestGoldIdentityResponse(t *testing.T) {
	r := mustResponse(t, diagonal(3, unfold.DefaultGenPerTrueBin))
	m := []float64{7, 0, 12}
	res, err := unfold.Gold(mustSpectrum(t, r.XAxis(), m), r, unfold.DefaultGoldOptions())
	require.NoError(t, err)

	assert.InDeltaSlice(t, m, res.Unfolded.Contents(), 1e-9)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, res.Efficiency, 1e-12)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
}

// TestGoldAbsoluteScale checks that eff < 1 is corrected for.
func TestGoldAbsoluteScale(t *testing.T) {
	// half of every true bin is seen, on the diagonal
	r := mustResponse(t, diagonal(2, 50))
	opts := unfold.DefaultGoldOptions()
	opts.GenPerTrueBin = 100

	res, err := unfold.Gold(mustSpectrum(t, r.XAxis(), []float64{10, 4}), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, res.Efficiency, 1e-15)
	assert.InDeltaSlice(t, []float64{20, 8}, res.Unfolded.Contents(), 1e-9)
	assert.InDeltaSlice(t, []float64{10, 4}, res.Refolded.Contents(), 1e-9)

	// Refold through the same absolute response closes the loop.
	g, err := unfold.Refold(res.Unfolded, r, opts.GenPerTrueBin)
	require.NoError(t, err)
	assert.InDeltaSlice(t, res.Refolded.Contents(), g.Contents(), 1e-12)
}

// TestGoldSmeared checks the fit improves and stays non-negative.
func TestGoldSmeared(t *testing.T) {
	r := mustResponse(t, smeared)
	opts := unfold.DefaultGoldOptions()
	opts.GenPerTrueBin = 10
	opts.MaxIter = 200

	res, err := unfold.Gold(mustSpectrum(t, r.XAxis(), smearedMeasured), r, opts)
	require.NoError(t, err)
	assert.Less(t, res.Trace[len(res.Trace)-1].Chi2, res.Trace[0].Chi2)
	for _, v := range res.Unfolded.Contents() {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Equal(t, unfold.MethodGold, res.Method)
}

// TestGoldZeroEfficiency keeps a true bin without response at zero.
func TestGoldZeroEfficiency(t *testing.T) {
	r := mustResponse(t, [][]float64{
		{1, 0},
		{0, 0},
	})
	opts := unfold.DefaultGoldOptions()
	opts.GenPerTrueBin = 1

	res, err := unfold.Gold(mustSpectrum(t, r.XAxis(), []float64{3, 2}), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 0}, res.Unfolded.Contents(), 1e-12)
}

// TestGoldPriorFallbacks checks both ways a prior can be turned down.
func TestGoldPriorFallbacks(t *testing.T) {
	r := mustResponse(t, smeared)
	m := mustSpectrum(t, r.XAxis(), smearedMeasured)
	opts := unfold.DefaultGoldOptions()
	opts.GenPerTrueBin = 10
	opts.MaxIter = 1

	base, err := unfold.Gold(m, r, opts)
	require.NoError(t, err)

	// mismatch: back-projection default, bit for bit
	wide, err := histogram.NewUniformAxis(4, 0, 4)
	require.NoError(t, err)
	opts.Prior = unfold.PriorSpec{Histogram: mustSpectrum(t, wide, []float64{1, 1, 1, 1})}
	res, err := unfold.Gold(m, r, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, res.PriorRejected, unfold.ErrPriorMismatch)
	assert.False(t, res.PriorUsed)
	assert.Equal(t, base.Unfolded.Contents(), res.Unfolded.Contents())

	// empty prior: flat start, which differs from back-projection
	opts.Prior = unfold.PriorSpec{Histogram: mustSpectrum(t, r.YAxis(), []float64{0, 0, 0})}
	res, err = unfold.Gold(m, r, opts)
	require.NoError(t, err)
	assert.ErrorIs(t, res.PriorRejected, unfold.ErrPriorEmpty)
	assert.NotEqual(t, base.Unfolded.Contents(), res.Unfolded.Contents())

	// matching prior
	opts.Prior = unfold.PriorSpec{Histogram: mustSpectrum(t, r.YAxis(), []float64{2, 2, 1})}
	res, err = unfold.Gold(m, r, opts)
	require.NoError(t, err)
	assert.True(t, res.PriorUsed)
	assert.NoError(t, res.PriorRejected)
}

// TestGoldInvalidInput covers the hard failures.
func TestGoldInvalidInput(t *testing.T) {
	r := mustResponse(t, smeared)
	res, err := unfold.Gold(mustSpectrum(t, r.YAxis(), []float64{1, 2, 3}), r, unfold.DefaultGoldOptions())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, unfold.ErrInvalidInput)
	assert.ErrorIs(t, err, unfold.ErrAxisMismatch)

	opts := unfold.DefaultGoldOptions()
	opts.GenPerTrueBin = 0
	_, err = unfold.Gold(mustSpectrum(t, r.XAxis(), smearedMeasured), r, opts)
	assert.ErrorIs(t, err, unfold.ErrBadParameter)

	_, err = unfold.Gold(mustSpectrum(t, r.XAxis(), smearedMeasured), nil, unfold.DefaultGoldOptions())
	assert.ErrorIs(t, err, unfold.ErrNilInput)
}
