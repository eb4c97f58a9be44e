package unfold_test

import (
	"testing"

	"github.com/katalvlaran/specunfold/unfold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirectRegression pins the two-division rule on a 3×3 causal response.
func TestDirectRegression(t *testing.T) {
	r := mustResponse(t, [][]float64{
		{2, 0, 0},
		{1, 2, 0},
		{0, 1, 3},
	})
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1

	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), []float64{4, 5, 7}), r, opts)
	require.NoError(t, err)

	// bin 3: 7/3 then /eff=3; bin 2: 5/2 then /3; bin 1: 4/2 then /3
	assert.InDeltaSlice(t, []float64{2.0 / 3, 5.0 / 6, 7.0 / 9}, res.Unfolded.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{8.0 / 3, 10.0 / 3, 14.0 / 3}, res.Residual.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{4.0 / 3, 7.0 / 3, 19.0 / 6}, res.Refolded.Contents(), 1e-12)
	assert.Equal(t, []float64{3, 3, 3}, res.Efficiency)
	assert.Empty(t, res.Trace)
	assert.Equal(t, 0, res.Iterations)

	opts.SkipEfficiencyDivision = true
	res, err = unfold.Direct(mustSpectrum(t, r.XAxis(), []float64{4, 5, 7}), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 2.5, 7.0 / 3}, res.Unfolded.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, res.Residual.Contents(), 1e-12)
}

// TestDirectIdentityExact checks a unit diagonal reproduces the measurement.
func TestDirectIdentityExact(t *testing.T) {
	r := mustResponse(t, diagonal(4, 1))
	m := []float64{3, 0, 8, 1}
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1

	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), m), r, opts)
	require.NoError(t, err)
	assert.Equal(t, m, res.Unfolded.Contents())
	assert.Equal(t, []float64{0, 0, 0, 0}, res.Residual.Contents())
	assert.Equal(t, m, res.Refolded.Contents())
}

// TestDirectLowerTriangular checks a response with A(i,j) = 0 for i < j
// and a unit diagonal. Without the efficiency division the measurement is
// reproduced exactly with a zero residual; the default rule divides once
// more by the column sums.
func TestDirectLowerTriangular(t *testing.T) {
	r := mustResponse(t, [][]float64{
		{1, 0, 0},
		{0.5, 1, 0},
		{0.2, 0.3, 1},
	})
	m := []float64{4, 5, 7}
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1
	opts.SkipEfficiencyDivision = true

	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), m), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, m, res.Unfolded.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, res.Residual.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{4, 7, 9.3}, res.Refolded.Contents(), 1e-12)

	opts.SkipEfficiencyDivision = false
	res, err = unfold.Direct(mustSpectrum(t, r.XAxis(), m), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.7, 1.3, 1}, res.Efficiency, 1e-12)
	assert.InDeltaSlice(t, []float64{4 / 1.7, 5 / 1.3, 7}, res.Unfolded.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{4 - 4/1.7, 5 - 5/1.3, 0}, res.Residual.Contents(), 1e-12)
}

// TestDirectCausalTail checks tails are stripped exactly when the diagonal
// already carries the efficiency.
func TestDirectCausalTail(t *testing.T) {
	// true bin j deposits at j and below (rows = measured)
	r := mustResponse(t, [][]float64{
		{1, 0.5, 0.2},
		{0, 1, 0.3},
		{0, 0, 1},
	})
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1
	opts.SkipEfficiencyDivision = true

	m := []float64{2.6, 2.9, 3} // A·[1, 2, 3]
	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), m), r, opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, res.Unfolded.Contents(), 1e-12)
	assert.InDeltaSlice(t, m, res.Refolded.Contents(), 1e-12)
	assert.Equal(t, []float64{0, 0, 0}, res.Residual.Contents()) // clamped below epsilon
}

// TestDirectSkips checks empty sources and zero diagonals are left alone.
func TestDirectSkips(t *testing.T) {
	r := mustResponse(t, [][]float64{
		{1, 1, 0},
		{0, 0, 0},
		{0, 0, 2},
	})
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1
	opts.SkipEfficiencyDivision = true

	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), []float64{5, 4, -2}), r, opts)
	require.NoError(t, err)
	// bin 3 source clipped to 0, bin 2 diagonal 0: only bin 1 strips
	assert.Equal(t, []float64{5, 0, 0}, res.Unfolded.Contents())
	assert.Equal(t, []float64{0, 4, 0}, res.Residual.Contents())
}

// TestDirectWithoutPositivity lets the residual go negative.
func TestDirectWithoutPositivity(t *testing.T) {
	r := mustResponse(t, [][]float64{
		{1, 3},
		{0, 1},
	})
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = 1
	opts.SkipEfficiencyDivision = true
	opts.EnforcePositivity = false

	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), []float64{1, 1}), r, opts)
	require.NoError(t, err)
	// bin 2: norm 1 strips 3 from bin 1 → −2; bin 1 then skipped
	assert.Equal(t, []float64{0, 1}, res.Unfolded.Contents())
	assert.Equal(t, []float64{-2, 0}, res.Residual.Contents())
}

// TestDirectInvalidInput covers the hard failures.
func TestDirectInvalidInput(t *testing.T) {
	r := mustResponse(t, smeared)
	opts := unfold.DefaultDirectOptions()
	opts.GenPerTrueBin = -1
	res, err := unfold.Direct(mustSpectrum(t, r.XAxis(), smearedMeasured), r, opts)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, unfold.ErrInvalidInput)
	assert.ErrorIs(t, err, unfold.ErrBadParameter)

	_, err = unfold.Direct(nil, r, unfold.DefaultDirectOptions())
	assert.ErrorIs(t, err, unfold.ErrNilInput)
}
