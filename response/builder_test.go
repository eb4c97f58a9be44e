package response_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axes returns 3-bin measured and true axes over [0, 3).
func axes(t *testing.T) (histogram.Axis, histogram.Axis) {
	t.Helper()
	x, err := histogram.NewUniformAxis(3, 0, 3)
	require.NoError(t, err)
	y, err := histogram.NewUniformAxis(3, 0, 3)
	require.NoError(t, err)

	return x, y
}

var sample = []response.Event{
	{Channel: 0, ETrue: 0.5, EMeas: 0.5},
	{Channel: 0, ETrue: 0.5, EMeas: 1.5},
	{Channel: 1, ETrue: 2.5, EMeas: 2.5},
	{Channel: 0, ETrue: 2.5, EMeas: 1.2},
	{Channel: 0, ETrue: 5.0, EMeas: 1.0},  // true above the axis
	{Channel: 0, ETrue: 1.5, EMeas: -1.0}, // measured below the axis
	{Channel: 0, ETrue: math.NaN(), EMeas: 1.0},
}

// TestBuildDropsOutOfRange checks the default policy and the orientation.
func TestBuildDropsOutOfRange(t *testing.T) {
	x, y := axes(t)
	r, st, err := response.Build(sample, x, y)
	require.NoError(t, err)

	assert.Equal(t, response.Stats{Accepted: 4, Dropped: 2, Filtered: 1}, st)
	// rows = measured, cols = true
	assert.Equal(t, []float64{
		1, 0, 0,
		1, 0, 1,
		0, 0, 1,
	}, r.Matrix().RawRowMajor())

	v, err := r.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

// TestBuildClipToFlow checks out-of-range events land in the flow slots.
func TestBuildClipToFlow(t *testing.T) {
	x, y := axes(t)
	r, st, err := response.Build(sample, x, y, response.WithOutOfRange(response.ClipToFlow))
	require.NoError(t, err)
	assert.Equal(t, 6, st.Accepted)
	assert.Equal(t, 4.0, r.Sum()) // regular bins unchanged

	over, err := r.At(2, 4) // measured bin 2, true overflow
	require.NoError(t, err)
	assert.Equal(t, 1.0, over)
	under, err := r.At(0, 2) // measured underflow, true bin 2
	require.NoError(t, err)
	assert.Equal(t, 1.0, under)
}

// TestBuildChannelFilter keeps only the requested channel.
func TestBuildChannelFilter(t *testing.T) {
	x, y := axes(t)
	r, st, err := response.Build(sample, x, y, response.WithChannel(1))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Accepted)
	assert.Equal(t, 6, st.Filtered)
	assert.Equal(t, 1.0, r.Sum())
}

// TestBuildOverflowFiltered checks that an event whose weight would push
// its bin to Inf is counted as filtered and leaves the bin unchanged.
func TestBuildOverflowFiltered(t *testing.T) {
	x, y := axes(t)
	events := []response.Event{
		{ETrue: 0.5, EMeas: 0.5},
		{ETrue: 0.5, EMeas: 0.5},
		{ETrue: 1.5, EMeas: 1.5},
	}
	r, st, err := response.Build(events, x, y, response.WithEventWeight(math.MaxFloat64))
	require.NoError(t, err)
	assert.Equal(t, response.Stats{Accepted: 2, Filtered: 1}, st)

	v, err := r.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, v)
}

// TestBuildNormalized checks unit column sums and untouched empty columns.
func TestBuildNormalized(t *testing.T) {
	x, y := axes(t)
	r, _, err := response.Build(sample, x, y, response.WithColumnNormalization())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 1}, r.ProjectionY().Contents())
	assert.Equal(t, []float64{
		0.5, 0, 0,
		0.5, 0, 0.5,
		0, 0, 0.5,
	}, r.Matrix().RawRowMajor())
}

// TestEfficiency divides column sums by the generated count.
func TestEfficiency(t *testing.T) {
	x, y := axes(t)
	r, _, err := response.Build(sample, x, y)
	require.NoError(t, err)

	eff, err := response.Efficiency(r, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0, 0.5}, eff)

	_, err = response.Efficiency(r, 0)
	require.ErrorIs(t, err, response.ErrInvalidGeneration)
	_, err = response.NormalizeColumns(nil)
	require.ErrorIs(t, err, histogram.ErrNilHistogram)
}

// TestBuildOptionPanics checks programmer errors in option constructors.
func TestBuildOptionPanics(t *testing.T) {
	assert.Panics(t, func() { response.WithChannel(-3) })
	assert.Panics(t, func() { response.WithEventWeight(0) })
	assert.Panics(t, func() { response.WithEventWeight(math.Inf(1)) })
	assert.Panics(t, func() { response.WithOutOfRange(response.OutOfRange(7)) })
}

// TestProfiles checks per-true-bin mean and RMS.
func TestProfiles(t *testing.T) {
	x, y := axes(t)
	ps := response.Profiles(sample, x, y, response.WithChannel(0))
	require.Len(t, ps, 3)

	assert.Equal(t, 2, ps[0].N)
	assert.InDelta(t, 1.0, ps[0].Mean, 1e-12)
	assert.InDelta(t, 0.5, ps[0].RMS, 1e-12)
	assert.Equal(t, 0, ps[1].N)
	assert.Equal(t, 1, ps[2].N)
	assert.InDelta(t, 1.2, ps[2].Mean, 1e-12)
	assert.Zero(t, ps[2].RMS)
	assert.Equal(t, 2.5, ps[2].Center)
}
