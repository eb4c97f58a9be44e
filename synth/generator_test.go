package synth_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/response"
	"github.com/katalvlaran/specunfold/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// TestSampleDeterministic checks that a seed pins the whole stream.
func TestSampleDeterministic(t *testing.T) {
	opts := []synth.Option{
		synth.WithSeed(42),
		synth.WithLine(662, 1),
		synth.WithContinuum(100, 2000, 3),
		synth.WithResolution(response.ResolutionParams{A: 1.2, Power: -0.5}),
	}
	a, _, err := synth.New(opts...).Sample(500)
	require.NoError(t, err)
	b, _, err := synth.New(opts...).Sample(500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestSampleLineWithoutResolution keeps EMeas equal to the line energy.
func TestSampleLineWithoutResolution(t *testing.T) {
	ev, st, err := synth.New(synth.WithLine(1332.5, 1), synth.WithChannel(3)).Sample(10)
	require.NoError(t, err)
	assert.Equal(t, synth.Stats{Generated: 10, Detected: 10}, st)
	for _, e := range ev {
		assert.Equal(t, response.Event{Channel: 3, ETrue: 1332.5, EMeas: 1332.5}, e)
	}
}

// TestSampleEfficiency checks the detected fraction.
func TestSampleEfficiency(t *testing.T) {
	_, st, err := synth.New(synth.WithLine(100, 1), synth.WithConstantEfficiency(0)).Sample(50)
	require.NoError(t, err)
	assert.Equal(t, 50, st.Generated)
	assert.Equal(t, 0, st.Detected)

	_, st, err = synth.New(synth.WithSeed(7), synth.WithLine(100, 1), synth.WithConstantEfficiency(0.3)).Sample(20000)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, float64(st.Detected)/float64(st.Generated), 0.02)
}

// TestSampleSmearing checks the width of a smeared line against the model.
func TestSampleSmearing(t *testing.T) {
	p := response.ResolutionParams{A: 0.5, Power: -0.5}
	const e = 1000.0
	ev, _, err := synth.New(synth.WithSeed(3), synth.WithLine(e, 1), synth.WithResolution(p)).Sample(20000)
	require.NoError(t, err)

	meas := make([]float64, len(ev))
	for k, x := range ev {
		meas[k] = x.EMeas
	}
	mean, std := stat.MeanStdDev(meas, nil)
	sigma := p.Width(e) * synth.FWHMToSigma // 0.5·1000^0.5 / 2.355 ≈ 6.7
	assert.InDelta(t, e, mean, 0.5)
	assert.InDelta(t, sigma, std, 0.3)
}

// TestSamplePerBin checks the exact per-bin generation count.
func TestSamplePerBin(t *testing.T) {
	axis, err := histogram.NewUniformAxis(4, 0, 400)
	require.NoError(t, err)
	ev, st, err := synth.New(synth.WithSeed(9)).SamplePerBin(axis, 25)
	require.NoError(t, err)
	assert.Equal(t, synth.Stats{Generated: 100, Detected: 100}, st)

	truth, err := synth.TrueSpectrum(ev, axis)
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 25, 25, 25}, truth.Contents())
	assert.Equal(t, []float64{5, 5, 5, 5}, truth.Errors())

	_, _, err = synth.New().SamplePerBin(axis, -1)
	assert.ErrorIs(t, err, synth.ErrBadCount)
}

// TestSampleErrors covers the sampling failures.
func TestSampleErrors(t *testing.T) {
	_, _, err := synth.New().Sample(10)
	assert.ErrorIs(t, err, synth.ErrNoSource)

	_, _, err = synth.New(synth.WithLine(1, 1)).Sample(-1)
	assert.ErrorIs(t, err, synth.ErrBadCount)
}

// TestOptionsPanic checks option constructors reject nonsense.
func TestOptionsPanic(t *testing.T) {
	assert.Panics(t, func() { synth.WithLine(0, 1) })
	assert.Panics(t, func() { synth.WithLine(1, -1) })
	assert.Panics(t, func() { synth.WithContinuum(5, 5, 1) })
	assert.Panics(t, func() { synth.WithResolution(response.ResolutionParams{A: 0, Power: 0.5}) })
	assert.Panics(t, func() { synth.WithEfficiency(nil) })
	assert.Panics(t, func() { synth.WithConstantEfficiency(1.5) })
	assert.Panics(t, func() { synth.WithRand(nil) })
	assert.Panics(t, func() { synth.WithChannel(-1) })
}

// TestMeasuredSpectrumFeedsBuild checks the generator, builder and
// histogram agree on event counts.
func TestMeasuredSpectrumFeedsBuild(t *testing.T) {
	axis, err := histogram.NewUniformAxis(10, 0, 1000)
	require.NoError(t, err)
	ev, st, err := synth.New(
		synth.WithSeed(11),
		synth.WithConstantEfficiency(0.8),
		synth.WithResolution(response.ResolutionParams{A: 0.8, Power: -0.5}),
	).SamplePerBin(axis, 200)
	require.NoError(t, err)

	r, bst, err := response.Build(ev, axis, axis, response.WithOutOfRange(response.ClipToFlow))
	require.NoError(t, err)
	assert.Equal(t, st.Detected, bst.Accepted)

	m, err := synth.MeasuredSpectrum(ev, axis)
	require.NoError(t, err)
	assert.InDelta(t, r.ProjectionX().Sum(), m.Sum(), 1e-9)
	assert.False(t, math.IsNaN(m.Sum()))
}
