package spectrum_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustH1 builds an H1 on edges with contents v and errors e (nil = zero).
func mustH1(t *testing.T, edges, v, e []float64) *histogram.H1 {
	t.Helper()
	h, err := histogram.NewH1FromEdges(edges)
	require.NoError(t, err)
	require.NoError(t, h.SetContents(v))
	if e != nil {
		require.NoError(t, h.SetErrors(e))
	}

	return h
}

// TestIntegral checks sums and quadrature errors over ranges.
func TestIntegral(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2, 3}, []float64{1, 2, 3}, []float64{3, 0, 4})

	got, err := spectrum.Integral(h, spectrum.AllBins)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Measurement{Value: 6, Sigma: 5}, got)

	got, err = spectrum.Integral(h, spectrum.BinRange{First: 2, Last: 3})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Value)
	assert.Equal(t, 4.0, got.Sigma)

	_, err = spectrum.Integral(h, spectrum.BinRange{First: 3, Last: 2})
	assert.ErrorIs(t, err, spectrum.ErrBadRange)
	_, err = spectrum.Integral(nil, spectrum.AllBins)
	assert.ErrorIs(t, err, spectrum.ErrNilHistogram)
}

// TestWidthIntegral weights by bin width in the requested unit.
func TestWidthIntegral(t *testing.T) {
	h := mustH1(t, []float64{0, 1000, 3000}, []float64{2, 5}, []float64{1, 1})

	got, err := spectrum.WidthIntegral(h, spectrum.AllBins, 1000) // keV bins, per-MeV density
	require.NoError(t, err)
	assert.InDelta(t, 2*1+5*2, got.Value, 1e-12)
	assert.InDelta(t, math.Sqrt(1+4), got.Sigma, 1e-12)

	_, err = spectrum.WidthIntegral(h, spectrum.AllBins, 0)
	assert.ErrorIs(t, err, spectrum.ErrBadParameter)
}

// TestMeanEnergy checks the weighted center and the propagated error.
func TestMeanEnergy(t *testing.T) {
	h := mustH1(t, []float64{0, 2, 4}, []float64{1, 3}, []float64{1, 1})

	got, err := spectrum.MeanEnergy(h, spectrum.AllBins)
	require.NoError(t, err)
	// centers 1 and 3: A = 1 + 9 = 10, B = 4
	assert.InDelta(t, 2.5, got.Value, 1e-12)
	wantSigma := math.Hypot(math.Sqrt(1+9)/4, 10*math.Sqrt(2)/16)
	assert.InDelta(t, wantSigma, got.Sigma, 1e-12)

	empty := mustH1(t, []float64{0, 1}, []float64{0}, nil)
	got, err = spectrum.MeanEnergy(empty, spectrum.AllBins)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Measurement{}, got)
}

// TestCountUncertainty combines Poisson and fractional systematics.
func TestCountUncertainty(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2}, []float64{16, -4}, nil)
	out, err := spectrum.CountUncertainty(h, 0.25)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{math.Hypot(4, 4), 0}, out.Errors(), 1e-12)
	assert.Equal(t, h.Contents(), out.Contents())
	assert.Equal(t, []float64{0, 0}, h.Errors()) // input untouched

	_, err = spectrum.CountUncertainty(h, -1)
	assert.ErrorIs(t, err, spectrum.ErrBadParameter)
}

// TestNormalizePerEvent propagates both relative errors.
func TestNormalizePerEvent(t *testing.T) {
	h := mustH1(t, []float64{0, 1}, []float64{100}, []float64{10})
	out, err := spectrum.NormalizePerEvent(h, 1000, 50)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, out.Contents()[0], 1e-15)
	assert.InDelta(t, math.Hypot(0.01, 100*50/1e6), out.Errors()[0], 1e-15)

	_, err = spectrum.NormalizePerEvent(h, 0, 0)
	assert.ErrorIs(t, err, spectrum.ErrBadParameter)
}

// TestPerUnitWidthAndUnitArea checks density conversion and normalization.
func TestPerUnitWidthAndUnitArea(t *testing.T) {
	h := mustH1(t, []float64{0, 500, 2500}, []float64{10, 40}, []float64{1, 2})

	d, err := spectrum.PerUnitWidth(h, 1000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{20, 20}, d.Contents(), 1e-12)
	assert.InDeltaSlice(t, []float64{2, 1}, d.Errors(), 1e-12)

	u, err := spectrum.UnitArea(h)
	require.NoError(t, err)
	area, err := spectrum.WidthIntegral(u, spectrum.AllBins, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, area.Value, 1e-12)

	_, err = spectrum.UnitArea(mustH1(t, []float64{0, 1}, []float64{0}, nil))
	assert.ErrorIs(t, err, spectrum.ErrZeroArea)
}

// TestZeroBelow clears the underflow and the first bins only.
func TestZeroBelow(t *testing.T) {
	h := mustH1(t, []float64{0, 1, 2, 3}, []float64{1, 2, 3}, []float64{1, 1, 1})
	require.NoError(t, h.Set(0, 7))

	out, err := spectrum.ZeroBelow(h, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Underflow())
	assert.Equal(t, []float64{0, 2, 3}, out.Contents())
	assert.Equal(t, []float64{0, 1, 1}, out.Errors())
	assert.Equal(t, 7.0, h.Underflow())
}

// TestSafeRatio skips non-positive denominators and averages in range.
func TestSafeRatio(t *testing.T) {
	num := mustH1(t, []float64{0, 1, 2, 3, 4}, []float64{2, 6, 5, 9}, nil)
	den := mustH1(t, []float64{0, 1, 2, 3, 4}, []float64{1, 3, 0, 3}, nil)

	r, mean, err := spectrum.SafeRatio(num, den, spectrum.AllBins)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 0, 3}, r.Contents())
	assert.InDelta(t, 7.0/3, mean, 1e-12)

	_, mean, err = spectrum.SafeRatio(num, den, spectrum.BinRange{First: 3, Last: 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean) // only a zero denominator in range

	short := mustH1(t, []float64{0, 1}, []float64{1}, nil)
	_, _, err = spectrum.SafeRatio(num, short, spectrum.AllBins)
	assert.ErrorIs(t, err, spectrum.ErrBinCountMismatch)
}
