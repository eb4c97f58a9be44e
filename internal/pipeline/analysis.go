package pipeline

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/config"
	"github.com/katalvlaran/specunfold/spectrum"
)

// Analysis summarizes one unfolded spectrum.
type Analysis struct {
	// Density is the spectrum per normalization event and per WidthUnit of
	// energy, with count uncertainties.
	Density  *histogram.H1
	Counts   spectrum.Measurement // Σ counts over the range, before normalization
	Integral spectrum.Measurement // width integral of Density
	Mean     spectrum.Measurement // mean energy over the range
}

// Analyze applies the analysis chain to h: bins below ZeroBelowBin are
// zeroed, errors are rebuilt from the counts with FracSyst, the spectrum is
// divided by Normalization ± NormSigma and by the bin width in WidthUnit.
func Analyze(h *histogram.H1, c config.AnalysisConfig) (*Analysis, error) {
	if h == nil {
		return nil, spectrum.ErrNilHistogram
	}
	r := binRange(c)

	cut, err := spectrum.ZeroBelow(h, c.ZeroBelowBin)
	if err != nil {
		return nil, err
	}
	counted, err := spectrum.CountUncertainty(cut, c.FracSyst)
	if err != nil {
		return nil, err
	}
	counts, err := spectrum.Integral(counted, r)
	if err != nil {
		return nil, err
	}
	mean, err := spectrum.MeanEnergy(counted, r)
	if err != nil {
		return nil, err
	}

	norm := c.Normalization
	if !(norm > 0) {
		norm = 1
	}
	perEvent, err := spectrum.NormalizePerEvent(counted, norm, c.NormSigma)
	if err != nil {
		return nil, err
	}
	density, err := spectrum.PerUnitWidth(perEvent, c.WidthUnit)
	if err != nil {
		return nil, err
	}
	integral, err := spectrum.WidthIntegral(density, r, c.WidthUnit)
	if err != nil {
		return nil, err
	}

	return &Analysis{Density: density, Counts: counts, Integral: integral, Mean: mean}, nil
}

// Comparison relates a spectrum to a reference on the same binning.
type Comparison struct {
	Ratio     *histogram.H1
	MeanRatio float64
	Shape     float64 // warp distance between the unit-area shapes
}

// Compare divides h by ref over the analysis range and measures their shape
// distance. A zero-area spectrum yields Shape = 0 and no error.
func Compare(h, ref *histogram.H1, c config.AnalysisConfig) (*Comparison, error) {
	ratio, mean, err := spectrum.SafeRatio(h, ref, binRange(c))
	if err != nil {
		return nil, fmt.Errorf("ratio: %w", err)
	}
	out := &Comparison{Ratio: ratio, MeanRatio: mean}

	match, err := spectrum.ShapeDistance(h, ref, spectrum.DefaultShapeOptions())
	switch {
	case errors.Is(err, spectrum.ErrZeroArea):
	case err != nil:
		return nil, fmt.Errorf("shape: %w", err)
	default:
		out.Shape = match.Distance
	}

	return out, nil
}

func binRange(c config.AnalysisConfig) spectrum.BinRange {
	last := c.LastBin
	if last <= 0 {
		last = -1
	}

	return spectrum.BinRange{First: c.FirstBin, Last: last}
}
