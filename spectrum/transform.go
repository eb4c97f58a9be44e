// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"
	"math"

	"github.com/katalvlaran/specunfold/histogram"
)

// CountUncertainty returns a copy of h whose errors are
// σ = sqrt(N + (fracSyst·N)²), with N clipped at 0, flows included.
// Contents are unchanged.
func CountUncertainty(h *histogram.H1, fracSyst float64) (*histogram.H1, error) {
	if h == nil {
		return nil, ErrNilHistogram
	}
	if fracSyst < 0 || math.IsNaN(fracSyst) {
		return nil, fmt.Errorf("%w: fracSyst %g", ErrBadParameter, fracSyst)
	}
	out := h.Clone()
	for i := 0; i <= h.NBins()+1; i++ {
		n, _ := h.At(i)
		n = math.Max(n, 0)
		if err := out.SetErr(i, math.Hypot(math.Sqrt(n), fracSyst*n)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// NormalizePerEvent divides h by a normalization count n with uncertainty
// sigmaN (e.g. the number of fissions):
//
//	y = N/n, σ_y² = (σ_N/n)² + (N·σ_n/n²)².
func NormalizePerEvent(h *histogram.H1, n, sigmaN float64) (*histogram.H1, error) {
	if h == nil {
		return nil, ErrNilHistogram
	}
	if !(n > 0) || sigmaN < 0 {
		return nil, fmt.Errorf("%w: count %g ± %g", ErrBadParameter, n, sigmaN)
	}
	out := h.Clone()
	for i := 0; i <= h.NBins()+1; i++ {
		v, _ := h.At(i)
		e, _ := h.Err(i)
		if err := out.Set(i, v/n); err != nil {
			return nil, err
		}
		if err := out.SetErr(i, math.Hypot(e/n, v*sigmaN/(n*n))); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// PerUnitWidth divides every regular bin by its width expressed in unit
// (unit = 1000 turns counts per keV bin into counts per MeV). Flows are
// copied unchanged.
func PerUnitWidth(h *histogram.H1, unit float64) (*histogram.H1, error) {
	if h == nil {
		return nil, ErrNilHistogram
	}
	if !(unit > 0) {
		return nil, fmt.Errorf("%w: unit %g", ErrBadParameter, unit)
	}
	out := h.Clone()
	a := h.Axis()
	for i := 1; i <= h.NBins(); i++ {
		w := a.Width(i) / unit
		v, _ := h.At(i)
		e, _ := h.Err(i)
		if err := out.Set(i, v/w); err != nil {
			return nil, err
		}
		if err := out.SetErr(i, e/w); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// UnitArea returns a copy of h scaled so that its width-weighted integral
// over the regular bins is 1.
//
// Errors: ErrNilHistogram, ErrZeroArea.
func UnitArea(h *histogram.H1) (*histogram.H1, error) {
	area, err := WidthIntegral(h, AllBins, 1)
	if err != nil {
		return nil, err
	}
	if area.Value == 0 {
		return nil, ErrZeroArea
	}
	out := h.Clone()
	out.Scale(1 / area.Value)

	return out, nil
}

// ZeroBelow returns a copy of h with every slot below bin (underflow
// included) set to zero content and zero error.
func ZeroBelow(h *histogram.H1, bin int) (*histogram.H1, error) {
	if h == nil {
		return nil, ErrNilHistogram
	}
	out := h.Clone()
	for i := 0; i < bin && i <= h.NBins()+1; i++ {
		if err := out.Set(i, 0); err != nil {
			return nil, err
		}
		if err := out.SetErr(i, 0); err != nil {
			return nil, err
		}
	}

	return out, nil
}
