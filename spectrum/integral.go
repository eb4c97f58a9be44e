// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"
	"math"

	"github.com/katalvlaran/specunfold/histogram"
	"gonum.org/v1/gonum/floats"
)

// BinRange selects regular bins First..Last (1-based, inclusive). Last < 0
// means the last regular bin; First < 1 is raised to 1.
type BinRange struct {
	First, Last int
}

// AllBins selects every regular bin.
var AllBins = BinRange{First: 1, Last: -1}

// resolve clamps r onto an n-bin axis.
func (r BinRange) resolve(n int) (int, int, error) {
	first, last := r.First, r.Last
	if first < 1 {
		first = 1
	}
	if last < 0 || last > n {
		last = n
	}
	if first > last {
		return 0, 0, fmt.Errorf("%w: [%d, %d] on %d bins", ErrBadRange, r.First, r.Last, n)
	}

	return first, last, nil
}

// window returns the contents, errors and centers of the selected bins.
func window(h *histogram.H1, r BinRange) (content, errs, centers []float64, first int, err error) {
	if h == nil {
		return nil, nil, nil, 0, ErrNilHistogram
	}
	first, last, err := r.resolve(h.NBins())
	if err != nil {
		return nil, nil, nil, 0, err
	}
	content = h.Contents()[first-1 : last]
	errs = h.Errors()[first-1 : last]
	centers = make([]float64, len(content))
	a := h.Axis()
	for k := range centers {
		centers[k] = a.Center(first + k)
	}

	return content, errs, centers, first, nil
}

// Measurement is a value with a one-sigma uncertainty.
type Measurement struct {
	Value float64
	Sigma float64
}

// String renders "v ± s".
func (m Measurement) String() string {
	return fmt.Sprintf("%g ± %g", m.Value, m.Sigma)
}

// Integral sums the selected contents; errors add in quadrature.
func Integral(h *histogram.H1, r BinRange) (Measurement, error) {
	content, errs, _, _, err := window(h, r)
	if err != nil {
		return Measurement{}, err
	}

	return Measurement{
		Value: floats.Sum(content),
		Sigma: math.Sqrt(floats.Dot(errs, errs)),
	}, nil
}

// WidthIntegral returns Σ y(i)·w(i)/unit with errors in quadrature, where
// w(i) is the bin width. Bins with a non-positive width are skipped. Use
// unit = 1000 to integrate a per-MeV density over a keV axis.
func WidthIntegral(h *histogram.H1, r BinRange, unit float64) (Measurement, error) {
	if !(unit > 0) {
		return Measurement{}, fmt.Errorf("%w: unit %g", ErrBadParameter, unit)
	}
	content, errs, _, first, err := window(h, r)
	if err != nil {
		return Measurement{}, err
	}
	a := h.Axis()
	var sum, variance float64
	for k, y := range content {
		w := a.Width(first+k) / unit
		if !(w > 0) {
			continue
		}
		sum += y * w
		e := errs[k] * w
		variance += e * e
	}

	return Measurement{Value: sum, Sigma: math.Sqrt(variance)}, nil
}

// MeanEnergy returns Ē = Σ N·E / Σ N over bin centers E, with
//
//	σ² = (σ_A/B)² + (A·σ_B/B²)², σ_A² = Σ E²σ², σ_B² = Σ σ².
//
// The correlation between numerator and denominator is ignored. A
// non-positive Σ N yields a zero Measurement.
func MeanEnergy(h *histogram.H1, r BinRange) (Measurement, error) {
	content, errs, centers, _, err := window(h, r)
	if err != nil {
		return Measurement{}, err
	}
	A := floats.Dot(content, centers)
	B := floats.Sum(content)
	if B <= 0 {
		return Measurement{}, nil
	}
	var varA, varB float64
	for k, s := range errs {
		s2 := s * s
		varA += centers[k] * centers[k] * s2
		varB += s2
	}
	t1 := math.Sqrt(varA) / B
	t2 := A * math.Sqrt(varB) / (B * B)

	return Measurement{Value: A / B, Sigma: math.Hypot(t1, t2)}, nil
}
