// SPDX-License-Identifier: MIT
// Package unfold: shared input preparation.
//
// Purpose:
//   - Validate (measured, response) pairs once for every solver.
//   - Derive the working matrices: A = max(R/gen, 0) for the absolute
//     solvers and the column-normalized R' for Bayes.
//   - Allocate output histograms on the right axes.

package unfold

import (
	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
)

// problem is the solver-independent view of one invocation. Every slice and
// matrix in it is owned by the solver.
type problem struct {
	nx, ny int
	meas   []float64 // regular measured contents, unclipped
	errs   []float64 // regular measured errors
	resp   *matrix.Dense
	xAxis  histogram.Axis
	yAxis  histogram.Axis
}

// prepare validates the inputs and copies what the solvers read.
//
// Errors:
//   - ErrInvalidInput + ErrNilInput, ErrAxisMismatch.
func prepare(m Method, measured *histogram.H1, resp *histogram.H2) (*problem, error) {
	if measured == nil || resp == nil {
		return nil, invalidf(m, ErrNilInput, "measured and response are required")
	}
	if measured.NBins() != resp.NX() {
		return nil, invalidf(m, ErrAxisMismatch, "measured has %d bins, response X has %d", measured.NBins(), resp.NX())
	}

	return &problem{
		nx:    resp.NX(),
		ny:    resp.NY(),
		meas:  measured.Contents(),
		errs:  measured.Errors(),
		resp:  resp.Matrix(),
		xAxis: resp.XAxis(),
		yAxis: resp.YAxis(),
	}, nil
}

// absolute returns A = max(R/gen, 0) and eff(j) = Σ_i A(i,j).
func (p *problem) absolute(gen float64) (*matrix.Dense, []float64, error) {
	scaled, err := matrix.Scale(p.resp, 1/gen)
	if err != nil {
		return nil, nil, err
	}
	A, err := matrix.ClipMin(scaled, 0)
	if err != nil {
		return nil, nil, err
	}
	eff, err := matrix.ColSums(A)
	if err != nil {
		return nil, nil, err
	}

	return A, eff, nil
}

// clippedMeasured returns max(m(i), 0) and its sum.
func (p *problem) clippedMeasured() ([]float64, float64) {
	out := make([]float64, p.nx)
	sum := 0.0
	for i, v := range p.meas {
		if v > 0 {
			out[i] = v
			sum += v
		}
	}

	return out, sum
}

// trueHistogram wraps f as a fresh H1 on the true axis.
func (p *problem) trueHistogram(f []float64) (*histogram.H1, error) {
	return histogramOn(p.yAxis, f)
}

// measuredHistogram wraps g as a fresh H1 on the measured axis.
func (p *problem) measuredHistogram(g []float64) (*histogram.H1, error) {
	return histogramOn(p.xAxis, g)
}

func histogramOn(a histogram.Axis, v []float64) (*histogram.H1, error) {
	h, err := histogram.NewH1(a)
	if err != nil {
		return nil, err
	}
	if err = h.SetContents(v); err != nil {
		return nil, err
	}

	return h, nil
}

// clipNegative zeroes negative entries in place.
func clipNegative(v []float64) {
	for k := range v {
		if v[k] < 0 {
			v[k] = 0
		}
	}
}
