// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/response"
)

var (
	// ErrNoSource indicates a generator without lines or continua.
	ErrNoSource = errors.New("synth: no source component")

	// ErrBadCount indicates a negative number of events to generate.
	ErrBadCount = errors.New("synth: event count must be >= 0")
)

// Stats counts what a Sample call produced.
type Stats struct {
	Generated int // true events drawn
	Detected  int // events that passed the efficiency and were returned
}

// Generator draws synthetic events. It is not safe for concurrent use.
type Generator struct {
	cfg   config
	total float64 // Σ component weights
}

// New builds a generator from opts.
func New(opts ...Option) *Generator {
	cfg := newConfig(opts...)
	g := &Generator{cfg: cfg}
	for _, l := range cfg.lines {
		g.total += l.Weight
	}
	for _, c := range cfg.continua {
		g.total += c.Weight
	}

	return g
}

// Sample draws n true events and returns the detected ones in draw order.
//
// Per event:
//  1. pick a component with probability weight/Σweights and draw ETrue
//     (the line energy, or uniform on the continuum);
//  2. keep it with probability clip(efficiency(ETrue), 0, 1);
//  3. EMeas = ETrue + σ·N(0,1) with σ = Width(ETrue)·FWHMToSigma when a
//     resolution is set, else EMeas = ETrue. Negative EMeas is clipped to 0.
//
// Errors: ErrBadCount, ErrNoSource.
func (g *Generator) Sample(n int) ([]response.Event, Stats, error) {
	if n < 0 {
		return nil, Stats{}, fmt.Errorf("%w: %d", ErrBadCount, n)
	}
	if g.total <= 0 {
		return nil, Stats{}, ErrNoSource
	}
	out := make([]response.Event, 0, n)
	var st Stats
	for k := 0; k < n; k++ {
		st.Generated++
		if ev, ok := g.detect(g.drawTrue()); ok {
			out = append(out, ev)
			st.Detected++
		}
	}

	return out, st, nil
}

// SamplePerBin draws exactly perBin true energies uniformly inside every
// regular bin of trueAxis, so a response built from the detected events has
// a known generation count per true bin. Components are ignored; efficiency
// and resolution apply as in Sample.
//
// Errors: ErrBadCount, histogram.ErrInvalidAxis.
func (g *Generator) SamplePerBin(trueAxis histogram.Axis, perBin int) ([]response.Event, Stats, error) {
	if perBin < 0 {
		return nil, Stats{}, fmt.Errorf("%w: %d", ErrBadCount, perBin)
	}
	if !trueAxis.Valid() {
		return nil, Stats{}, histogram.ErrInvalidAxis
	}
	rng := g.cfg.rng
	var out []response.Event
	var st Stats
	for j := 1; j <= trueAxis.NBins(); j++ {
		lo, w := trueAxis.LowEdge(j), trueAxis.Width(j)
		for k := 0; k < perBin; k++ {
			st.Generated++
			if ev, ok := g.detect(lo + rng.Float64()*w); ok {
				out = append(out, ev)
				st.Detected++
			}
		}
	}

	return out, st, nil
}

// detect applies the efficiency and the smearing to one true energy.
func (g *Generator) detect(et float64) (response.Event, bool) {
	rng := g.cfg.rng
	if rng.Float64() >= clamp01(g.cfg.efficiency(et)) {
		return response.Event{}, false
	}
	em := et
	if r := g.cfg.resolution; r != nil {
		em += r.Width(et) * FWHMToSigma * rng.NormFloat64()
		em = math.Max(em, 0)
	}

	return response.Event{Channel: g.cfg.channel, ETrue: et, EMeas: em}, true
}

// drawTrue picks a component and returns a true energy from it.
func (g *Generator) drawTrue() float64 {
	rng := g.cfg.rng
	u := rng.Float64() * g.total
	for _, l := range g.cfg.lines {
		if u < l.Weight {
			return l.Energy
		}
		u -= l.Weight
	}
	for _, c := range g.cfg.continua {
		if u < c.Weight {
			return c.Min + rng.Float64()*(c.Max-c.Min)
		}
		u -= c.Weight
	}
	// rounding left u just above the last weight
	if n := len(g.cfg.continua); n > 0 {
		c := g.cfg.continua[n-1]
		return c.Min + rng.Float64()*(c.Max-c.Min)
	}

	return g.cfg.lines[len(g.cfg.lines)-1].Energy
}

func clamp01(p float64) float64 {
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// MeasuredSpectrum fills EMeas of every event into a new histogram on axis
// with unit weights, so errors are sqrt(N).
func MeasuredSpectrum(events []response.Event, axis histogram.Axis) (*histogram.H1, error) {
	return fillSpectrum(events, axis, func(e response.Event) float64 { return e.EMeas })
}

// TrueSpectrum is MeasuredSpectrum over ETrue.
func TrueSpectrum(events []response.Event, axis histogram.Axis) (*histogram.H1, error) {
	return fillSpectrum(events, axis, func(e response.Event) float64 { return e.ETrue })
}

func fillSpectrum(events []response.Event, axis histogram.Axis, pick func(response.Event) float64) (*histogram.H1, error) {
	h, err := histogram.NewH1(axis)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		h.Fill(pick(e), 1)
	}

	return h, nil
}
