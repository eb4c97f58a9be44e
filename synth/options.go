// SPDX-License-Identifier: MIT

package synth

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/specunfold/response"
)

// Deterministic defaults.
const (
	DefaultSeed       = int64(1)
	defaultEfficiency = 1.0
	defaultChannel    = 0
)

// FWHMToSigma converts a Gaussian FWHM into its standard deviation.
const FWHMToSigma = 1 / 2.355

// Line is a monoenergetic source component.
type Line struct {
	Energy float64
	Weight float64 // relative intensity
}

// Continuum is a flat source component on [Min, Max).
type Continuum struct {
	Min, Max float64
	Weight   float64
}

// config aggregates every generator knob. Passed by value.
type config struct {
	rng        *rand.Rand
	lines      []Line
	continua   []Continuum
	resolution *response.ResolutionParams
	efficiency func(e float64) float64
	channel    int
}

// Option customizes a Generator.
type Option func(*config)

func newConfig(opts ...Option) config {
	cfg := config{
		efficiency: func(float64) float64 { return defaultEfficiency },
		channel:    defaultChannel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(DefaultSeed))
	}

	return cfg
}

// WithSeed seeds a private RNG.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand shares an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("synth: WithRand(nil)")
	}

	return func(c *config) { c.rng = r }
}

// WithLine adds a gamma line. Panics on a non-positive energy or weight.
func WithLine(energy, weight float64) Option {
	if !(energy > 0) || !(weight > 0) {
		panic("synth: WithLine requires energy > 0 and weight > 0")
	}

	return func(c *config) { c.lines = append(c.lines, Line{Energy: energy, Weight: weight}) }
}

// WithContinuum adds a flat component on [lo, hi). Panics unless
// 0 ≤ lo < hi and weight > 0.
func WithContinuum(lo, hi, weight float64) Option {
	if !(lo >= 0) || !(hi > lo) || math.IsInf(hi, 0) || !(weight > 0) {
		panic("synth: WithContinuum requires 0 <= lo < hi and weight > 0")
	}

	return func(c *config) {
		c.continua = append(c.continua, Continuum{Min: lo, Max: hi, Weight: weight})
	}
}

// WithResolution enables Gaussian smearing with FWHM = p.Width(E). Panics on
// parameters failing Validate.
func WithResolution(p response.ResolutionParams) Option {
	if err := p.Validate(); err != nil {
		panic("synth: WithResolution: " + err.Error())
	}

	return func(c *config) { c.resolution = &p }
}

// WithEfficiency sets the detection probability as a function of the true
// energy. Values are clipped into [0, 1] at sampling time. Panics on nil.
func WithEfficiency(fn func(e float64) float64) Option {
	if fn == nil {
		panic("synth: WithEfficiency(nil)")
	}

	return func(c *config) { c.efficiency = fn }
}

// WithConstantEfficiency is WithEfficiency for a flat probability. Panics
// outside [0, 1].
func WithConstantEfficiency(p float64) Option {
	if !(p >= 0 && p <= 1) {
		panic("synth: WithConstantEfficiency requires 0 <= p <= 1")
	}

	return WithEfficiency(func(float64) float64 { return p })
}

// WithChannel tags every event with ch. Panics on a negative channel.
func WithChannel(ch int) Option {
	if ch < 0 {
		panic("synth: WithChannel requires ch >= 0")
	}

	return func(c *config) { c.channel = ch }
}
