// SPDX-License-Identifier: MIT

package response

import "math"

// OutOfRange selects what Build does with an event whose measured or true
// energy falls outside its axis.
type OutOfRange int

const (
	// DropOutOfRange silently discards the event.
	DropOutOfRange OutOfRange = iota

	// ClipToFlow accumulates the event into the underflow/overflow slots.
	ClipToFlow
)

// AnyChannel disables channel filtering.
const AnyChannel = -1

// buildConfig aggregates the Build knobs.
type buildConfig struct {
	channel   int
	policy    OutOfRange
	normalize bool
	weight    float64
}

// Deterministic defaults.
const (
	defaultWeight = 1.0
)

// Option configures Build and Profiles.
type Option func(*buildConfig)

// WithChannel keeps only events whose Channel equals ch. Panics on a
// negative channel other than AnyChannel.
func WithChannel(ch int) Option {
	if ch < 0 && ch != AnyChannel {
		panic("response: WithChannel requires ch >= 0 or AnyChannel")
	}

	return func(c *buildConfig) { c.channel = ch }
}

// WithOutOfRange sets the out-of-range policy.
func WithOutOfRange(p OutOfRange) Option {
	if p != DropOutOfRange && p != ClipToFlow {
		panic("response: unknown OutOfRange policy")
	}

	return func(c *buildConfig) { c.policy = p }
}

// WithColumnNormalization makes Build divide every true-bin column by its
// sum (zero-sum columns untouched).
func WithColumnNormalization() Option {
	return func(c *buildConfig) { c.normalize = true }
}

// WithEventWeight sets the weight added per accepted event. Panics on a
// non-positive or infinite weight.
func WithEventWeight(w float64) Option {
	if !(w > 0) || math.IsInf(w, 1) {
		panic("response: WithEventWeight requires a finite w > 0")
	}

	return func(c *buildConfig) { c.weight = w }
}

// newBuildConfig applies opts in order over the defaults.
func newBuildConfig(opts ...Option) buildConfig {
	cfg := buildConfig{
		channel: AnyChannel,
		policy:  DropOutOfRange,
		weight:  defaultWeight,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
