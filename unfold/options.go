// SPDX-License-Identifier: MIT
// Package unfold: solver parameter sets.
// Each solver takes a plain struct (so the driver can decode it straight from
// configuration) with a Default* constructor mirroring the historical
// defaults and a validate method enforcing the hard preconditions.

package unfold

import "github.com/katalvlaran/specunfold/histogram"

// Historical defaults.
const (
	DefaultGenPerTrueBin = 1e7

	DefaultBayesMaxIter   = 30
	DefaultBayesTolerance = 1e-4

	DefaultGoldMaxIter   = 40
	DefaultGoldTolerance = 1e-6

	DefaultLinearMaxIter   = 50
	DefaultLinearMinIter   = 3
	DefaultLinearTolerance = 1e-3

	// DirectEpsilon is the clamp threshold of the stripping residual.
	DirectEpsilon = 1e-12
)

// PriorSpec is an optional initial guess on the true axis. Edges must match
// the response Y axis within histogram.EdgeTolerance; when Cutoff > 0 only
// edges ≤ Cutoff are compared.
type PriorSpec struct {
	Histogram *histogram.H1
	Cutoff    float64
}

// BayesOptions parameterizes Bayes.
type BayesOptions struct {
	GenPerTrueBin     float64   `koanf:"gen_per_true_bin"`
	MaxIter           int       `koanf:"max_iter"`
	Tolerance         float64   `koanf:"tolerance"`
	EnforcePositivity bool      `koanf:"enforce_positivity"`
	Prior             PriorSpec `koanf:"-"`
}

// DefaultBayesOptions returns the historical Bayes settings.
func DefaultBayesOptions() BayesOptions {
	return BayesOptions{
		GenPerTrueBin:     DefaultGenPerTrueBin,
		MaxIter:           DefaultBayesMaxIter,
		Tolerance:         DefaultBayesTolerance,
		EnforcePositivity: true,
	}
}

// Validate reports ErrBadParameter for a non-positive genPerTrueBin,
// maxIter or tolerance.
func (o BayesOptions) Validate() error {
	return validateIterative(MethodBayes, o.GenPerTrueBin, o.MaxIter, o.Tolerance)
}

// GoldOptions parameterizes Gold.
type GoldOptions struct {
	GenPerTrueBin     float64   `koanf:"gen_per_true_bin"`
	MaxIter           int       `koanf:"max_iter"`
	Tolerance         float64   `koanf:"tolerance"`
	EnforcePositivity bool      `koanf:"enforce_positivity"`
	Prior             PriorSpec `koanf:"-"`
}

// DefaultGoldOptions returns the historical Gold settings.
func DefaultGoldOptions() GoldOptions {
	return GoldOptions{
		GenPerTrueBin:     DefaultGenPerTrueBin,
		MaxIter:           DefaultGoldMaxIter,
		Tolerance:         DefaultGoldTolerance,
		EnforcePositivity: true,
	}
}

// Validate applies the Bayes parameter checks.
func (o GoldOptions) Validate() error {
	return validateIterative(MethodGold, o.GenPerTrueBin, o.MaxIter, o.Tolerance)
}

// LinearOptions parameterizes Linear. MinIter is clamped into [1, MaxIter].
type LinearOptions struct {
	MaxIter           int     `koanf:"max_iter"`
	MinIter           int     `koanf:"min_iter"`
	Tolerance         float64 `koanf:"tolerance"`
	NormalizeColumns  bool    `koanf:"normalize_columns"`
	EnforcePositivity bool    `koanf:"enforce_positivity"`
}

// DefaultLinearOptions returns the historical Linear settings.
func DefaultLinearOptions() LinearOptions {
	return LinearOptions{
		MaxIter:           DefaultLinearMaxIter,
		MinIter:           DefaultLinearMinIter,
		Tolerance:         DefaultLinearTolerance,
		NormalizeColumns:  true,
		EnforcePositivity: true,
	}
}

// Validate rejects a non-positive maxIter or tolerance.
func (o LinearOptions) Validate() error {
	return validateIterative(MethodLinear, 1, o.MaxIter, o.Tolerance)
}

// minIter returns MinIter clamped into [1, MaxIter].
func (o LinearOptions) minIter() int {
	switch {
	case o.MinIter < 1:
		return 1
	case o.MinIter > o.MaxIter:
		return o.MaxIter
	default:
		return o.MinIter
	}
}

// DirectOptions parameterizes Direct.
//
// SkipEfficiencyDivision drops the second division by eff(i). Use it for a
// causal response whose diagonal already carries the efficiency.
type DirectOptions struct {
	GenPerTrueBin          float64 `koanf:"gen_per_true_bin"`
	EnforcePositivity      bool    `koanf:"enforce_positivity"`
	SkipEfficiencyDivision bool    `koanf:"skip_efficiency_division"`
}

// DefaultDirectOptions returns the historical Direct settings.
func DefaultDirectOptions() DirectOptions {
	return DirectOptions{
		GenPerTrueBin:     DefaultGenPerTrueBin,
		EnforcePositivity: true,
	}
}

// Validate rejects a non-positive genPerTrueBin.
func (o DirectOptions) Validate() error {
	if !(o.GenPerTrueBin > 0) {
		return invalidf(MethodDirect, ErrBadParameter, "genPerTrueBin must be > 0, got %g", o.GenPerTrueBin)
	}

	return nil
}

// validateIterative checks the parameters shared by the iterative solvers.
// NaN fails every comparison below.
func validateIterative(m Method, gen float64, maxIter int, tol float64) error {
	if !(gen > 0) {
		return invalidf(m, ErrBadParameter, "genPerTrueBin must be > 0, got %g", gen)
	}
	if maxIter <= 0 {
		return invalidf(m, ErrBadParameter, "maxIter must be > 0, got %d", maxIter)
	}
	if !(tol > 0) {
		return invalidf(m, ErrBadParameter, "tolerance must be > 0, got %g", tol)
	}

	return nil
}
