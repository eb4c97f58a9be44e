// SPDX-License-Identifier: MIT

package unfold

import "github.com/katalvlaran/specunfold/histogram"

// Method names a solver.
type Method string

const (
	MethodBayes  Method = "bayes"
	MethodGold   Method = "gold"
	MethodLinear Method = "linear"
	MethodDirect Method = "direct"
)

// Methods lists every solver in a stable order.
func Methods() []Method {
	return []Method{MethodBayes, MethodGold, MethodLinear, MethodDirect}
}

// ParseMethod maps a name to a Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods() {
		if string(m) == s {
			return m, nil
		}
	}

	return "", invalidf("ParseMethod", ErrBadParameter, "unknown method %q", s)
}

// TracePoint is one iteration of a solver's goodness-of-fit trace.
type TracePoint struct {
	Iteration    int     // 1-based
	Chi2         float64 // Σ (m − prediction)² / variance
	Chi2PerPoint float64 // Chi2 / Points (0 when Points == 0)
	Points       int     // bins that entered the sum
}

// Chi2PerNDF returns Chi2 / max(Points−1, 1).
func (p TracePoint) Chi2PerNDF() float64 {
	ndf := p.Points - 1
	if ndf < 1 {
		ndf = 1
	}

	return p.Chi2 / float64(ndf)
}

// Trace is the ordered per-iteration history of an iterative solver.
// Diagnostic only.
type Trace []TracePoint

// Last returns the final point, if any.
func (t Trace) Last() (TracePoint, bool) {
	if len(t) == 0 {
		return TracePoint{}, false
	}

	return t[len(t)-1], true
}

// Chi2 returns the chi2 column of the trace.
func (t Trace) Chi2() []float64 {
	out := make([]float64, len(t))
	for k, p := range t {
		out[k] = p.Chi2
	}

	return out
}

// Chi2PerPoint returns the chi2/point column of the trace.
func (t Trace) Chi2PerPoint() []float64 {
	out := make([]float64, len(t))
	for k, p := range t {
		out[k] = p.Chi2PerPoint
	}

	return out
}

// Result is everything a solver hands back. The caller owns every histogram
// in it; nothing aliases solver-internal state or the inputs.
type Result struct {
	Method Method

	// Unfolded lives on the response Y (true) axis.
	Unfolded *histogram.H1

	// Refolded lives on the response X (measured) axis: the final prediction
	// of the solver's working matrix applied to Unfolded.
	Refolded *histogram.H1

	// Residual is the final stripping source (Direct only).
	Residual *histogram.H1

	// Trace is empty for Direct.
	Trace      Trace
	Iterations int
	Converged  bool

	// PriorUsed reports whether the supplied prior seeded the iteration.
	// PriorRejected explains why a supplied prior was not used.
	PriorUsed     bool
	PriorRejected error

	// Efficiency is eff(j) = Σ_i A(i,j) of the working matrix.
	Efficiency []float64
}
