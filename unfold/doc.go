// Package unfold estimates a true spectrum from a measured spectrum and a
// detector response matrix.
//
// Four peer solvers share one calling convention, func(measured, response,
// options) (*Result, error):
//
//   - Bayes: iterative Bayesian unfolding on the column-normalized response,
//     renormalized to the measured intensity after every step.
//   - Gold: multiplicative iteration on the absolute response R/gen.
//   - Linear: additive back-projection bounded by the response 1-norm, with
//     a minimum-iteration floor before stopping.
//   - Direct: a single top-down stripping pass for causal responses.
//
// Conventions:
//
//   - measured lives on the response X (measured) axis; the unfolded
//     spectrum is returned on the response Y (true) axis.
//   - Inputs are never modified; every histogram in a Result is freshly
//     allocated and owned by the caller.
//   - Hard failures (nil input, axis mismatch, bad parameter, degenerate
//     response) return ErrInvalidInput joined with a specific cause and a
//     nil Result. Zero columns, zero efficiencies and zero denominators are
//     handled locally per solver and never surface as errors.
//   - Running out of iterations is not an error: Result.Converged is false.
//   - A prior that does not sit on the true axis is ignored and reported in
//     Result.PriorRejected; it is never rebinned.
//
// The package does no I/O and no logging. Solvers are synchronous and share
// no state, so independent runs may execute concurrently.
package unfold
