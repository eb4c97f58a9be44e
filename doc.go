// SPDX-License-Identifier: MIT

// Package specunfold recovers true energy spectra from spectra measured by
// an imperfect detector.
//
// A detector smears every deposited energy and misses some events. Given
// simulated (Etrue, Emeas) pairs, specunfold builds the response matrix
// R(Emeas, Etrue) and inverts it with iterative and direct methods.
//
// 🚀 What is inside?
//
//	histogram/ - 1D and 2D histograms with explicit under/overflow slots
//	response/  - resolution-aware binning and response matrix filling
//	unfold/    - Bayes, Gold, Linear and Direct solvers plus refolding
//	spectrum/  - per-event normalization, integrals, ratios and shape distance
//	synth/     - synthetic event generation for tests and response studies
//	matrix/    - dense linear algebra and statistics behind the solvers
//
// The command line driver in cmd/specunfold wires these together around
// YAML configuration and ROOT/YODA/JSON histogram files:
//
//	specunfold synth --per-bin 10000 -o resp_events.root
//	specunfold response resp_events.root -o resp.root
//	specunfold unfold -m data.root:hEmeas -r resp.root:response -o out.root
//	specunfold analyze out.root:unfolded_bayes --ref out.root:unfolded_gold
//
// Conventions shared by every package:
//
//   - Bins are 1-based; slot 0 is the underflow and slot N+1 the overflow.
//   - X is the measured axis, Y the true axis of a response matrix.
//   - Functions never modify their inputs and return freshly allocated
//     histograms.
//
// Install with:
//
//	go get github.com/katalvlaran/specunfold
package specunfold
