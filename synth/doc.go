// SPDX-License-Identifier: MIT
// Package synth generates reproducible synthetic detector events: true
// energies drawn from gamma lines and flat continua, a detection efficiency,
// and Gaussian smearing taken from the resolution model
// (σ = A·E^power·E / 2.355).
//
// The generator feeds response.Build in tests and examples, and the synth
// command writes its events to disk.
//
// Determinism:
//   - Every Generator owns its RNG. WithSeed makes a run reproducible;
//     without it the seed is DefaultSeed.
//   - Options validate and PANIC on meaningless inputs. Sample never panics.
package synth
