// SPDX-License-Identifier: MIT

package response

import "errors"

var (
	// ErrInvalidResolution indicates resolution constants outside the
	// accepted model range (A != 0, A < 100, power != 0, power < 1) or
	// a recurrence that stops increasing.
	ErrInvalidResolution = errors.New("response: invalid resolution parameters")

	// ErrInvalidBinning indicates a non-positive bin count, a non-finite
	// Emin or an Emin above the cutoff.
	ErrInvalidBinning = errors.New("response: invalid binning request")

	// ErrUnknownChannel indicates a ResolutionTable lookup miss.
	ErrUnknownChannel = errors.New("response: unknown resolution channel")

	// ErrEmptyTable indicates a ResolutionTable built from no entries.
	ErrEmptyTable = errors.New("response: empty resolution table")

	// ErrInvalidGeneration indicates a non-positive generated-events-per-bin count.
	ErrInvalidGeneration = errors.New("response: genPerTrueBin must be > 0")

	// ErrNoBins indicates that the first resolution bin already has its
	// center at or above the cutoff, so no bin can be produced.
	ErrNoBins = errors.New("response: no bin center below cutoff")
)
