// SPDX-License-Identifier: MIT
// Package histogram: sentinel error set.

package histogram

import "errors"

var (
	// ErrInvalidAxis is returned for axes with fewer than two edges, non
	// strictly increasing edges or non-finite edges.
	ErrInvalidAxis = errors.New("histogram: invalid axis")

	// ErrNilHistogram indicates a nil *H1 or *H2 argument.
	ErrNilHistogram = errors.New("histogram: nil histogram")

	// ErrOutOfRange indicates a bin index outside [0, N+1].
	ErrOutOfRange = errors.New("histogram: bin index out of range")

	// ErrNaN indicates a NaN or ±Inf content, error or coordinate.
	ErrNaN = errors.New("histogram: NaN or Inf value")

	// ErrNegativeError indicates a negative per-bin uncertainty.
	ErrNegativeError = errors.New("histogram: negative bin error")

	// ErrLengthMismatch indicates a bulk setter received the wrong number of values.
	ErrLengthMismatch = errors.New("histogram: length mismatch")

	// ErrBinningMismatch indicates two axes that were required to agree do not.
	ErrBinningMismatch = errors.New("histogram: binning mismatch")

	// ErrEmptyRange indicates a sub-range selection that contains no bins.
	ErrEmptyRange = errors.New("histogram: empty bin range")
)
