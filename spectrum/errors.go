// SPDX-License-Identifier: MIT

package spectrum

import "errors"

var (
	// ErrNilHistogram indicates a nil *histogram.H1 argument.
	ErrNilHistogram = errors.New("spectrum: nil histogram")

	// ErrBadRange indicates a bin range that selects no regular bin.
	ErrBadRange = errors.New("spectrum: empty bin range")

	// ErrBinCountMismatch indicates two histograms with different bin counts.
	ErrBinCountMismatch = errors.New("spectrum: bin count mismatch")

	// ErrBadParameter indicates a non-positive normalization or width unit.
	ErrBadParameter = errors.New("spectrum: bad parameter")

	// ErrEmptySequence indicates a shape comparison on an empty spectrum.
	ErrEmptySequence = errors.New("spectrum: input sequences must be non-empty")

	// ErrPathNeedsFullMatrix indicates that path recovery requires FullMatrix mode.
	ErrPathNeedsFullMatrix = errors.New("spectrum: ReturnPath requires MemoryMode=FullMatrix")

	// ErrZeroArea indicates a spectrum whose width-weighted integral is zero.
	ErrZeroArea = errors.New("spectrum: zero area")
)
