// SPDX-License-Identifier: MIT
// Package unfold: sentinel error set.
// Solvers return ErrInvalidInput joined with a specific cause, so callers can
// match either the family or the exact reason with errors.Is.

package unfold

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the family of every hard input failure. A solver that
	// returns it returns a nil *Result.
	ErrInvalidInput = errors.New("unfold: invalid input")

	// ErrNilInput indicates a nil measured spectrum or response.
	ErrNilInput = errors.New("unfold: nil histogram")

	// ErrAxisMismatch indicates that the measured spectrum and the response X
	// axis disagree on the number of bins (or the spectrum handed to Refold
	// does not match the response Y axis).
	ErrAxisMismatch = errors.New("unfold: axis bin count mismatch")

	// ErrBadParameter indicates a non-positive tolerance, iteration cap or
	// generation count.
	ErrBadParameter = errors.New("unfold: bad parameter")

	// ErrDegenerateResponse indicates a response with zero operator norm.
	ErrDegenerateResponse = errors.New("unfold: degenerate response")

	// ErrPriorMismatch is carried by Result.PriorRejected when the supplied
	// prior does not match the true axis. It never fails a run.
	ErrPriorMismatch = errors.New("unfold: prior binning mismatch")

	// ErrPriorEmpty is carried by Result.PriorRejected when the prior has no
	// positive content left after clipping.
	ErrPriorEmpty = errors.New("unfold: prior has no positive content")
)

// invalidf joins ErrInvalidInput with a specific cause and a method tag.
func invalidf(m Method, cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w: %s", m, ErrInvalidInput, cause, fmt.Sprintf(format, args...))
}
