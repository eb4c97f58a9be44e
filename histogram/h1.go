// SPDX-License-Identifier: MIT

package histogram

import (
	"fmt"
	"math"
)

// H1 is a one-dimensional binned histogram with per-bin errors.
//
// Contents and errors are stored for N+2 slots: index 0 is the underflow,
// 1..N the regular bins, N+1 the overflow. Errors are always >= 0.
// H1 is not safe for concurrent mutation; solvers clone before writing.
type H1 struct {
	axis    Axis
	content []float64
	errs    []float64
}

// NewH1 allocates a zeroed histogram on axis.
//
// Errors:
//   - ErrInvalidAxis for the zero Axis.
func NewH1(axis Axis) (*H1, error) {
	if !axis.Valid() {
		return nil, ErrInvalidAxis
	}
	n := axis.NBins() + 2

	return &H1{
		axis:    axis,
		content: make([]float64, n),
		errs:    make([]float64, n),
	}, nil
}

// NewH1FromEdges is NewAxis followed by NewH1.
func NewH1FromEdges(edges []float64) (*H1, error) {
	a, err := NewAxis(edges)
	if err != nil {
		return nil, err
	}

	return NewH1(a)
}

// Axis returns the binning.
func (h *H1) Axis() Axis { return h.axis }

// NBins returns the number of regular bins.
func (h *H1) NBins() int { return h.axis.NBins() }

// checkIndex validates a slot index in [0, N+1].
func (h *H1) checkIndex(method string, i int) error {
	if i < 0 || i >= len(h.content) {
		return fmt.Errorf("H1.%s(%d): %w", method, i, ErrOutOfRange)
	}

	return nil
}

// At returns the content of slot i (0 and N+1 are the flows).
func (h *H1) At(i int) (float64, error) {
	if err := h.checkIndex("At", i); err != nil {
		return 0, err
	}

	return h.content[i], nil
}

// Err returns the error of slot i.
func (h *H1) Err(i int) (float64, error) {
	if err := h.checkIndex("Err", i); err != nil {
		return 0, err
	}

	return h.errs[i], nil
}

// Set writes the content of slot i.
//
// Errors: ErrOutOfRange, ErrNaN.
func (h *H1) Set(i int, v float64) error {
	if err := h.checkIndex("Set", i); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("H1.Set(%d): %w", i, ErrNaN)
	}
	h.content[i] = v

	return nil
}

// SetErr writes the error of slot i.
//
// Errors: ErrOutOfRange, ErrNaN, ErrNegativeError.
func (h *H1) SetErr(i int, e float64) error {
	if err := h.checkIndex("SetErr", i); err != nil {
		return err
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return fmt.Errorf("H1.SetErr(%d): %w", i, ErrNaN)
	}
	if e < 0 {
		return fmt.Errorf("H1.SetErr(%d): %g: %w", i, e, ErrNegativeError)
	}
	h.errs[i] = e

	return nil
}

// Fill accumulates weight w at x: content += w, error = sqrt(error² + w²).
// Values outside the axis land in the flow slots. A NaN x or non-finite w
// is ignored and -1 is returned; otherwise the slot index is returned.
func (h *H1) Fill(x, w float64) int {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return -1
	}
	i := h.axis.FindBin(x)
	if i < 0 {
		return -1
	}
	h.content[i] += w
	h.errs[i] = math.Hypot(h.errs[i], w)

	return i
}

// Contents returns a copy of the N regular-bin contents (index 0 is bin 1).
func (h *H1) Contents() []float64 {
	out := make([]float64, h.NBins())
	copy(out, h.content[1:len(h.content)-1])

	return out
}

// Errors returns a copy of the N regular-bin errors (index 0 is bin 1).
func (h *H1) Errors() []float64 {
	out := make([]float64, h.NBins())
	copy(out, h.errs[1:len(h.errs)-1])

	return out
}

// SetContents overwrites the N regular-bin contents. Flows are untouched.
//
// Errors: ErrLengthMismatch, ErrNaN (histogram unchanged on error).
func (h *H1) SetContents(v []float64) error {
	if len(v) != h.NBins() {
		return fmt.Errorf("H1.SetContents: %d values for %d bins: %w", len(v), h.NBins(), ErrLengthMismatch)
	}
	for k, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("H1.SetContents[%d]: %w", k, ErrNaN)
		}
	}
	copy(h.content[1:], v)

	return nil
}

// SetErrors overwrites the N regular-bin errors. Flows are untouched.
//
// Errors: ErrLengthMismatch, ErrNaN, ErrNegativeError.
func (h *H1) SetErrors(e []float64) error {
	if len(e) != h.NBins() {
		return fmt.Errorf("H1.SetErrors: %d values for %d bins: %w", len(e), h.NBins(), ErrLengthMismatch)
	}
	for k, x := range e {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("H1.SetErrors[%d]: %w", k, ErrNaN)
		}
		if x < 0 {
			return fmt.Errorf("H1.SetErrors[%d]: %g: %w", k, x, ErrNegativeError)
		}
	}
	copy(h.errs[1:], e)

	return nil
}

// Underflow returns the content of slot 0.
func (h *H1) Underflow() float64 { return h.content[0] }

// Overflow returns the content of slot N+1.
func (h *H1) Overflow() float64 { return h.content[len(h.content)-1] }

// Sum returns the sum of the regular-bin contents (flows excluded).
func (h *H1) Sum() float64 {
	s := 0.0
	for _, v := range h.content[1 : len(h.content)-1] {
		s += v
	}

	return s
}

// Scale multiplies contents by f and errors by |f|, flows included.
func (h *H1) Scale(f float64) {
	af := math.Abs(f)
	for k := range h.content {
		h.content[k] *= f
		h.errs[k] *= af
	}
}

// Reset zeroes all contents and errors.
func (h *H1) Reset() {
	for k := range h.content {
		h.content[k] = 0
		h.errs[k] = 0
	}
}

// Clone returns a deep copy sharing only the immutable axis.
func (h *H1) Clone() *H1 {
	c := &H1{
		axis:    h.axis,
		content: make([]float64, len(h.content)),
		errs:    make([]float64, len(h.errs)),
	}
	copy(c.content, h.content)
	copy(c.errs, h.errs)

	return c
}
