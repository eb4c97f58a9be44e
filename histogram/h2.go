// SPDX-License-Identifier: MIT

package histogram

import (
	"fmt"
	"math"

	"github.com/katalvlaran/specunfold/matrix"
)

// H2 is a two-dimensional histogram. X is the measured axis and Y the true
// axis when the histogram holds a response matrix: R(i,j) is the content at
// measured bin i, true bin j.
//
// Storage is a (NX+2)×(NY+2) matrix.Dense whose row index is the X slot and
// column index the Y slot, so flows are kept on both axes.
type H2 struct {
	x, y Axis
	m    *matrix.Dense
}

// NewH2 allocates a zeroed histogram.
//
// Errors: ErrInvalidAxis for a zero Axis.
func NewH2(x, y Axis) (*H2, error) {
	if !x.Valid() || !y.Valid() {
		return nil, ErrInvalidAxis
	}
	m, err := matrix.NewDense(x.NBins()+2, y.NBins()+2)
	if err != nil {
		return nil, fmt.Errorf("H2: %w", err)
	}

	return &H2{x: x, y: y, m: m}, nil
}

// XAxis returns the X (measured) binning.
func (h *H2) XAxis() Axis { return h.x }

// YAxis returns the Y (true) binning.
func (h *H2) YAxis() Axis { return h.y }

// NX returns the number of regular X bins.
func (h *H2) NX() int { return h.x.NBins() }

// NY returns the number of regular Y bins.
func (h *H2) NY() int { return h.y.NBins() }

// At returns the content of slot (ix, iy), flows included.
//
// Errors: ErrOutOfRange.
func (h *H2) At(ix, iy int) (float64, error) {
	v, err := h.m.At(ix, iy)
	if err != nil {
		return 0, fmt.Errorf("H2.At: %w: %w", ErrOutOfRange, err)
	}

	return v, nil
}

// Set writes the content of slot (ix, iy).
//
// Errors: ErrOutOfRange, ErrNaN.
func (h *H2) Set(ix, iy int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("H2.Set(%d,%d): %w", ix, iy, ErrNaN)
	}
	if err := h.m.Set(ix, iy, v); err != nil {
		return fmt.Errorf("H2.Set: %w: %w", ErrOutOfRange, err)
	}

	return nil
}

// Fill accumulates w at (xv, yv) and returns the slots it landed in.
// Coordinates outside an axis land in the flow slots. NaN coordinates or a
// non-finite weight are ignored and (-1, -1, nil) is returned. A sum that
// would overflow to ±Inf leaves the slot unchanged and returns ErrNaN.
func (h *H2) Fill(xv, yv, w float64) (int, int, error) {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return -1, -1, nil
	}
	ix, iy := h.x.FindBin(xv), h.y.FindBin(yv)
	if ix < 0 || iy < 0 {
		return -1, -1, nil
	}
	if err := h.m.AddAt(ix, iy, w); err != nil {
		return -1, -1, fmt.Errorf("H2.Fill(%d,%d): %w: %w", ix, iy, ErrNaN, err)
	}

	return ix, iy, nil
}

// Matrix returns an NX×NY copy of the regular bins: element (i-1, j-1) is
// the content of slot (i, j).
func (h *H2) Matrix() *matrix.Dense {
	nx, ny := h.NX(), h.NY()
	raw := h.m.RawRowMajor()
	stride := ny + 2
	data := make([]float64, 0, nx*ny)
	for i := 1; i <= nx; i++ {
		data = append(data, raw[i*stride+1:i*stride+1+ny]...)
	}
	out, _ := matrix.NewDenseFrom(nx, ny, data) // shape and finiteness hold by construction

	return out
}

// SetMatrix overwrites the regular bins from an NX×NY matrix. Flows are kept.
//
// Errors: ErrBinningMismatch for a wrong shape, ErrNaN for non-finite data.
func (h *H2) SetMatrix(m matrix.Matrix) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("H2.SetMatrix: %w", err)
	}
	if m.Rows() != h.NX() || m.Cols() != h.NY() {
		return fmt.Errorf("H2.SetMatrix: %dx%d for %dx%d bins: %w", m.Rows(), m.Cols(), h.NX(), h.NY(), ErrBinningMismatch)
	}
	next := h.m.Clone().(*matrix.Dense)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return fmt.Errorf("H2.SetMatrix: %w", err)
			}
			if err = next.Set(i+1, j+1, v); err != nil {
				return fmt.Errorf("H2.SetMatrix: %w: %w", ErrNaN, err)
			}
		}
	}
	h.m = next

	return nil
}

// ProjectionX sums the regular Y bins for every X slot.
func (h *H2) ProjectionX() *H1 {
	p, _ := NewH1(h.x)
	rs, _ := matrix.RowSums(h.Matrix())
	copy(p.content[1:], rs)

	return p
}

// ProjectionY sums the regular X bins for every Y slot.
func (h *H2) ProjectionY() *H1 {
	p, _ := NewH1(h.y)
	cs, _ := matrix.ColSums(h.Matrix())
	copy(p.content[1:], cs)

	return p
}

// Sum returns the sum of the regular bins.
func (h *H2) Sum() float64 {
	s, _ := matrix.Sum(h.Matrix())

	return s
}

// Clone returns a deep copy sharing only the immutable axes.
func (h *H2) Clone() *H2 {
	return &H2{x: h.x, y: h.y, m: h.m.Clone().(*matrix.Dense)}
}
