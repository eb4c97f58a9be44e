// SPDX-License-Identifier: MIT

package histogram

import (
	"fmt"
	"math"
	"sort"
)

// Axis is an immutable ordered sequence of N+1 strictly increasing edges
// defining N bins. Bin i (1-based) spans [edge[i-1], edge[i]); bin 0 is the
// underflow and bin N+1 the overflow.
//
// The zero Axis is invalid; build one with NewAxis or NewUniformAxis.
type Axis struct {
	edges []float64
}

// NewAxis validates and copies edges.
//
// Errors:
//   - ErrInvalidAxis when len(edges) < 2, an edge is NaN/Inf, or edges are
//     not strictly increasing.
func NewAxis(edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf("%w: %d edges, need at least 2", ErrInvalidAxis, len(edges))
	}
	for k, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return Axis{}, fmt.Errorf("%w: edge[%d] = %v", ErrInvalidAxis, k, e)
		}
		if k > 0 && !(e > edges[k-1]) {
			return Axis{}, fmt.Errorf("%w: edge[%d] = %g not above edge[%d] = %g", ErrInvalidAxis, k, e, k-1, edges[k-1])
		}
	}
	cp := make([]float64, len(edges))
	copy(cp, edges)

	return Axis{edges: cp}, nil
}

// NewUniformAxis returns n equal-width bins over [lo, hi]. The last edge is
// exactly hi.
func NewUniformAxis(n int, lo, hi float64) (Axis, error) {
	if n < 1 {
		return Axis{}, fmt.Errorf("%w: %d bins", ErrInvalidAxis, n)
	}
	if !(hi > lo) {
		return Axis{}, fmt.Errorf("%w: range [%g, %g]", ErrInvalidAxis, lo, hi)
	}
	edges := make([]float64, n+1)
	w := (hi - lo) / float64(n)
	for k := 0; k < n; k++ {
		edges[k] = lo + float64(k)*w
	}
	edges[n] = hi

	return NewAxis(edges)
}

// Valid reports whether the axis was built by a constructor.
func (a Axis) Valid() bool { return len(a.edges) >= 2 }

// NBins returns N, the number of regular bins.
func (a Axis) NBins() int {
	if len(a.edges) < 2 {
		return 0
	}

	return len(a.edges) - 1
}

// Edges returns a copy of the N+1 edges.
func (a Axis) Edges() []float64 {
	cp := make([]float64, len(a.edges))
	copy(cp, a.edges)

	return cp
}

// Min returns the lower edge of bin 1.
func (a Axis) Min() float64 { return a.edges[0] }

// Max returns the upper edge of bin N.
func (a Axis) Max() float64 { return a.edges[len(a.edges)-1] }

// LowEdge returns the lower edge of bin i, or NaN outside [1, N].
func (a Axis) LowEdge(i int) float64 {
	if i < 1 || i > a.NBins() {
		return math.NaN()
	}

	return a.edges[i-1]
}

// UpEdge returns the upper edge of bin i, or NaN outside [1, N].
func (a Axis) UpEdge(i int) float64 {
	if i < 1 || i > a.NBins() {
		return math.NaN()
	}

	return a.edges[i]
}

// Center returns (edge[i-1]+edge[i])/2, or NaN outside [1, N].
func (a Axis) Center(i int) float64 {
	if i < 1 || i > a.NBins() {
		return math.NaN()
	}

	return 0.5 * (a.edges[i-1] + a.edges[i])
}

// Width returns edge[i]-edge[i-1], or NaN outside [1, N].
func (a Axis) Width(i int) float64 {
	if i < 1 || i > a.NBins() {
		return math.NaN()
	}

	return a.edges[i] - a.edges[i-1]
}

// FindBin locates x: 0 for x < Min, N+1 for x >= Max, otherwise the bin i
// with edge[i-1] <= x < edge[i]. NaN returns -1.
// Complexity: O(log N).
func (a Axis) FindBin(x float64) int {
	if math.IsNaN(x) || len(a.edges) < 2 {
		return -1
	}
	k := sort.SearchFloat64s(a.edges, x) // smallest k with edges[k] >= x
	if k < len(a.edges) && a.edges[k] == x {
		return k + 1
	}

	return k
}

// Centers returns the centers of all bins whose center is below cutoff.
// A negative cutoff returns every center.
func (a Axis) Centers(cutoff float64) []float64 {
	n := a.NBins()
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		c := a.Center(i)
		if cutoff >= 0 && c >= cutoff {
			continue
		}
		out = append(out, c)
	}

	return out
}

// String renders a short summary for logs.
func (a Axis) String() string {
	if !a.Valid() {
		return "Axis(invalid)"
	}

	return fmt.Sprintf("Axis(%d bins, [%g, %g))", a.NBins(), a.Min(), a.Max())
}
