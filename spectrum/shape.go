// SPDX-License-Identifier: MIT

package spectrum

import (
	"math"

	"github.com/katalvlaran/specunfold/histogram"
)

// MemoryMode controls how WarpDistance stores its DP matrix.
//
//   - FullMatrix: the entire (n+1)x(m+1) matrix, O(n·m) memory. Required
//     for ReturnPath.
//   - RollingArray: two rows, O(m) memory, distance only.
type MemoryMode int

const (
	// FullMatrix stores all rows and supports path recovery.
	FullMatrix MemoryMode = iota

	// RollingArray keeps the current and previous row.
	RollingArray
)

// ShapeOptions configures WarpDistance and ShapeDistance.
//
// Fields:
//   - Window: maximum |i-j| in bins (Sakoe-Chiba band); <= 0 means
//     unconstrained.
//   - SlopePenalty: cost added to every insertion or deletion step, so a
//     shift of the spectrum by k bins costs at least k·SlopePenalty.
//   - ReturnPath: backtrack the warping path; needs FullMatrix.
type ShapeOptions struct {
	Window       int
	SlopePenalty float64
	ReturnPath   bool
	MemoryMode   MemoryMode
}

// DefaultShapeOptions returns an unconstrained, distance-only setup.
func DefaultShapeOptions() ShapeOptions {
	return ShapeOptions{MemoryMode: RollingArray}
}

// ShapeMatch is the outcome of a shape comparison.
type ShapeMatch struct {
	Distance float64
	Path     [][2]int // 0-based (i, j) bin pairs, nil unless requested
}

// ShapeDistance compares the shapes of two spectra: both are scaled to unit
// width-weighted area and their regular-bin contents are aligned with
// WarpDistance. Binnings may differ; the comparison is bin-index based.
//
// Errors: ErrNilHistogram, ErrZeroArea, ErrPathNeedsFullMatrix.
func ShapeDistance(a, b *histogram.H1, opts ShapeOptions) (ShapeMatch, error) {
	if a == nil || b == nil {
		return ShapeMatch{}, ErrNilHistogram
	}
	ua, err := UnitArea(a)
	if err != nil {
		return ShapeMatch{}, err
	}
	ub, err := UnitArea(b)
	if err != nil {
		return ShapeMatch{}, err
	}
	d, path, err := WarpDistance(ua.Contents(), ub.Contents(), opts)
	if err != nil {
		return ShapeMatch{}, err
	}

	return ShapeMatch{Distance: d, Path: path}, nil
}

// WarpDistance computes the dynamic time warping distance between a and b.
//
// Algorithm:
//  1. D[0][0] = 0, D[i][0] = D[0][j] = +∞.
//  2. For i = 1..n, j = 1..m with |i-j| ≤ Window:
//     D[i][j] = |a[i-1]-b[j-1]| + min(D[i-1][j]+p, D[i][j-1]+p, D[i-1][j-1]).
//  3. distance = D[n][m]; +∞ when the window makes (n, m) unreachable.
//  4. With ReturnPath, backtrack from (n, m) through the cheapest
//     predecessor.
//
// Complexity: Time O(n·m), Memory O(n·m) or O(m).
func WarpDistance(a, b []float64, opts ShapeOptions) (float64, [][2]int, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptySequence
	}
	if opts.ReturnPath && opts.MemoryMode != FullMatrix {
		return 0, nil, ErrPathNeedsFullMatrix
	}
	window := opts.Window
	if window <= 0 {
		window = n + m
	}
	p := opts.SlopePenalty
	inf := math.Inf(1)

	rows := 2
	if opts.MemoryMode == FullMatrix {
		rows = n + 1
	}
	dp := make([][]float64, rows)
	for k := range dp {
		dp[k] = make([]float64, m+1)
	}
	row := func(i int) []float64 {
		if opts.MemoryMode == FullMatrix {
			return dp[i]
		}
		return dp[i%2]
	}
	for j := 1; j <= m; j++ {
		dp[0][j] = inf
	}

	for i := 1; i <= n; i++ {
		cur, prev := row(i), row(i-1)
		cur[0] = inf
		for j := 1; j <= m; j++ {
			if absInt(i-j) > window {
				cur[j] = inf
				continue
			}
			cur[j] = math.Abs(a[i-1]-b[j-1]) + min(prev[j]+p, cur[j-1]+p, prev[j-1])
		}
	}
	distance := row(n)[m]
	if !opts.ReturnPath || math.IsInf(distance, 1) {
		return distance, nil, nil
	}

	path := make([][2]int, 0, n+m)
	i, j := n, m
	for {
		path = append(path, [2]int{i - 1, j - 1})
		if i == 1 && j == 1 {
			break
		}
		bi, bj, best := i-1, j-1, inf
		if i > 1 && j > 1 {
			best = dp[i-1][j-1]
		}
		if i > 1 && dp[i-1][j]+p < best {
			bi, bj, best = i-1, j, dp[i-1][j]+p
		}
		if j > 1 && dp[i][j-1]+p < best {
			bi, bj = i, j-1
		}
		i, j = bi, bj
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return distance, path, nil
}

// absInt returns |x|.
func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
