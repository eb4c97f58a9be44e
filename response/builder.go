// SPDX-License-Identifier: MIT

package response

import (
	"fmt"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/matrix"
)

// Stats counts what Build did with its input.
type Stats struct {
	Accepted int // events filled into the matrix
	Dropped  int // events outside an axis under DropOutOfRange
	Filtered int // events rejected by the channel filter, with a NaN energy or overflowing their bin
}

// Build fills a response matrix from events: every accepted event adds
// its weight at (bin(EMeas) on x, bin(ETrue) on y). x is the measured axis
// and y the true axis.
//
// Implementation:
//   - Stage 1: apply the channel filter.
//   - Stage 2: locate both bins; apply the out-of-range policy.
//   - Stage 3: optionally column-normalize the regular bins.
//
// Errors:
//   - histogram.ErrInvalidAxis for an invalid axis.
func Build(events []Event, x, y histogram.Axis, opts ...Option) (*histogram.H2, Stats, error) {
	cfg := newBuildConfig(opts...)
	h, err := histogram.NewH2(x, y)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("response.Build: %w", err)
	}

	var st Stats
	nx, ny := x.NBins(), y.NBins()
	for _, ev := range events {
		if cfg.channel != AnyChannel && ev.Channel != cfg.channel {
			st.Filtered++
			continue
		}
		ix, iy := x.FindBin(ev.EMeas), y.FindBin(ev.ETrue)
		if ix < 0 || iy < 0 {
			st.Filtered++
			continue
		}
		outside := ix == 0 || ix == nx+1 || iy == 0 || iy == ny+1
		if outside && cfg.policy == DropOutOfRange {
			st.Dropped++
			continue
		}
		if _, _, err = h.Fill(ev.EMeas, ev.ETrue, cfg.weight); err != nil {
			st.Filtered++
			continue
		}
		st.Accepted++
	}

	if cfg.normalize {
		if h, err = NormalizeColumns(h); err != nil {
			return nil, st, err
		}
	}

	return h, st, nil
}

// NormalizeColumns returns a copy of r whose regular columns (fixed true
// bin) sum to one over the regular measured bins. Columns with a zero sum
// are left untouched; callers dividing by a column sum must guard them.
// Flow slots are copied unchanged.
//
// Errors: histogram.ErrNilHistogram.
func NormalizeColumns(r *histogram.H2) (*histogram.H2, error) {
	if r == nil {
		return nil, histogram.ErrNilHistogram
	}
	norm, _, err := matrix.NormalizeColumns(r.Matrix())
	if err != nil {
		return nil, fmt.Errorf("response.NormalizeColumns: %w", err)
	}
	out := r.Clone()
	if err = out.SetMatrix(norm); err != nil {
		return nil, fmt.Errorf("response.NormalizeColumns: %w", err)
	}

	return out, nil
}

// Efficiency returns eff(j) = Σ_i R(i,j)/gen over the regular measured
// bins, the fraction of generated true-bin-j events seen anywhere.
//
// Errors: histogram.ErrNilHistogram, ErrInvalidGeneration.
func Efficiency(r *histogram.H2, gen float64) ([]float64, error) {
	if r == nil {
		return nil, histogram.ErrNilHistogram
	}
	if !(gen > 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidGeneration, gen)
	}
	sums, err := matrix.ColSums(r.Matrix())
	if err != nil {
		return nil, err
	}
	for j := range sums {
		sums[j] /= gen
	}

	return sums, nil
}
