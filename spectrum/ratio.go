// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"

	"github.com/katalvlaran/specunfold/histogram"
)

// SafeRatio divides num by den slot by slot (flows included), writing 0
// wherever den ≤ 0. The returned mean averages the ratio over the bins of r
// that had a positive denominator, or is 0 when there are none. The ratio
// carries no errors and lives on num's axis.
//
// Errors: ErrNilHistogram, ErrBinCountMismatch, ErrBadRange.
func SafeRatio(num, den *histogram.H1, r BinRange) (*histogram.H1, float64, error) {
	if num == nil || den == nil {
		return nil, 0, ErrNilHistogram
	}
	if num.NBins() != den.NBins() {
		return nil, 0, fmt.Errorf("%w: %d vs %d", ErrBinCountMismatch, num.NBins(), den.NBins())
	}
	first, last, err := r.resolve(num.NBins())
	if err != nil {
		return nil, 0, err
	}
	out, err := histogram.NewH1(num.Axis())
	if err != nil {
		return nil, 0, err
	}

	var sum float64
	var valid int
	for i := 0; i <= num.NBins()+1; i++ {
		d, _ := den.At(i)
		if d <= 0 {
			continue
		}
		n, _ := num.At(i)
		q := n / d
		if err = out.Set(i, q); err != nil {
			return nil, 0, err
		}
		if i >= first && i <= last {
			sum += q
			valid++
		}
	}
	if valid == 0 {
		return out, 0, nil
	}

	return out, sum / float64(valid), nil
}
