// SPDX-License-Identifier: MIT

package response

import (
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/specunfold/histogram"
)

// Profile summarizes the measured energies of the events generated in one
// true bin.
type Profile struct {
	Bin    int     // 1-based true bin
	Center float64 // true bin center
	N      int     // accepted events
	Mean   float64 // mean measured energy (0 when N == 0)
	RMS    float64 // population standard deviation of the measured energy
}

// Profiles returns one Profile per regular true bin of y. Only events whose
// measured energy lies inside x and true energy inside y contribute; the
// channel filter of opts applies, the other options are ignored.
func Profiles(events []Event, x, y histogram.Axis, opts ...Option) []Profile {
	cfg := newBuildConfig(opts...)
	ny := y.NBins()
	meas := make([][]float64, ny+2)

	for _, ev := range events {
		if cfg.channel != AnyChannel && ev.Channel != cfg.channel {
			continue
		}
		ix, iy := x.FindBin(ev.EMeas), y.FindBin(ev.ETrue)
		if ix < 1 || ix > x.NBins() || iy < 1 || iy > ny {
			continue
		}
		meas[iy] = append(meas[iy], ev.EMeas)
	}

	out := make([]Profile, ny)
	for j := 1; j <= ny; j++ {
		p := Profile{Bin: j, Center: y.Center(j), N: len(meas[j])}
		switch {
		case p.N == 1:
			p.Mean = meas[j][0]
		case p.N > 1:
			p.Mean, p.RMS = stat.PopMeanStdDev(meas[j], nil)
		}
		out[j-1] = p
	}

	return out
}
