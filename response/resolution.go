// SPDX-License-Identifier: MIT

package response

import (
	"fmt"
	"math"
)

const (
	// FirstBinWidth is the width of the first resolution bin: edge[1] = Emin + 11.
	FirstBinWidth = 11.0

	// MaxResolutionBins caps both the center-cutoff recurrence and the bin
	// count accepted by ResolutionEdges.
	MaxResolutionBins = 20000
)

// ResolutionParams are the per-channel constants of the resolution model:
// a bin starting at E has width A·E^Power·E.
type ResolutionParams struct {
	A     float64 `toml:"a" json:"a"`
	Power float64 `toml:"power" json:"power"`
}

// Validate applies the model range check A != 0, A < 100, power != 0,
// power < 1.
func (p ResolutionParams) Validate() error {
	if math.IsNaN(p.A) || math.IsNaN(p.Power) || p.A == 0 || p.A >= 100 || p.Power == 0 || p.Power >= 1 {
		return fmt.Errorf("%w: A=%g power=%g", ErrInvalidResolution, p.A, p.Power)
	}

	return nil
}

// Width returns A·E^Power·E: the width of the resolution bin starting at e,
// which the model also takes as the FWHM of a line at e.
func (p ResolutionParams) Width(e float64) float64 {
	return p.A * math.Pow(e, p.Power) * e
}

// ResolutionEdges returns nbins+1 edges: edge[0] = emin, edge[1] = emin+11,
// edge[i] = edge[i-1] + A·edge[i-1]^power·edge[i-1].
//
// Errors:
//   - ErrInvalidBinning for nbins outside [1, MaxResolutionBins] or a
//     non-finite emin.
//   - ErrInvalidResolution for parameters failing Validate, or when the
//     recurrence stops producing strictly increasing finite edges.
func ResolutionEdges(emin float64, p ResolutionParams, nbins int) ([]float64, error) {
	if nbins < 1 || nbins > MaxResolutionBins || math.IsNaN(emin) || math.IsInf(emin, 0) {
		return nil, fmt.Errorf("%w: emin=%g nbins=%d", ErrInvalidBinning, emin, nbins)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	edges := make([]float64, 0, nbins+1)
	edges = append(edges, emin, emin+FirstBinWidth)
	for i := 2; i <= nbins; i++ {
		prev := edges[i-1]
		next := prev + p.Width(prev)
		if !(next > prev) || math.IsInf(next, 0) {
			return nil, fmt.Errorf("%w: edge[%d] = %g after %g", ErrInvalidResolution, i, next, prev)
		}
		edges = append(edges, next)
	}

	return edges, nil
}

// CenterEdges is the result of ResolutionEdgesUpToCenter.
type CenterEdges struct {
	Edges     []float64
	Truncated bool // the MaxResolutionBins cap stopped the recurrence
}

// ResolutionEdgesUpToCenter grows the resolution recurrence until the
// center of the next bin would reach cutoff; that bin is not added. The
// recurrence stops with Truncated set once the edge count exceeds
// MaxResolutionBins.
//
// Errors:
//   - ErrNoBins when the first bin center is already >= cutoff.
//   - ErrInvalidBinning, ErrInvalidResolution as for ResolutionEdges.
func ResolutionEdgesUpToCenter(emin, cutoff float64, p ResolutionParams) (CenterEdges, error) {
	if math.IsNaN(emin) || math.IsInf(emin, 0) || math.IsNaN(cutoff) {
		return CenterEdges{}, fmt.Errorf("%w: emin=%g cutoff=%g", ErrInvalidBinning, emin, cutoff)
	}
	if err := p.Validate(); err != nil {
		return CenterEdges{}, err
	}
	edges := []float64{emin, emin + FirstBinWidth}
	if 0.5*(edges[0]+edges[1]) >= cutoff {
		return CenterEdges{}, fmt.Errorf("%w: first center %g, cutoff %g", ErrNoBins, 0.5*(edges[0]+edges[1]), cutoff)
	}

	for {
		prev := edges[len(edges)-1]
		next := prev + p.Width(prev)
		if !(next > prev) || math.IsInf(next, 0) {
			return CenterEdges{}, fmt.Errorf("%w: edge after %g = %g", ErrInvalidResolution, prev, next)
		}
		if 0.5*(prev+next) >= cutoff {
			break
		}
		edges = append(edges, next)
		if len(edges) > MaxResolutionBins {
			return CenterEdges{Edges: edges, Truncated: true}, nil
		}
	}

	return CenterEdges{Edges: edges}, nil
}
