package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/config"
	"github.com/katalvlaran/specunfold/response"
)

// Binning describes how the response axis was obtained.
type Binning struct {
	Axis      histogram.Axis
	Detector  string
	Uniform   bool // resolution binning unavailable, uniform fallback used
	Truncated bool // the center-cutoff recurrence hit its bin cap
}

// ResolveBinning builds the response axis for b. Resolution binning is used
// when b.Detector is in table and its constants are valid; otherwise the
// axis falls back to b.UniformBins equal bins on [EMin, EMax) and a warning
// is logged.
func ResolveBinning(log *zap.Logger, b config.BinningConfig, table response.ResolutionTable) (Binning, error) {
	out := Binning{Detector: b.Detector}

	edges, truncated, err := resolutionEdges(b, table)
	if err == nil {
		out.Axis, err = histogram.NewAxis(edges)
	}
	if err == nil {
		out.Truncated = truncated
		if truncated {
			log.Warn("resolution binning truncated",
				zap.String("detector", b.Detector),
				zap.Int("bins", out.Axis.NBins()),
				zap.Int("max_bins", response.MaxResolutionBins))
		}

		return out, nil
	}
	if !errors.Is(err, response.ErrUnknownChannel) && !errors.Is(err, response.ErrInvalidResolution) {
		return Binning{}, fmt.Errorf("resolution binning: %w", err)
	}

	log.Warn("falling back to uniform binning",
		zap.String("detector", b.Detector),
		zap.Int("bins", b.UniformBins),
		zap.Error(err))
	out.Axis, err = histogram.NewUniformAxis(b.UniformBins, b.EMin, b.EMax)
	if err != nil {
		return Binning{}, fmt.Errorf("uniform binning: %w", err)
	}
	out.Uniform = true

	return out, nil
}

func resolutionEdges(b config.BinningConfig, table response.ResolutionTable) ([]float64, bool, error) {
	p, err := table.Lookup(b.Detector)
	if err != nil {
		return nil, false, err
	}
	if b.NBins > 0 {
		edges, err := response.ResolutionEdges(b.EMin, p, b.NBins)

		return edges, false, err
	}
	ce, err := response.ResolutionEdgesUpToCenter(b.EMin, b.EMax, p)

	return ce.Edges, ce.Truncated, err
}

// BuildResponse fills the response matrix from events on the given axes
// with the channel filter and out-of-range policy of b.
func BuildResponse(log *zap.Logger, events []response.Event, x, y histogram.Axis, b config.BinningConfig) (*histogram.H2, response.Stats, error) {
	policy, err := b.Policy()
	if err != nil {
		return nil, response.Stats{}, err
	}
	h, st, err := response.Build(events, x, y,
		response.WithChannel(b.Channel),
		response.WithOutOfRange(policy))
	if err != nil {
		return nil, response.Stats{}, fmt.Errorf("build response: %w", err)
	}
	log.Info("response built",
		zap.Int("events", len(events)),
		zap.Int("accepted", st.Accepted),
		zap.Int("dropped", st.Dropped),
		zap.Int("filtered", st.Filtered),
		zap.Int("nx", h.NX()),
		zap.Int("ny", h.NY()))

	return h, st, nil
}
