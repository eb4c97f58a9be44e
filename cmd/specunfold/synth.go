package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/histio"
	"github.com/katalvlaran/specunfold/internal/pipeline"
	"github.com/katalvlaran/specunfold/response"
	"github.com/katalvlaran/specunfold/synth"
)

var (
	synOut        string
	synTree       string
	synEvents     int
	synPerBin     int
	synLines      []string
	synContinua   []string
	synEfficiency float64
	synSeed       int64
	synChannel    int
	synSmear      bool
	synSpectrum   string
)

func init() {
	synthCmd.Flags().StringVarP(&synOut, "out", "o", "events.csv", "event file (.csv or .root)")
	synthCmd.Flags().StringVar(&synTree, "tree", histio.DefaultTreeName, "tree name for ROOT output")
	synthCmd.Flags().IntVarP(&synEvents, "events", "n", 100000, "true events to draw from the source")
	synthCmd.Flags().IntVar(&synPerBin, "per-bin", 0, "draw this many events uniformly in every true bin instead")
	synthCmd.Flags().StringSliceVar(&synLines, "line", nil, "gamma line energy[:weight], repeatable")
	synthCmd.Flags().StringSliceVar(&synContinua, "continuum", nil, "flat component lo:hi[:weight], repeatable")
	synthCmd.Flags().Float64Var(&synEfficiency, "efficiency", 1, "constant detection probability")
	synthCmd.Flags().Int64Var(&synSeed, "seed", synth.DefaultSeed, "random seed")
	synthCmd.Flags().IntVar(&synChannel, "channel", 0, "detector channel written on every event")
	synthCmd.Flags().BoolVar(&synSmear, "smear", true, "apply the binning detector's resolution")
	synthCmd.Flags().StringVar(&synSpectrum, "spectrum", "", "also write the measured and true spectra on the configured binning")

	rootCmd.AddCommand(synthCmd)
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate synthetic detector events",
	Long: `Generate (channel, Etrue, Emeas) events from gamma lines and flat continua,
smeared with the resolution of binning.detector. With --per-bin the source is
ignored and every true bin of the configured binning gets the same number of
generated events, which is what a response matrix needs.

With --spectrum the events are also histogrammed on the configured binning
as "measured" (Emeas) and "true" (Etrue).

Examples:
  specunfold synth --line 661.657 --line 1173.2:0.5 -n 50000 -o cs.csv
  specunfold synth --per-bin 10000 --efficiency 0.4 -o resp_events.root`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

func runSynth(cmd *cobra.Command, _ []string) error {
	opts, err := synthOptions()
	if err != nil {
		return err
	}
	gen := synth.New(opts...)

	var axis histogram.Axis
	if synPerBin > 0 || synSpectrum != "" {
		table, err := cfg.Binning.Table()
		if err != nil {
			return err
		}
		b, err := pipeline.ResolveBinning(logger, cfg.Binning, table)
		if err != nil {
			return err
		}
		axis = b.Axis
	}

	var (
		events []response.Event
		st     synth.Stats
	)
	if synPerBin > 0 {
		events, st, err = gen.SamplePerBin(axis, synPerBin)
	} else {
		events, st, err = gen.Sample(synEvents)
	}
	if err != nil {
		return err
	}

	if err = histio.WriteEvents(synOut, synTree, events); err != nil {
		return err
	}
	logger.Info("events written",
		zap.String("path", synOut),
		zap.Int("generated", st.Generated),
		zap.Int("detected", st.Detected))
	fmt.Fprintf(cmd.OutOrStdout(), "%d generated, %d detected\n", st.Generated, st.Detected)

	if synSpectrum != "" {
		measured, err := synth.MeasuredSpectrum(events, axis)
		if err != nil {
			return err
		}
		truth, err := synth.TrueSpectrum(events, axis)
		if err != nil {
			return err
		}
		if err = histio.Write(synSpectrum, histio.Named1("measured", measured), histio.Named1("true", truth)); err != nil {
			return err
		}
	}

	return nil
}

// synthOptions validates the flags before they reach the panicking option
// constructors.
func synthOptions() ([]synth.Option, error) {
	if synEvents < 0 || synPerBin < 0 {
		return nil, fmt.Errorf("--events and --per-bin must be >= 0")
	}
	if !(synEfficiency >= 0 && synEfficiency <= 1) {
		return nil, fmt.Errorf("--efficiency must be in [0, 1], got %g", synEfficiency)
	}
	if synChannel < 0 {
		return nil, fmt.Errorf("--channel must be >= 0, got %d", synChannel)
	}
	opts := []synth.Option{
		synth.WithSeed(synSeed),
		synth.WithConstantEfficiency(synEfficiency),
		synth.WithChannel(synChannel),
	}

	for _, s := range synLines {
		v, err := parseFloats(s, 1, 2)
		if err != nil {
			return nil, fmt.Errorf("--line %q: %w", s, err)
		}
		w := 1.0
		if len(v) == 2 {
			w = v[1]
		}
		if !(v[0] > 0) || !(w > 0) {
			return nil, fmt.Errorf("--line %q: energy and weight must be > 0", s)
		}
		opts = append(opts, synth.WithLine(v[0], w))
	}
	for _, s := range synContinua {
		v, err := parseFloats(s, 2, 3)
		if err != nil {
			return nil, fmt.Errorf("--continuum %q: %w", s, err)
		}
		w := 1.0
		if len(v) == 3 {
			w = v[2]
		}
		if !(v[0] >= 0) || !(v[1] > v[0]) || !(w > 0) {
			return nil, fmt.Errorf("--continuum %q: need 0 <= lo < hi and weight > 0", s)
		}
		opts = append(opts, synth.WithContinuum(v[0], v[1], w))
	}
	if synPerBin == 0 && len(synLines) == 0 && len(synContinua) == 0 {
		return nil, fmt.Errorf("no source: give --line, --continuum or --per-bin")
	}

	if synSmear {
		table, err := cfg.Binning.Table()
		if err != nil {
			return nil, err
		}
		p, err := table.Lookup(cfg.Binning.Detector)
		if err != nil {
			return nil, err
		}
		if err = p.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, synth.WithResolution(p))
	}

	return opts, nil
}

// parseFloats splits s on ':' into between lo and hi numbers.
func parseFloats(s string, lo, hi int) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < lo || len(parts) > hi {
		return nil, fmt.Errorf("want %d to %d ':'-separated numbers", lo, hi)
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
