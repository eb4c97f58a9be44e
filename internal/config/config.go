// Package config loads the specunfold driver configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/specunfold/internal/logging"
	"github.com/katalvlaran/specunfold/response"
	"github.com/katalvlaran/specunfold/unfold"
)

// Config is the complete driver configuration.
type Config struct {
	Logging  logging.Config `koanf:"logging"`
	Binning  BinningConfig  `koanf:"binning"`
	Unfold   UnfoldConfig   `koanf:"unfold"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

// BinningConfig selects the response axes.
//
// With NBins > 0 the resolution recurrence produces exactly NBins bins,
// otherwise it grows until a bin center reaches EMax. Detector names an
// entry of the resolution table. When the entry is missing or invalid the
// driver falls back to UniformBins equal bins on [EMin, EMax).
type BinningConfig struct {
	Detector        string  `koanf:"detector"`
	EMin            float64 `koanf:"emin"`
	EMax            float64 `koanf:"emax"`
	NBins           int     `koanf:"nbins"`
	UniformBins     int     `koanf:"uniform_bins"`
	ResolutionTable string  `koanf:"resolution_table"`
	OutOfRange      string  `koanf:"out_of_range"` // "drop" or "clip"
	Channel         int     `koanf:"channel"`      // -1 keeps every channel
}

// UnfoldConfig carries the solver selection and per-method parameters.
type UnfoldConfig struct {
	Methods     []string             `koanf:"methods"`
	Workers     int                  `koanf:"workers"`
	Prior       string               `koanf:"prior"` // histogram file, empty for none
	PriorCutoff float64              `koanf:"prior_cutoff"`
	Bayes       unfold.BayesOptions  `koanf:"bayes"`
	Gold        unfold.GoldOptions   `koanf:"gold"`
	Linear      unfold.LinearOptions `koanf:"linear"`
	Direct      unfold.DirectOptions `koanf:"direct"`
}

// AnalysisConfig parameterizes the post-unfolding analysis.
type AnalysisConfig struct {
	ZeroBelowBin  int     `koanf:"zero_below_bin"`
	FracSyst      float64 `koanf:"frac_syst"`
	Normalization float64 `koanf:"normalization"`
	NormSigma     float64 `koanf:"norm_sigma"`
	WidthUnit     float64 `koanf:"width_unit"`
	FirstBin      int     `koanf:"first_bin"`
	LastBin       int     `koanf:"last_bin"` // 0 means the last regular bin
}

// Default returns the historical driver settings.
func Default() Config {
	return Config{
		Logging: logging.NewDefaultConfig(),
		Binning: BinningConfig{
			Detector:    "PARIS70",
			EMin:        0,
			EMax:        10000,
			UniformBins: 1000,
			OutOfRange:  "drop",
			Channel:     response.AnyChannel,
		},
		Unfold: UnfoldConfig{
			Methods: []string{"bayes", "gold", "linear", "direct"},
			Workers: 4,
			Bayes:   unfold.DefaultBayesOptions(),
			Gold:    unfold.DefaultGoldOptions(),
			Linear:  unfold.DefaultLinearOptions(),
			Direct:  unfold.DefaultDirectOptions(),
		},
		Analysis: AnalysisConfig{
			ZeroBelowBin:  1,
			FracSyst:      0.025,
			Normalization: 1,
			WidthUnit:     1000,
			FirstBin:      1,
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Binning.Validate(); err != nil {
		return fmt.Errorf("binning: %w", err)
	}
	if err := c.Unfold.Validate(); err != nil {
		return fmt.Errorf("unfold: %w", err)
	}
	if c.Analysis.FracSyst < 0 {
		return fmt.Errorf("analysis: frac_syst must be >= 0, got %g", c.Analysis.FracSyst)
	}
	if !(c.Analysis.WidthUnit > 0) {
		return fmt.Errorf("analysis: width_unit must be > 0, got %g", c.Analysis.WidthUnit)
	}

	return nil
}

// Validate checks the binning request.
func (b BinningConfig) Validate() error {
	if _, err := b.Policy(); err != nil {
		return err
	}
	if b.NBins < 0 || b.NBins > response.MaxResolutionBins {
		return fmt.Errorf("nbins must be in [0, %d], got %d", response.MaxResolutionBins, b.NBins)
	}
	if b.NBins == 0 && !(b.EMax > b.EMin) {
		return fmt.Errorf("emax (%g) must exceed emin (%g)", b.EMax, b.EMin)
	}
	if b.UniformBins < 1 {
		return fmt.Errorf("uniform_bins must be >= 1, got %d", b.UniformBins)
	}
	if b.Channel < 0 && b.Channel != response.AnyChannel {
		return fmt.Errorf("channel must be >= 0 or %d, got %d", response.AnyChannel, b.Channel)
	}

	return nil
}

// Policy maps OutOfRange onto the builder policy.
func (b BinningConfig) Policy() (response.OutOfRange, error) {
	switch strings.ToLower(b.OutOfRange) {
	case "", "drop":
		return response.DropOutOfRange, nil
	case "clip":
		return response.ClipToFlow, nil
	default:
		return 0, fmt.Errorf("out_of_range must be 'drop' or 'clip', got %q", b.OutOfRange)
	}
}

// Validate checks the method list and the parameters of every selected
// method.
func (u UnfoldConfig) Validate() error {
	methods, err := u.MethodList()
	if err != nil {
		return err
	}
	if u.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", u.Workers)
	}
	for _, m := range methods {
		var err error
		switch m {
		case unfold.MethodBayes:
			err = u.Bayes.Validate()
		case unfold.MethodGold:
			err = u.Gold.Validate()
		case unfold.MethodLinear:
			err = u.Linear.Validate()
		case unfold.MethodDirect:
			err = u.Direct.Validate()
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// MethodList parses Methods in order, dropping duplicates. Entries may
// hold comma separated names.
func (u UnfoldConfig) MethodList() ([]unfold.Method, error) {
	if len(u.Methods) == 0 {
		return nil, fmt.Errorf("methods must not be empty")
	}
	seen := make(map[unfold.Method]bool, len(u.Methods))
	out := make([]unfold.Method, 0, len(u.Methods))
	for _, entry := range u.Methods {
		// An environment override arrives as one comma separated entry.
		for _, name := range strings.Split(entry, ",") {
			m, err := unfold.ParseMethod(strings.ToLower(strings.TrimSpace(name)))
			if err != nil {
				return nil, err
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	return out, nil
}
