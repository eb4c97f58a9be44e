// Package main implements the specunfold command line driver: response
// binning, response matrices, unfolding, analysis and synthetic events.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/specunfold/internal/config"
	"github.com/katalvlaran/specunfold/internal/logging"
)

var (
	// configPath is the YAML configuration file
	configPath string
	// logLevel overrides logging.level when set
	logLevel string
	// logFormat overrides logging.format when set
	logFormat string

	// version information
	version = "dev"

	// set by loadRuntime before any subcommand runs
	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "specunfold",
	Short: "Spectral unfolding of detector energy spectra",
	Long: `specunfold recovers true energy spectra from measured ones by inverting a
detector response matrix with iterative Bayes, Gold, linear back-projection
or direct stripping.

Configuration is read from --config (YAML) and SPECUNFOLD_* environment
variables, with a double underscore between nesting levels:

  SPECUNFOLD_UNFOLD__BAYES__MAX_ITER=50 specunfold unfold ...`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logging.Sync(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console or json)")
}

// loadRuntime loads the configuration, applies the logging flags and
// builds the logger.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	l, err := logging.New(c.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	cfg, logger = c, l.With(zap.String("command", cmd.Name()))

	return nil
}

// splitRef splits "file.root:name" into path and object name. A missing
// name yields "".
func splitRef(ref string) (string, string) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || strings.ContainsAny(ref[i+1:], `/\`) {
		return ref, ""
	}

	return ref[:i], ref[i+1:]
}
