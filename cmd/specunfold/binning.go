package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/specunfold/internal/pipeline"
	"github.com/katalvlaran/specunfold/response"
)

var (
	binDetector string
	binNBins    int
	binList     bool
)

func init() {
	binningCmd.Flags().StringVar(&binDetector, "detector", "", "resolution table entry (default from config)")
	binningCmd.Flags().IntVar(&binNBins, "nbins", -1, "fixed bin count; 0 grows up to binning.emax (default from config)")
	binningCmd.Flags().BoolVar(&binList, "list", false, "list the resolution table instead")

	rootCmd.AddCommand(binningCmd)
}

var binningCmd = &cobra.Command{
	Use:   "binning",
	Short: "Print the resolution-driven response binning",
	Long: `Print the bin edges derived from a detector's resolution constants, one
edge per line. Without a valid table entry the uniform fallback is printed.

Examples:
  # 64 bins for the PARIS70 ring
  specunfold binning --detector PARIS70 --nbins 64

  # List the configured resolution table
  specunfold binning --list`,
	Args: cobra.NoArgs,
	RunE: runBinning,
}

func runBinning(cmd *cobra.Command, _ []string) error {
	table, err := cfg.Binning.Table()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if binList {
		for _, name := range table.Names() {
			p, _ := table.Lookup(name)
			fmt.Fprintf(out, "%-10s a=%g power=%g\n", name, p.A, p.Power)
		}

		return nil
	}

	b := cfg.Binning
	if binDetector != "" {
		b.Detector = binDetector
	}
	if binNBins >= 0 {
		b.NBins = binNBins
	}
	if err = b.Validate(); err != nil {
		return err
	}

	res, err := pipeline.ResolveBinning(logger, b, table)
	if err != nil {
		return err
	}
	for _, e := range res.Axis.Edges() {
		fmt.Fprintf(out, "%.6f\n", e)
	}
	if res.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "truncated at %d bins\n", response.MaxResolutionBins)
	}

	return nil
}
