package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/histio"
	"github.com/katalvlaran/specunfold/internal/pipeline"
)

var (
	anaRef  string
	anaOut  string
	anaNorm float64
)

func init() {
	analyzeCmd.Flags().StringVar(&anaRef, "ref", "", "reference spectrum as file:name for ratio and shape")
	analyzeCmd.Flags().StringVarP(&anaOut, "out", "o", "", "write the density (and ratio) to this file")
	analyzeCmd.Flags().Float64Var(&anaNorm, "norm", 0, "normalization count (default analysis.normalization)")

	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze SPECTRUM",
	Short: "Integrate and normalize an unfolded spectrum",
	Long: `Analyze an unfolded spectrum given as file:name: zero the bins below
analysis.zero_below_bin, rebuild count errors with analysis.frac_syst,
normalize per event and per analysis.width_unit of energy, then print the
integral and mean energy over [analysis.first_bin, analysis.last_bin].

With --ref the spectrum is also divided by the reference and the shape
distance between the two is printed.

Examples:
  specunfold analyze out.root:unfolded_bayes --ref out.root:unfolded_gold
  specunfold analyze 'run.json:methods.#(method=="linear").unfolded' --norm 1.9e9`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ac := cfg.Analysis
	if anaNorm > 0 {
		ac.Normalization = anaNorm
	}

	h, err := readSpectrum(args[0])
	if err != nil {
		return err
	}
	a, err := pipeline.Analyze(h, ac)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "counts    %s\n", a.Counts)
	fmt.Fprintf(out, "integral  %s\n", a.Integral)
	fmt.Fprintf(out, "mean      %s\n", a.Mean)

	objs := []histio.Object{histio.Named1("density", a.Density)}
	if anaRef != "" {
		ref, err := readSpectrum(anaRef)
		if err != nil {
			return fmt.Errorf("reference: %w", err)
		}
		cmp, err := pipeline.Compare(h, ref, ac)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "ratio     %g\n", cmp.MeanRatio)
		fmt.Fprintf(out, "shape     %g\n", cmp.Shape)
		objs = append(objs, histio.Named1("ratio", cmp.Ratio))
	}

	if anaOut != "" {
		return histio.Write(anaOut, objs...)
	}

	return nil
}

// readSpectrum reads file:name; for a JSON file the name is a query path
// into the document, so reports written by unfold can be analyzed directly.
func readSpectrum(ref string) (*histogram.H1, error) {
	path, name := splitRef(ref)
	if f, err := histio.FormatOf(path); err == nil && f == histio.FormatJSON {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		return histio.UnmarshalH1(data, name)
	}

	return histio.ReadH1(path, name)
}
