package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/histio"
	"github.com/katalvlaran/specunfold/internal/pipeline"
)

var (
	unfMeasured string
	unfResponse string
	unfPrior    string
	unfOut      string
	unfReport   string
	unfMethods  []string
)

func init() {
	unfoldCmd.Flags().StringVarP(&unfMeasured, "measured", "m", "", "measured spectrum as file:name (required)")
	unfoldCmd.Flags().StringVarP(&unfResponse, "response", "r", "", "response matrix as file:name (required)")
	unfoldCmd.Flags().StringVar(&unfPrior, "prior", "", "prior spectrum as file:name (default unfold.prior)")
	unfoldCmd.Flags().StringVarP(&unfOut, "out", "o", "unfolded.root", "histogram output file (.root, .yoda or .json)")
	unfoldCmd.Flags().StringVar(&unfReport, "report", "", "JSON report file")
	unfoldCmd.Flags().StringSliceVar(&unfMethods, "methods", nil, "methods to run (default unfold.methods)")

	_ = unfoldCmd.MarkFlagRequired("measured")
	_ = unfoldCmd.MarkFlagRequired("response")

	rootCmd.AddCommand(unfoldCmd)
}

var unfoldCmd = &cobra.Command{
	Use:   "unfold",
	Short: "Unfold a measured spectrum",
	Long: `Unfold a measured spectrum through a response matrix with every selected
method. Methods run in parallel on private copies of the inputs. A measured
spectrum on another binning is projected onto the response measured axis.

The output file holds measured, unfolded_<method>, refolded_<method> and,
for direct, residual_<method>. The optional JSON report adds the chi2 trace,
efficiency and warnings of every method.

Examples:
  specunfold unfold -m data.root:hEmeas -r resp.root:response -o out.root
  specunfold unfold -m m.json -r r.json --methods bayes,gold --report run.json`,
	Args: cobra.NoArgs,
	RunE: runUnfold,
}

func runUnfold(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	uc := cfg.Unfold
	if len(unfMethods) > 0 {
		uc.Methods = unfMethods
	}
	if unfPrior != "" {
		uc.Prior = unfPrior
	}
	opts, err := pipeline.OptionsFromConfig(uc)
	if err != nil {
		return err
	}

	in := pipeline.Input{}
	if in.Measured, err = readH1(unfMeasured); err != nil {
		return fmt.Errorf("measured: %w", err)
	}
	path, name := splitRef(unfResponse)
	if in.Response, err = histio.ReadH2(path, name); err != nil {
		return fmt.Errorf("response: %w", err)
	}
	if uc.Prior != "" {
		if in.Prior, err = readH1(uc.Prior); err != nil {
			return fmt.Errorf("prior: %w", err)
		}
	}

	rep, err := pipeline.New(logger, opts).Run(ctx, in)
	if err != nil {
		return err
	}

	if err = histio.Write(unfOut, rep.Objects()...); err != nil {
		return err
	}
	if unfReport != "" {
		if err = rep.WriteJSON(unfReport); err != nil {
			return err
		}
	}
	logger.Info("unfolding written", zap.String("path", unfOut), zap.String("report", unfReport))

	printSummary(cmd, rep)

	return rep.Err()
}

func readH1(ref string) (*histogram.H1, error) {
	path, name := splitRef(ref)

	return histio.ReadH1(path, name)
}

func printSummary(cmd *cobra.Command, rep *pipeline.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tITER\tCONVERGED\tCHI2/POINT\tSUM\tNOTES")
	for _, m := range rep.Methods {
		if m.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%s\n", m.Method, m.Err)
			continue
		}
		chi2 := "-"
		if last, ok := m.Result.Trace.Last(); ok {
			chi2 = fmt.Sprintf("%.4g", last.Chi2PerPoint)
		}
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%.6g\t%s\n",
			m.Method, m.Result.Iterations, m.Result.Converged, chi2,
			m.Result.Unfolded.Sum(), strings.Join(m.Warnings, "; "))
	}
	_ = w.Flush()
}
