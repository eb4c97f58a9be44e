package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/histio"
	"github.com/katalvlaran/specunfold/internal/pipeline"
	"github.com/katalvlaran/specunfold/response"
	"github.com/katalvlaran/specunfold/unfold"
)

var (
	respTree      string
	respOut       string
	respName      string
	respGen       float64
	respNormalize bool
	respProfiles  bool
)

func init() {
	responseCmd.Flags().StringVar(&respTree, "tree", histio.DefaultTreeName, "event tree name for ROOT input")
	responseCmd.Flags().StringVarP(&respOut, "out", "o", "response.root", "output file (.root, .yoda or .json)")
	responseCmd.Flags().StringVar(&respName, "name", "response", "name of the response object")
	responseCmd.Flags().Float64Var(&respGen, "gen", unfold.DefaultGenPerTrueBin, "events generated per true bin, for the efficiency")
	responseCmd.Flags().BoolVar(&respNormalize, "normalize", false, "also store the column-normalized matrix as <name>_prob")
	responseCmd.Flags().BoolVar(&respProfiles, "profiles", false, "print mean and RMS of Emeas per true bin")

	rootCmd.AddCommand(responseCmd)
}

var responseCmd = &cobra.Command{
	Use:   "response EVENTS",
	Short: "Build a response matrix from detector events",
	Long: `Build the response matrix R(Emeas, Etrue) from simulated events read from a
ROOT tree (branches parisIndex, Etrue_keV, Emeas_keV) or a CSV file
(channel,etrue,emeas). Both axes use the configured binning.

The output holds the matrix, the efficiency per true bin as <name>_eff and,
with --normalize, the conditional probabilities as <name>_prob.

Examples:
  specunfold response sim.root --tree resp -o resp.root
  SPECUNFOLD_BINNING__CHANNEL=1 specunfold response events.csv -o resp.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResponse,
}

func runResponse(cmd *cobra.Command, args []string) error {
	if !(respGen > 0) {
		return fmt.Errorf("--gen must be > 0, got %g", respGen)
	}
	events, err := histio.ReadEvents(args[0], respTree)
	if err != nil {
		return err
	}
	logger.Info("events loaded", zap.String("path", args[0]), zap.Int("events", len(events)))

	table, err := cfg.Binning.Table()
	if err != nil {
		return err
	}
	b, err := pipeline.ResolveBinning(logger, cfg.Binning, table)
	if err != nil {
		return err
	}
	resp, _, err := pipeline.BuildResponse(logger, events, b.Axis, b.Axis, cfg.Binning)
	if err != nil {
		return err
	}

	eff, err := response.Efficiency(resp, respGen)
	if err != nil {
		return err
	}
	effHist, err := histogram.NewH1(resp.YAxis())
	if err != nil {
		return err
	}
	if err = effHist.SetContents(eff); err != nil {
		return err
	}

	objs := []histio.Object{histio.Named2(respName, resp), histio.Named1(respName+"_eff", effHist)}
	if respNormalize {
		prob, err := response.NormalizeColumns(resp)
		if err != nil {
			return err
		}
		objs = append(objs, histio.Named2(respName+"_prob", prob))
	}
	if err = histio.Write(respOut, objs...); err != nil {
		return err
	}
	logger.Info("response written", zap.String("path", respOut), zap.Int("objects", len(objs)))

	if respProfiles {
		policy, _ := cfg.Binning.Policy()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%6s %12s %8s %12s %12s\n", "bin", "etrue", "n", "mean", "rms")
		for _, p := range response.Profiles(events, b.Axis, b.Axis,
			response.WithChannel(cfg.Binning.Channel), response.WithOutOfRange(policy)) {
			fmt.Fprintf(out, "%6d %12.3f %8d %12.3f %12.3f\n", p.Bin, p.Center, p.N, p.Mean, p.RMS)
		}
	}

	return nil
}
