// Package pipeline drives the unfolding solvers: it resolves the binning,
// builds the response, runs the selected methods in parallel and collects
// their results into a Report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/config"
	"github.com/katalvlaran/specunfold/matrix"
	"github.com/katalvlaran/specunfold/unfold"
)

// Tolerances of the refold cross-check on absolute-scale methods.
const (
	refoldRelTol = 1e-9
	refoldAbsTol = 1e-9
)

// ErrNoInput is returned when the measured spectrum or response is missing.
var ErrNoInput = errors.New("pipeline: measured spectrum and response are required")

// Input is what every method unfolds.
type Input struct {
	Measured *histogram.H1 // any binning; projected onto the response X axis when needed
	Response *histogram.H2
	Prior    *histogram.H1 // optional, Bayes and Gold only
}

// Options selects the methods and their parameters.
type Options struct {
	Methods     []unfold.Method
	Workers     int
	PriorCutoff float64
	Bayes       unfold.BayesOptions
	Gold        unfold.GoldOptions
	Linear      unfold.LinearOptions
	Direct      unfold.DirectOptions
}

// OptionsFromConfig converts the unfold section of the configuration.
func OptionsFromConfig(c config.UnfoldConfig) (Options, error) {
	methods, err := c.MethodList()
	if err != nil {
		return Options{}, err
	}
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	return Options{
		Methods:     methods,
		Workers:     workers,
		PriorCutoff: c.PriorCutoff,
		Bayes:       c.Bayes,
		Gold:        c.Gold,
		Linear:      c.Linear,
		Direct:      c.Direct,
	}, nil
}

// MethodReport is the outcome of one method.
type MethodReport struct {
	Method   unfold.Method
	Result   *unfold.Result // nil when Err is set
	Err      error
	Warnings []string
	Duration time.Duration
}

// Report collects one pipeline run.
type Report struct {
	RunID     uuid.UUID
	Started   time.Time
	Duration  time.Duration
	Projected bool // the measured spectrum was re-binned onto the response X axis
	Measured  *histogram.H1
	Methods   []MethodReport // in Options.Methods order
}

// Err joins the per-method errors.
func (r *Report) Err() error {
	var errs []error
	for _, m := range r.Methods {
		if m.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Method, m.Err))
		}
	}

	return errors.Join(errs...)
}

// Result returns the result of method m, if it ran and succeeded.
func (r *Report) Result(m unfold.Method) (*unfold.Result, bool) {
	for _, mr := range r.Methods {
		if mr.Method == m && mr.Result != nil {
			return mr.Result, true
		}
	}

	return nil, false
}

// Runner executes the configured methods.
type Runner struct {
	log  *zap.Logger
	opts Options
}

// New creates a Runner. A nil logger discards output.
func New(log *zap.Logger, opts Options) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Runner{log: log, opts: opts}
}

// Run unfolds in with every selected method. Methods run concurrently on
// private clones of the inputs, at most Workers at a time. A failing method
// is recorded in its MethodReport and does not stop the others; Run itself
// fails only for missing inputs, a failed projection or a cancelled ctx.
func (r *Runner) Run(ctx context.Context, in Input) (*Report, error) {
	if in.Measured == nil || in.Response == nil {
		return nil, ErrNoInput
	}
	if len(r.opts.Methods) == 0 {
		return nil, fmt.Errorf("pipeline: no methods selected")
	}

	rep := &Report{
		RunID:   uuid.New(),
		Started: time.Now(),
		Methods: make([]MethodReport, len(r.opts.Methods)),
	}
	log := r.log.With(zap.String("run_id", rep.RunID.String()))

	measured := in.Measured
	if !histogram.SameBinning(measured.Axis(), in.Response.XAxis(), histogram.SameBinningTolerance) {
		projected, err := histogram.Project(measured, in.Response.XAxis())
		if err != nil {
			return nil, fmt.Errorf("project measured spectrum: %w", err)
		}
		log.Info("measured spectrum projected onto response axis",
			zap.Int("from_bins", measured.NBins()),
			zap.Int("to_bins", projected.NBins()),
			zap.Float64("sum_before", measured.Sum()),
			zap.Float64("sum_after", projected.Sum()))
		measured = projected
		rep.Projected = true
	}
	rep.Measured = measured

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for k, m := range r.opts.Methods {
		k, m := k, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep.Methods[k] = r.runMethod(log, m, measured.Clone(), in.Response.Clone(), in.Prior)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.Duration = time.Since(rep.Started)

	log.Info("run finished",
		zap.Int("methods", len(rep.Methods)),
		zap.Duration("duration", rep.Duration),
		zap.NamedError("errors", rep.Err()))

	return rep, nil
}

// runMethod runs one solver and turns its diagnostics into warnings.
func (r *Runner) runMethod(log *zap.Logger, m unfold.Method, measured *histogram.H1, resp *histogram.H2, prior *histogram.H1) MethodReport {
	log = log.With(zap.String("method", string(m)))
	start := time.Now()

	var priorSpec unfold.PriorSpec
	if prior != nil {
		priorSpec = unfold.PriorSpec{Histogram: prior.Clone(), Cutoff: r.opts.PriorCutoff}
	}

	var (
		res *unfold.Result
		err error
	)
	switch m {
	case unfold.MethodBayes:
		opts := r.opts.Bayes
		opts.Prior = priorSpec
		res, err = unfold.Bayes(measured, resp, opts)
	case unfold.MethodGold:
		opts := r.opts.Gold
		opts.Prior = priorSpec
		res, err = unfold.Gold(measured, resp, opts)
	case unfold.MethodLinear:
		res, err = unfold.Linear(measured, resp, r.opts.Linear)
	case unfold.MethodDirect:
		res, err = unfold.Direct(measured, resp, r.opts.Direct)
	default:
		err = fmt.Errorf("pipeline: unsupported method %q", m)
	}

	mr := MethodReport{Method: m, Result: res, Err: err, Duration: time.Since(start)}
	if err != nil {
		mr.Result = nil
		log.Error("method failed", zap.Error(err))

		return mr
	}

	if res.PriorRejected != nil {
		mr.Warnings = append(mr.Warnings, "prior rejected: "+res.PriorRejected.Error())
		log.Warn("prior rejected", zap.Error(res.PriorRejected))
	}
	if res.Iterations > 0 && !res.Converged {
		mr.Warnings = append(mr.Warnings, fmt.Sprintf("not converged after %d iterations", res.Iterations))
		log.Warn("not converged", zap.Int("iterations", res.Iterations))
	}
	if gen, ok := r.absoluteGen(m); ok {
		if err := checkRefold(res, resp, gen); err != nil {
			mr.Warnings = append(mr.Warnings, "refold check: "+err.Error())
			log.Warn("refold mismatch", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged),
		zap.Bool("prior_used", res.PriorUsed),
		zap.Duration("duration", mr.Duration),
	}
	if last, ok := res.Trace.Last(); ok {
		fields = append(fields, zap.Float64("chi2_per_point", last.Chi2PerPoint))
	}
	log.Info("method finished", fields...)

	return mr
}

// absoluteGen returns the generated-events normalization of the methods whose
// Refolded is on the absolute response scale.
func (r *Runner) absoluteGen(m unfold.Method) (float64, bool) {
	switch m {
	case unfold.MethodGold:
		return r.opts.Gold.GenPerTrueBin, true
	case unfold.MethodDirect:
		return r.opts.Direct.GenPerTrueBin, true
	default:
		return 0, false
	}
}

// checkRefold folds res.Unfolded through resp again with unfold.Refold and
// compares the outcome with res.Refolded.
func checkRefold(res *unfold.Result, resp *histogram.H2, gen float64) error {
	if res.Refolded == nil {
		return errors.New("no refolded spectrum")
	}
	again, err := unfold.Refold(res.Unfolded, resp, gen)
	if err != nil {
		return err
	}
	want, got := again.Contents(), res.Refolded.Contents()
	if len(want) != len(got) {
		return fmt.Errorf("refolded has %d bins, expected %d", len(got), len(want))
	}
	a, err := matrix.NewDenseFrom(1, len(got), got)
	if err != nil {
		return err
	}
	b, err := matrix.NewDenseFrom(1, len(want), want)
	if err != nil {
		return err
	}
	ok, err := matrix.AllClose(a, b, refoldRelTol, refoldAbsTol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("solver refolded %v, Refold gives %v", got, want)
	}

	return nil
}
