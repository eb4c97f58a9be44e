package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/sjson"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/internal/histio"
)

type jsonField struct {
	key string
	val any
}

// Objects lists the report histograms under stable names: "measured",
// then "unfolded_<method>", "refolded_<method>" and, for Direct,
// "residual_<method>".
func (r *Report) Objects() []histio.Object {
	objs := []histio.Object{histio.Named1("measured", r.Measured)}
	for _, m := range r.Methods {
		if m.Result == nil {
			continue
		}
		name := string(m.Method)
		objs = append(objs,
			histio.Named1("unfolded_"+name, m.Result.Unfolded),
			histio.Named1("refolded_"+name, m.Result.Refolded))
		if m.Result.Residual != nil {
			objs = append(objs, histio.Named1("residual_"+name, m.Result.Residual))
		}
	}

	return objs
}

// MarshalJSON encodes the report. Histograms are embedded as histio
// documents, so a method's spectrum can be read back with
//
//	histio.UnmarshalH1(data, `methods.#(method=="bayes").unfolded`)
func (r *Report) MarshalJSON() ([]byte, error) {
	doc := []byte(`{}`)
	set := func(path string, v any) error {
		var err error
		doc, err = sjson.SetBytes(doc, path, v)
		if err != nil {
			return fmt.Errorf("report %s: %w", path, err)
		}

		return nil
	}
	setRaw := func(path string, raw []byte) error {
		var err error
		doc, err = sjson.SetRawBytes(doc, path, raw)
		if err != nil {
			return fmt.Errorf("report %s: %w", path, err)
		}

		return nil
	}

	if err := set("run_id", r.RunID.String()); err != nil {
		return nil, err
	}
	if err := set("started", r.Started.UTC().Format(time.RFC3339Nano)); err != nil {
		return nil, err
	}
	if err := set("duration_ms", r.Duration.Milliseconds()); err != nil {
		return nil, err
	}
	if err := set("projected", r.Projected); err != nil {
		return nil, err
	}
	if r.Measured != nil {
		raw, err := histio.MarshalH1(r.Measured)
		if err != nil {
			return nil, err
		}
		if err = setRaw("measured", raw); err != nil {
			return nil, err
		}
	}
	if err := setRaw("methods", []byte(`[]`)); err != nil {
		return nil, err
	}

	for k, m := range r.Methods {
		base := fmt.Sprintf("methods.%d.", k)
		if err := set(base+"method", string(m.Method)); err != nil {
			return nil, err
		}
		if err := set(base+"duration_ms", m.Duration.Milliseconds()); err != nil {
			return nil, err
		}
		if len(m.Warnings) > 0 {
			if err := set(base+"warnings", m.Warnings); err != nil {
				return nil, err
			}
		}
		if m.Err != nil {
			if err := set(base+"error", m.Err.Error()); err != nil {
				return nil, err
			}

			continue
		}

		res := m.Result
		fields := []jsonField{
			{"iterations", res.Iterations},
			{"converged", res.Converged},
			{"prior_used", res.PriorUsed},
			{"efficiency", res.Efficiency},
			{"chi2", res.Trace.Chi2()},
			{"chi2_per_point", res.Trace.Chi2PerPoint()},
		}
		if res.PriorRejected != nil {
			fields = append(fields, jsonField{"prior_rejected", res.PriorRejected.Error()})
		}
		for _, f := range fields {
			if err := set(base+f.key, f.val); err != nil {
				return nil, err
			}
		}
		for _, e := range []struct {
			key  string
			hist *histogram.H1
		}{
			{"unfolded", res.Unfolded},
			{"refolded", res.Refolded},
			{"residual", res.Residual},
		} {
			if e.hist == nil {
				continue
			}
			raw, err := histio.MarshalH1(e.hist)
			if err != nil {
				return nil, err
			}
			if err = setRaw(base+e.key, raw); err != nil {
				return nil, err
			}
		}
	}

	return doc, nil
}

// WriteJSON writes the report to path.
func (r *Report) WriteJSON(path string) error {
	doc, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
