package histio

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/katalvlaran/specunfold/histogram"
)

// JSON layout of a histogram document:
//
//	{"kind": "h1", "edges": [...], "contents": [...], "errors": [...]}
//	{"kind": "h2", "xedges": [...], "yedges": [...], "contents": [...]}
//
// 1D contents and errors hold N+2 slots (flows first and last); 2D contents
// are the NX×NY regular bins, x major. A file holds one document per
// object, keyed by object name.
const (
	kindH1 = "h1"
	kindH2 = "h2"
)

// MarshalH1 encodes h as a histogram document.
func MarshalH1(h *histogram.H1) ([]byte, error) {
	n := h.NBins()
	contents := make([]float64, n+2)
	errs := make([]float64, n+2)
	for i := range contents {
		contents[i], _ = h.At(i)
		errs[i], _ = h.Err(i)
	}

	doc := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		key string
		val any
	}{
		{"kind", kindH1},
		{"edges", h.Axis().Edges()},
		{"contents", contents},
		{"errors", errs},
	} {
		if doc, err = sjson.SetBytes(doc, kv.key, kv.val); err != nil {
			return nil, fmt.Errorf("encode %s: %w", kv.key, err)
		}
	}

	return doc, nil
}

// MarshalH2 encodes h as a histogram document.
func MarshalH2(h *histogram.H2) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		key string
		val any
	}{
		{"kind", kindH2},
		{"xedges", h.XAxis().Edges()},
		{"yedges", h.YAxis().Edges()},
		{"contents", h.Matrix().RawRowMajor()},
	} {
		if doc, err = sjson.SetBytes(doc, kv.key, kv.val); err != nil {
			return nil, fmt.Errorf("encode %s: %w", kv.key, err)
		}
	}

	return doc, nil
}

// UnmarshalH1 decodes the histogram document at the gjson path in data.
// An empty path decodes data itself.
func UnmarshalH1(data []byte, path string) (*histogram.H1, error) {
	doc, err := lookup(data, path, kindH1)
	if err != nil {
		return nil, err
	}
	h, err := histogram.NewH1FromEdges(floats(doc.Get("edges")))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	n := h.NBins()

	contents := floats(doc.Get("contents"))
	errs := floats(doc.Get("errors"))
	if errs == nil {
		errs = make([]float64, len(contents))
	}
	if len(contents) != n+2 || len(errs) != n+2 {
		return nil, fmt.Errorf("%w: %d bins need %d contents and errors, got %d and %d",
			ErrMalformed, n, n+2, len(contents), len(errs))
	}
	for i := range contents {
		if err = h.Set(i, contents[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if err = h.SetErr(i, errs[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	return h, nil
}

// UnmarshalH2 decodes the histogram document at the gjson path in data.
func UnmarshalH2(data []byte, path string) (*histogram.H2, error) {
	doc, err := lookup(data, path, kindH2)
	if err != nil {
		return nil, err
	}
	x, err := histogram.NewAxis(floats(doc.Get("xedges")))
	if err != nil {
		return nil, fmt.Errorf("%w: x axis: %w", ErrMalformed, err)
	}
	y, err := histogram.NewAxis(floats(doc.Get("yedges")))
	if err != nil {
		return nil, fmt.Errorf("%w: y axis: %w", ErrMalformed, err)
	}
	h, err := histogram.NewH2(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	contents := floats(doc.Get("contents"))
	nx, ny := x.NBins(), y.NBins()
	if len(contents) != nx*ny {
		return nil, fmt.Errorf("%w: %dx%d bins need %d contents, got %d", ErrMalformed, nx, ny, nx*ny, len(contents))
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if err = h.Set(i+1, j+1, contents[i*ny+j]); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
		}
	}

	return h, nil
}

// lookup resolves path in data and checks the document kind.
func lookup(data []byte, path, kind string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	doc := gjson.ParseBytes(data)
	if path != "" {
		doc = doc.Get(path)
		if !doc.Exists() {
			return gjson.Result{}, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
	}
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: %q is not an object", ErrMalformed, path)
	}
	if got := doc.Get("kind").String(); got != kind {
		return gjson.Result{}, fmt.Errorf("%w: %q has kind %q, want %q", ErrWrongType, path, got, kind)
	}

	return doc, nil
}

// floats returns the numbers of a JSON array, nil when r is not an array.
func floats(r gjson.Result) []float64 {
	if !r.IsArray() {
		return nil
	}
	arr := r.Array()
	out := make([]float64, len(arr))
	for i, v := range arr {
		out[i] = v.Float()
	}

	return out
}

func writeJSONFile(path string, objs []Object) error {
	doc := []byte(`{}`)
	for _, o := range objs {
		var raw []byte
		var err error
		if o.H1 != nil {
			raw, err = MarshalH1(o.H1)
		} else {
			raw, err = MarshalH2(o.H2)
		}
		if err != nil {
			return fmt.Errorf("%q: %w", o.Name, err)
		}
		if doc, err = sjson.SetRawBytes(doc, o.Name, raw); err != nil {
			return fmt.Errorf("%q: %w", o.Name, err)
		}
	}

	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func readJSONH1(path, name string) (*histogram.H1, error) {
	data, err := readJSONFile(path, name)
	if err != nil {
		return nil, err
	}

	return UnmarshalH1(data, name)
}

func readJSONH2(path, name string) (*histogram.H2, error) {
	data, err := readJSONFile(path, name)
	if err != nil {
		return nil, err
	}

	return UnmarshalH2(data, name)
}

func readJSONFile(path, name string) ([]byte, error) {
	if name != "" {
		if err := checkName(name); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
