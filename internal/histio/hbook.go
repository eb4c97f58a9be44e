package histio

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go-hep.org/x/hep/hbook"

	"github.com/katalvlaran/specunfold/histogram"
)

// toH1D converts h into an hbook histogram carrying contents and errors
// (SumW, SumW2) for every slot, flows included.
func toH1D(name string, h *histogram.H1) *hbook.H1D {
	axis := h.Axis()
	out := hbook.NewH1DFromEdges(axis.Edges())
	out.Annotation()["name"] = name
	out.Annotation()["path"] = "/" + name

	var total hbook.Dist1D
	slot := func(i int, x float64, d *hbook.Dist1D) {
		c, _ := h.At(i)
		e, _ := h.Err(i)
		setDist(d, x, c, e)
		addDist(&total, d)
	}
	slot(0, axis.Min(), &out.Binning.Outflows[0])
	for i := range out.Binning.Bins {
		slot(i+1, axis.Center(i+1), &out.Binning.Bins[i].Dist)
	}
	slot(axis.NBins()+1, axis.Max(), &out.Binning.Outflows[1])
	out.Binning.Dist = total

	return out
}

// setDist stores one pseudo-entry of weight w and error e at x.
func setDist(d *hbook.Dist1D, x, w, e float64) {
	*d = hbook.Dist1D{}
	if w == 0 && e == 0 {
		return
	}
	d.Dist.N = 1
	d.Dist.SumW = w
	d.Dist.SumW2 = e * e
	d.Stats.SumWX = w * x
	d.Stats.SumWX2 = w * x * x
}

func addDist(dst, src *hbook.Dist1D) {
	dst.Dist.N += src.Dist.N
	dst.Dist.SumW += src.Dist.SumW
	dst.Dist.SumW2 += src.Dist.SumW2
	dst.Stats.SumWX += src.Stats.SumWX
	dst.Stats.SumWX2 += src.Stats.SumWX2
}

// fromH1D is the inverse of toH1D.
func fromH1D(src *hbook.H1D) (*histogram.H1, error) {
	bins := src.Binning.Bins
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: histogram without bins", ErrMalformed)
	}
	edges := make([]float64, 0, len(bins)+1)
	edges = append(edges, bins[0].Range.Min)
	for _, b := range bins {
		edges = append(edges, b.Range.Max)
	}
	h, err := histogram.NewH1FromEdges(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	n := len(bins)
	contents := make([]float64, n)
	errs := make([]float64, n)
	for i, b := range bins {
		contents[i] = b.Dist.Dist.SumW
		errs[i] = sqrtNonNeg(b.Dist.Dist.SumW2)
	}
	if err = h.SetContents(contents); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err = h.SetErrors(errs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for k, slot := range []int{0, n + 1} {
		d := src.Binning.Outflows[k].Dist
		if err = h.Set(slot, d.SumW); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if err = h.SetErr(slot, sqrtNonNeg(d.SumW2)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	return h, nil
}

// toH2D converts the regular bins of h. Flow slots are not carried.
func toH2D(name string, h *histogram.H2) *hbook.H2D {
	x, y := h.XAxis(), h.YAxis()
	out := hbook.NewH2DFromEdges(x.Edges(), y.Edges())
	out.Annotation()["name"] = name
	out.Annotation()["path"] = "/" + name
	for i := 1; i <= h.NX(); i++ {
		for j := 1; j <= h.NY(); j++ {
			if v, _ := h.At(i, j); v != 0 {
				out.Fill(x.Center(i), y.Center(j), v)
			}
		}
	}

	return out
}

// fromH2D rebuilds the axes from the bin ranges and fills every bin at its
// center.
func fromH2D(src *hbook.H2D) (*histogram.H2, error) {
	bins := src.Binning.Bins
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: histogram without bins", ErrMalformed)
	}
	xs := make([]float64, 0, 2*len(bins))
	ys := make([]float64, 0, 2*len(bins))
	for _, b := range bins {
		xs = append(xs, b.XRange.Min, b.XRange.Max)
		ys = append(ys, b.YRange.Min, b.YRange.Max)
	}
	xAxis, err := histogram.NewAxis(uniqueSorted(xs))
	if err != nil {
		return nil, fmt.Errorf("%w: x axis: %w", ErrMalformed, err)
	}
	yAxis, err := histogram.NewAxis(uniqueSorted(ys))
	if err != nil {
		return nil, fmt.Errorf("%w: y axis: %w", ErrMalformed, err)
	}
	h, err := histogram.NewH2(xAxis, yAxis)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for i := range bins {
		b := &bins[i]
		if _, _, err = h.Fill(0.5*(b.XRange.Min+b.XRange.Max), 0.5*(b.YRange.Min+b.YRange.Max), b.SumW()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	return h, nil
}

// hbookName returns the object name recorded in the annotation.
func hbookName(ann hbook.Annotation) string {
	if v, ok := ann["name"].(string); ok && v != "" {
		return v
	}
	if v, ok := ann["path"].(string); ok {
		return strings.TrimPrefix(v, "/")
	}

	return ""
}

func uniqueSorted(v []float64) []float64 {
	sort.Float64s(v)
	out := v[:0]
	for i, x := range v {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}

	return out
}

func sqrtNonNeg(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}
