package histio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/response"
)

// spectrum returns a 3-bin histogram with flows and non-trivial errors.
func spectrum(t *testing.T) *histogram.H1 {
	t.Helper()
	h, err := histogram.NewH1FromEdges([]float64{0, 11, 25, 60})
	require.NoError(t, err)
	require.NoError(t, h.SetContents([]float64{12.5, 40, 3}))
	require.NoError(t, h.SetErrors([]float64{3.5, 6.25, 1.75}))
	require.NoError(t, h.Set(0, 2))
	require.NoError(t, h.SetErr(0, 1.5))
	require.NoError(t, h.Set(4, 7))
	require.NoError(t, h.SetErr(4, 2.5))

	return h
}

// responseMatrix returns a 3×2 matrix with distinct entries.
func responseMatrix(t *testing.T) *histogram.H2 {
	t.Helper()
	x, err := histogram.NewAxis([]float64{0, 11, 25, 60})
	require.NoError(t, err)
	y, err := histogram.NewAxis([]float64{0, 20, 60})
	require.NoError(t, err)
	h, err := histogram.NewH2(x, y)
	require.NoError(t, err)
	for i, row := range [][]float64{{5, 0}, {2, 7}, {0.5, 11}} {
		for j, v := range row {
			require.NoError(t, h.Set(i+1, j+1, v))
		}
	}

	return h
}

// assertH1 compares binning, contents, errors and flows within a relative
// tolerance.
func assertH1(t *testing.T, want, got *histogram.H1, rel float64) {
	t.Helper()
	require.Equal(t, want.NBins(), got.NBins())
	assert.InDeltaSlice(t, want.Axis().Edges(), got.Axis().Edges(), 1e-9)
	for i := 0; i <= want.NBins()+1; i++ {
		wc, _ := want.At(i)
		gc, _ := got.At(i)
		assert.InDelta(t, wc, gc, rel*(1+wc), "content slot %d", i)
		we, _ := want.Err(i)
		ge, _ := got.Err(i)
		assert.InDelta(t, we, ge, rel*(1+we), "error slot %d", i)
	}
}

func assertH2(t *testing.T, want, got *histogram.H2, rel float64) {
	t.Helper()
	require.Equal(t, want.NX(), got.NX())
	require.Equal(t, want.NY(), got.NY())
	assert.InDeltaSlice(t, want.XAxis().Edges(), got.XAxis().Edges(), 1e-9)
	assert.InDeltaSlice(t, want.YAxis().Edges(), got.YAxis().Edges(), 1e-9)
	wm, gm := want.Matrix().RawRowMajor(), got.Matrix().RawRowMajor()
	for k := range wm {
		assert.InDelta(t, wm[k], gm[k], rel*(1+wm[k]), "bin %d", k)
	}
}

// TestFormatOf maps extensions case-insensitively.
func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.root": FormatROOT, "b.YODA": FormatYODA, "c.json": FormatJSON, "d.csv": FormatCSV,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatOf("spectrum.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// TestHistogramRoundTrip writes a 1D and a 2D histogram in every format and
// reads them back by name.
func TestHistogramRoundTrip(t *testing.T) {
	h1, h2 := spectrum(t), responseMatrix(t)
	tolerance := map[string]float64{"json": 0, "root": 1e-12, "yoda": 1e-5}

	for ext, rel := range tolerance {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out."+ext)
			require.NoError(t, Write(path, Named1("measured", h1), Named2("response", h2)))

			got1, err := ReadH1(path, "measured")
			require.NoError(t, err)
			assertH1(t, h1, got1, rel)

			got2, err := ReadH2(path, "response")
			require.NoError(t, err)
			assertH2(t, h2, got2, rel)

			_, err = ReadH1(path, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = ReadH1(path, "response")
			assert.ErrorIs(t, err, ErrWrongType)
		})
	}
}

// TestWriteRejectsBadObjects checks names and payloads before touching disk.
func TestWriteRejectsBadObjects(t *testing.T) {
	dir := t.TempDir()
	h := spectrum(t)

	assert.ErrorIs(t, Write(filepath.Join(dir, "a.json"), Named1("a.b", h)), ErrBadName)
	assert.ErrorIs(t, Write(filepath.Join(dir, "a.json"), Named1("", h)), ErrBadName)
	assert.ErrorIs(t, Write(filepath.Join(dir, "a.json"), Named1("x", h), Named1("x", h)), ErrBadName)
	assert.ErrorIs(t, Write(filepath.Join(dir, "a.json"), Object{Name: "x"}), ErrMalformed)
	assert.ErrorIs(t, Write(filepath.Join(dir, "a.csv"), Named1("x", h)), ErrUnknownFormat)
	assert.ErrorIs(t, Write(filepath.Join(dir, "a.txt"), Named1("x", h)), ErrUnknownFormat)
}

// TestUnmarshalH1Path reads a histogram embedded in a larger document.
func TestUnmarshalH1Path(t *testing.T) {
	raw, err := MarshalH1(spectrum(t))
	require.NoError(t, err)

	doc := []byte(`{"run":"x","results":[{"method":"bayes","unfolded":` + string(raw) + `}]}`)
	got, err := UnmarshalH1(doc, `results.#(method=="bayes").unfolded`)
	require.NoError(t, err)
	assertH1(t, spectrum(t), got, 0)

	bare, err := UnmarshalH1(raw, "")
	require.NoError(t, err)
	assert.Equal(t, spectrum(t).Contents(), bare.Contents())

	_, err = UnmarshalH1([]byte(`{"kind":"h1","edges":[0,1],"contents":[1]}`), "")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalH1([]byte(`{"kind":"h1","edges":[1,0],"contents":[0,1,0]}`), "")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = UnmarshalH1([]byte(`not json`), "")
	assert.ErrorIs(t, err, ErrMalformed)
}

// TestEventsRoundTrip stores events as CSV and as a ROOT tree.
func TestEventsRoundTrip(t *testing.T) {
	events := []response.Event{
		{Channel: 0, ETrue: 661.657, EMeas: 655.25},
		{Channel: 3, ETrue: 1173.2, EMeas: 1180.125},
		{Channel: 8, ETrue: 1332.5, EMeas: 0},
	}
	for _, name := range []string{"events.csv", "events.root"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteEvents(path, "", events))

			got, err := ReadEvents(path, "")
			require.NoError(t, err)
			assert.Equal(t, events, got)
		})
	}
}

// TestReadEventsCSV accepts headerless input with comments.
func TestReadEventsCSV(t *testing.T) {
	in := "# PARIS ring\n1, 100, 98.5\n\n2,200,201\n"
	got, err := ReadEventsCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []response.Event{
		{Channel: 1, ETrue: 100, EMeas: 98.5},
		{Channel: 2, ETrue: 200, EMeas: 201},
	}, got)

	_, err = ReadEventsCSV(strings.NewReader("1,abc,3\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadEventsCSV(strings.NewReader("1,2\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	var buf bytes.Buffer
	require.NoError(t, WriteEventsCSV(&buf, got))
	assert.Equal(t, "channel,etrue,emeas\n1,100,98.5\n2,200,201\n", buf.String())
}
