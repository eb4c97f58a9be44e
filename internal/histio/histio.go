// Package histio reads and writes histograms and detector events.
//
// Histograms travel as ROOT files (TH1D/TH2D), YODA text or JSON documents;
// events as a ROOT TTree or CSV. The format is chosen from the file
// extension.
package histio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/specunfold/histogram"
)

var (
	// ErrUnknownFormat is returned for an unsupported file extension.
	ErrUnknownFormat = errors.New("histio: unknown file format")

	// ErrNotFound is returned when the named object is absent.
	ErrNotFound = errors.New("histio: object not found")

	// ErrWrongType is returned when the named object has another rank.
	ErrWrongType = errors.New("histio: object has the wrong type")

	// ErrMalformed is returned for a document that does not describe a
	// histogram or event list.
	ErrMalformed = errors.New("histio: malformed input")

	// ErrBadName is returned for an empty object name or one holding path
	// syntax.
	ErrBadName = errors.New("histio: invalid object name")
)

// Format identifies a file format.
type Format string

const (
	FormatROOT Format = "root"
	FormatYODA Format = "yoda"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatOf maps a file extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".root":
		return FormatROOT, nil
	case ".yoda":
		return FormatYODA, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Object is one named histogram to write. Exactly one of H1, H2 is set.
type Object struct {
	Name string
	H1   *histogram.H1
	H2   *histogram.H2
}

// Named1 wraps a 1D histogram as an Object.
func Named1(name string, h *histogram.H1) Object { return Object{Name: name, H1: h} }

// Named2 wraps a 2D histogram as an Object.
func Named2(name string, h *histogram.H2) Object { return Object{Name: name, H2: h} }

func (o Object) validate() error {
	if err := checkName(o.Name); err != nil {
		return err
	}
	if (o.H1 == nil) == (o.H2 == nil) {
		return fmt.Errorf("%w: %q must hold exactly one histogram", ErrMalformed, o.Name)
	}

	return nil
}

// checkName rejects names that ROOT keys or JSON paths cannot carry.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, "./\\*?|#@ ") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}

	return nil
}

// Write stores objs in a new file at path, replacing any existing file.
func Write(path string, objs ...Object) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(objs))
	for _, o := range objs {
		if err := o.validate(); err != nil {
			return err
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate %q", ErrBadName, o.Name)
		}
		seen[o.Name] = true
	}

	switch format {
	case FormatROOT:
		return writeROOT(path, objs)
	case FormatYODA:
		return writeYODAFile(path, objs)
	case FormatJSON:
		return writeJSONFile(path, objs)
	default:
		return fmt.Errorf("%w: %s cannot hold histograms", ErrUnknownFormat, format)
	}
}

// ReadH1 loads the 1D histogram called name from path. For JSON an empty
// name reads a document that is itself a histogram.
func ReadH1(path, name string) (*histogram.H1, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatROOT:
		return readROOTH1(path, name)
	case FormatYODA:
		return readYODAH1(path, name)
	case FormatJSON:
		return readJSONH1(path, name)
	default:
		return nil, fmt.Errorf("%w: %s cannot hold histograms", ErrUnknownFormat, format)
	}
}

// ReadH2 loads the 2D histogram called name from path.
func ReadH2(path, name string) (*histogram.H2, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatROOT:
		return readROOTH2(path, name)
	case FormatYODA:
		return readYODAH2(path, name)
	case FormatJSON:
		return readJSONH2(path, name)
	default:
		return nil, fmt.Errorf("%w: %s cannot hold histograms", ErrUnknownFormat, format)
	}
}
