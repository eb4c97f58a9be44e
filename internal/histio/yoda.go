package histio

import (
	"bufio"
	"fmt"
	"os"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/yodacnv"

	"github.com/katalvlaran/specunfold/histogram"
)

func writeYODAFile(path string, objs []Object) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	values := make([]yodacnv.Marshaler, 0, len(objs))
	for _, o := range objs {
		if o.H1 != nil {
			values = append(values, toH1D(o.Name, o.H1))
		} else {
			values = append(values, toH2D(o.Name, o.H2))
		}
	}

	w := bufio.NewWriter(f)
	if err = yodacnv.Write(w, values...); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return w.Flush()
}

// findYODA scans the YODA file at path for the object called name.
func findYODA(path, name string) (any, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	values, err := yodacnv.Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	for _, v := range values {
		switch h := v.(type) {
		case *hbook.H1D:
			if hbookName(h.Annotation()) == name {
				return h, nil
			}
		case *hbook.H2D:
			if hbookName(h.Annotation()) == name {
				return h, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, name, path)
}

func readYODAH1(path, name string) (*histogram.H1, error) {
	v, err := findYODA(path, name)
	if err != nil {
		return nil, err
	}
	h, ok := v.(*hbook.H1D)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a 1D histogram", ErrWrongType, name)
	}

	return fromH1D(h)
}

func readYODAH2(path, name string) (*histogram.H2, error) {
	v, err := findYODA(path, name)
	if err != nil {
		return nil, err
	}
	h, ok := v.(*hbook.H2D)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a 2D histogram", ErrWrongType, name)
	}

	return fromH2D(h)
}
