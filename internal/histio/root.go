package histio

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/groot/rtree"
	"go-hep.org/x/hep/hbook/rootcnv"

	"github.com/katalvlaran/specunfold/histogram"
	"github.com/katalvlaran/specunfold/response"
)

// Event tree layout written by the detector simulation.
const (
	DefaultTreeName = "resp"

	branchChannel = "parisIndex"
	branchETrue   = "Etrue_keV"
	branchEMeas   = "Emeas_keV"
)

func writeROOT(path string, objs []Object) (err error) {
	f, err := groot.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	for _, o := range objs {
		var obj root.Object
		if o.H1 != nil {
			obj = rhist.NewH1DFrom(toH1D(o.Name, o.H1))
		} else {
			obj = rhist.NewH2DFrom(toH2D(o.Name, o.H2))
		}
		if err = f.Put(o.Name, obj); err != nil {
			return fmt.Errorf("put %q: %w", o.Name, err)
		}
	}

	return nil
}

// getROOT opens path and returns the object stored under name.
func getROOT(path, name string) (root.Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	obj, err := f.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s: %w", ErrNotFound, name, path, err)
	}

	return obj, nil
}

func readROOTH1(path, name string) (*histogram.H1, error) {
	obj, err := getROOT(path, name)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(rhist.H1)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s", ErrWrongType, name, obj.Class())
	}

	return fromH1D(rootcnv.H1D(h))
}

func readROOTH2(path, name string) (*histogram.H2, error) {
	obj, err := getROOT(path, name)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(rhist.H2)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s", ErrWrongType, name, obj.Class())
	}

	return fromH2D(rootcnv.H2D(h))
}

// ReadEventTree reads (channel, Etrue, Emeas) rows from the named TTree.
// An empty tree name selects DefaultTreeName.
func ReadEventTree(path, tree string) ([]response.Event, error) {
	if tree == "" {
		tree = DefaultTreeName
	}
	obj, err := getROOT(path, tree)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s", ErrWrongType, tree, obj.Class())
	}

	var (
		channel      int32
		eTrue, eMeas float64
	)
	r, err := rtree.NewReader(t, []rtree.ReadVar{
		{Name: branchChannel, Value: &channel},
		{Name: branchETrue, Value: &eTrue},
		{Name: branchEMeas, Value: &eMeas},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tree %q: %w", ErrMalformed, tree, err)
	}
	defer r.Close()

	events := make([]response.Event, 0, t.Entries())
	err = r.Read(func(rtree.RCtx) error {
		events = append(events, response.Event{Channel: int(channel), ETrue: eTrue, EMeas: eMeas})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read tree %q: %w", tree, err)
	}

	return events, nil
}

// WriteEventTree stores events as a TTree named tree in a new ROOT file.
func WriteEventTree(path, tree string, events []response.Event) (err error) {
	if tree == "" {
		tree = DefaultTreeName
	}
	if err = checkName(tree); err != nil {
		return err
	}
	f, err := groot.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	var (
		channel      int32
		eTrue, eMeas float64
	)
	w, err := rtree.NewWriter(f, tree, []rtree.WriteVar{
		{Name: branchChannel, Value: &channel},
		{Name: branchETrue, Value: &eTrue},
		{Name: branchEMeas, Value: &eMeas},
	})
	if err != nil {
		return fmt.Errorf("create tree %q: %w", tree, err)
	}

	for _, ev := range events {
		channel, eTrue, eMeas = int32(ev.Channel), ev.ETrue, ev.EMeas
		if _, err = w.Write(); err != nil {
			return errors.Join(fmt.Errorf("write tree %q: %w", tree, err), w.Close())
		}
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("close tree %q: %w", tree, err)
	}

	return nil
}
