package histio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/specunfold/response"
)

var csvHeader = []string{"channel", "etrue", "emeas"}

// ReadEvents loads events from a ROOT tree or a CSV file. tree is ignored
// for CSV.
func ReadEvents(path, tree string) ([]response.Event, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatROOT:
		return ReadEventTree(path, tree)
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		return ReadEventsCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s cannot hold events", ErrUnknownFormat, format)
	}
}

// WriteEvents stores events as a ROOT tree or a CSV file.
func WriteEvents(path, tree string, events []response.Event) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatROOT:
		return WriteEventTree(path, tree, events)
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err = WriteEventsCSV(f, events); err != nil {
			return errors.Join(err, f.Close())
		}

		return f.Close()
	default:
		return fmt.Errorf("%w: %s cannot hold events", ErrUnknownFormat, format)
	}
}

// ReadEventsCSV parses "channel,etrue,emeas" rows. A header row is
// optional; blank lines and lines starting with '#' are skipped.
func ReadEventsCSV(r io.Reader) ([]response.Event, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var events []response.Event
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if line == 1 && strings.EqualFold(rec[0], csvHeader[0]) {
			continue
		}
		ev, err := parseEvent(rec)
		if err != nil {
			row, _ := cr.FieldPos(0)

			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, row, err)
		}
		events = append(events, ev)
	}

	return events, nil
}

func parseEvent(rec []string) (response.Event, error) {
	ch, err := strconv.Atoi(rec[0])
	if err != nil {
		return response.Event{}, fmt.Errorf("channel: %w", err)
	}
	eTrue, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return response.Event{}, fmt.Errorf("etrue: %w", err)
	}
	eMeas, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return response.Event{}, fmt.Errorf("emeas: %w", err)
	}

	return response.Event{Channel: ch, ETrue: eTrue, EMeas: eMeas}, nil
}

// WriteEventsCSV writes events with a header row.
func WriteEventsCSV(w io.Writer, events []response.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	rec := make([]string, len(csvHeader))
	for _, ev := range events {
		rec[0] = strconv.Itoa(ev.Channel)
		rec[1] = strconv.FormatFloat(ev.ETrue, 'g', -1, 64)
		rec[2] = strconv.FormatFloat(ev.EMeas, 'g', -1, 64)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
