// SPDX-License-Identifier: MIT

package response

import (
	"fmt"
	"sort"
)

// ResolutionTable maps a detector channel name to its resolution constants.
// It is immutable after construction and safe for concurrent reads.
type ResolutionTable struct {
	entries map[string]ResolutionParams
}

// NewResolutionTable validates and copies entries.
//
// Errors:
//   - ErrEmptyTable for no entries.
//   - ErrInvalidResolution (wrapped with the channel name) for a bad entry.
func NewResolutionTable(entries map[string]ResolutionParams) (ResolutionTable, error) {
	if len(entries) == 0 {
		return ResolutionTable{}, ErrEmptyTable
	}
	cp := make(map[string]ResolutionParams, len(entries))
	for name, p := range entries {
		if err := p.Validate(); err != nil {
			return ResolutionTable{}, fmt.Errorf("channel %q: %w", name, err)
		}
		cp[name] = p
	}

	return ResolutionTable{entries: cp}, nil
}

// DefaultResolutionTable returns the PARIS detector ring constants.
func DefaultResolutionTable() ResolutionTable {
	return ResolutionTable{entries: map[string]ResolutionParams{
		"PARIS50":  {A: 1.12145, Power: -0.441244},
		"PARIS70":  {A: 1.80973, Power: -0.550685},
		"PARIS90":  {A: 1.94868, Power: -0.564616},
		"PARIS110": {A: 2.11922, Power: -0.582147},
		"PARIS130": {A: 0.794233, Power: -0.377311},
		"PARIS235": {A: 1.30727, Power: -0.477402},
		"PARIS262": {A: 1.76345, Power: -0.542769},
		"PARIS278": {A: 1.98579, Power: -0.559095},
		"PARIS305": {A: 1.9886, Power: -0.574021},
	}}
}

// Lookup returns the constants for name.
//
// Errors: ErrUnknownChannel.
func (t ResolutionTable) Lookup(name string) (ResolutionParams, error) {
	p, ok := t.entries[name]
	if !ok {
		return ResolutionParams{}, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}

	return p, nil
}

// Names returns the channel names in lexicographic order.
func (t ResolutionTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of channels.
func (t ResolutionTable) Len() int { return len(t.entries) }
