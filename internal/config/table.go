package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/specunfold/response"
)

// resolutionFile is the TOML layout of a resolution table:
//
//	[channels.PARIS70]
//	a = 1.80973
//	power = -0.550685
type resolutionFile struct {
	Channels map[string]response.ResolutionParams `toml:"channels"`
}

// LoadResolutionTable decodes the TOML resolution table at path. Unknown
// keys are rejected so that a misspelt constant cannot silently become 0.
func LoadResolutionTable(path string) (response.ResolutionTable, error) {
	content, err := readConfigFile(path)
	if err != nil {
		return response.ResolutionTable{}, err
	}

	return ParseResolutionTable(content)
}

// ParseResolutionTable is LoadResolutionTable for TOML already in memory.
func ParseResolutionTable(content []byte) (response.ResolutionTable, error) {
	var f resolutionFile
	md, err := toml.Decode(string(content), &f)
	if err != nil {
		return response.ResolutionTable{}, fmt.Errorf("failed to parse resolution table: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)

		return response.ResolutionTable{}, fmt.Errorf("unknown resolution table keys: %s", strings.Join(keys, ", "))
	}

	table, err := response.NewResolutionTable(f.Channels)
	if err != nil {
		return response.ResolutionTable{}, fmt.Errorf("resolution table: %w", err)
	}

	return table, nil
}

// Table returns the table named by b.ResolutionTable, or the
// built-in PARIS presets when no file is configured.
func (b BinningConfig) Table() (response.ResolutionTable, error) {
	if b.ResolutionTable == "" {
		return response.DefaultResolutionTable(), nil
	}

	return LoadResolutionTable(b.ResolutionTable)
}
