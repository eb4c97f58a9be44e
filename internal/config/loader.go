package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SPECUNFOLD_"
)

// Load reads configuration from the YAML file at path, then applies
// environment overrides. An empty path skips the file.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SPECUNFOLD_UNFOLD__BAYES__MAX_ITER, ...)
//  2. YAML config file
//  3. Default()
//
// # Environment Variable Mapping
//
// The prefix is stripped, the rest is lowercased and a double underscore
// separates nesting levels, so single underscores stay inside field names:
//
//	SPECUNFOLD_LOGGING__LEVEL           -> logging.level
//	SPECUNFOLD_UNFOLD__BAYES__MAX_ITER  -> unfold.bayes.max_iter
//	SPECUNFOLD_UNFOLD__METHODS=bayes,gold
func Load(path string) (*Config, error) {
	var content []byte
	if path != "" {
		b, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		content = b
	}

	return Parse(content)
}

// Parse is Load for YAML already in memory.
func Parse(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if k.Exists("unfold.methods") {
		// Replace the default list instead of merging into it.
		cfg.Unfold.Methods = nil
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps SPECUNFOLD_UNFOLD__BAYES__MAX_ITER to unfold.bayes.max_iter.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)

	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// readConfigFile reads path, rejecting directories and oversized files.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return content, nil
}
