// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config tunes an Engine.
type Config struct {
	// ClearHistory bounds the number of clears remembered per
	// attachment for duplicate detection. Zero keeps every clear.
	ClearHistory int `toml:"clear_history" yaml:"clear_history"`
	// MaxAnomalies bounds the number of anomalies kept for reporting.
	// Anomalies past the bound are still logged and counted.
	MaxAnomalies int `toml:"max_anomalies" yaml:"max_anomalies"`
	// Strict makes assertion violations panic instead of being
	// recorded.
	Strict bool `toml:"strict" yaml:"strict"`
	// LogLevel selects a production logger at the given level when
	// no logger is supplied with WithLogger. Empty disables logging.
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// PreserveOnSwap treats window surfaces as EGL_BUFFER_PRESERVED
	// unless eglSurfaceAttrib says otherwise.
	PreserveOnSwap bool `toml:"preserve_on_swap" yaml:"preserve_on_swap"`
	// RecordDuplicates keeps the classification of every
	// state-setting call so that Engine.Class can report it.
	RecordDuplicates bool `toml:"record_duplicates" yaml:"record_duplicates"`
}

// DefaultConfig returns the configuration used by New when none is
// given.
func DefaultConfig() Config {
	return Config{
		ClearHistory:     16,
		MaxAnomalies:     1024,
		RecordDuplicates: true,
	}
}

// LoadConfig reads a TOML or YAML configuration file, selected by
// extension. Unset fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("state: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return ParseConfig(data, "toml")
	case ".yaml", ".yml":
		return ParseConfig(data, "yaml")
	default:
		return Config{}, fmt.Errorf("state: unknown config format %q", ext)
	}
}

// ParseConfig decodes data in the named format ("toml" or "yaml") on
// top of DefaultConfig.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch format {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return Config{}, fmt.Errorf("state: unknown config format %q", format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("state: parse %s config: %w", format, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ClearHistory < 0 {
		return fmt.Errorf("state: clear_history must not be negative, got %d", c.ClearHistory)
	}
	if c.MaxAnomalies < 0 {
		return fmt.Errorf("state: max_anomalies must not be negative, got %d", c.MaxAnomalies)
	}
	return nil
}
