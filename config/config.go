// Package config holds the settings shared by the converter, the simulator
// and the scan drivers.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/ladderlogic/convert"
	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/validate"
)

// Config is the tool configuration. The zero value is not valid; start from
// Default.
type Config struct {
	ScanPeriod           time.Duration `yaml:"scan_period"`
	TraceUnknown         string        `yaml:"trace_unknown"`
	MemoizeStateful      bool          `yaml:"memoize_stateful"`
	DefaultTimerPreset   string        `yaml:"default_timer_preset"`
	DefaultCounterPreset string        `yaml:"default_counter_preset"`
	LogLevel             string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScanPeriod:           100 * time.Millisecond,
		TraceUnknown:         string(convert.ContinuePastUnknown),
		MemoizeStateful:      false,
		DefaultTimerPreset:   "T#1s",
		DefaultCounterPreset: "10",
		LogLevel:             "info",
	}
}

// Load reads a YAML file on top of the defaults. A missing file yields the
// defaults. Unknown keys are rejected.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c Config) Save(fsys afero.Fs, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	v := validate.New("config", "")

	v.Check(c.ScanPeriod > 0, "scan_period", "must be positive, got %s", c.ScanPeriod)

	policy := convert.UnknownPolicy(c.TraceUnknown)
	v.Check(policy == convert.ContinuePastUnknown || policy == convert.StopAtUnknown,
		"trace_unknown", "must be %q or %q, got %q",
		convert.ContinuePastUnknown, convert.StopAtUnknown, c.TraceUnknown)

	_, ok := core.ParseTimeLiteral(c.DefaultTimerPreset)
	v.Check(ok, "default_timer_preset", "must be a T# literal, got %q", c.DefaultTimerPreset)

	_, err := strconv.Atoi(strings.TrimSpace(c.DefaultCounterPreset))
	v.Check(err == nil, "default_counter_preset", "must be an integer, got %q", c.DefaultCounterPreset)

	_, err = parseLevel(c.LogLevel)
	v.Check(err == nil, "log_level", "%v", err)

	return v.Err()
}

// WithScanPeriod sets the scan period.
func (c Config) WithScanPeriod(d time.Duration) Config {
	c.ScanPeriod = d
	return c
}

// WithTraceUnknown sets what Trace does after an unknown element.
func (c Config) WithTraceUnknown(policy convert.UnknownPolicy) Config {
	c.TraceUnknown = string(policy)
	return c
}

// WithMemoizeStateful turns per-cycle memoization of timers and counters on
// or off.
func (c Config) WithMemoizeStateful(on bool) Config {
	c.MemoizeStateful = on
	return c
}

// WithLogLevel sets the log level by name.
func (c Config) WithLogLevel(level string) Config {
	c.LogLevel = level
	return c
}

// ConvertOptions derives the converter options.
func (c Config) ConvertOptions() convert.Options {
	return convert.Options{
		DefaultTimerPreset:   c.DefaultTimerPreset,
		DefaultCounterPreset: c.DefaultCounterPreset,
		UnknownElements:      convert.UnknownPolicy(c.TraceUnknown),
	}
}

// CoreOptions derives the simulator options.
func (c Config) CoreOptions() core.Options {
	return core.Options{MemoizeStateful: c.MemoizeStateful}
}

// ScanFreq is the scan rate as an akita frequency.
func (c Config) ScanFreq() sim.Freq {
	return sim.Freq(1 / c.ScanPeriod.Seconds())
}

// SlogLevel returns the configured log level, or info if it is invalid.
func (c Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return core.LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
