// Package config holds playback settings loaded from defaults, an optional TOML file
// and command-line overrides, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/gifterm/player"
	"github.com/lixenwraith/gifterm/terminal"
)

// Output back ends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Logging defaults
const (
	DefaultLogDir     = "logs"
	DefaultLogFile    = "gifterm.log"
	DefaultMaxLogSize = 10 * 1024 * 1024 // 10MB
)

// Duration decodes TOML strings such as "75ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogConfig controls the debug log file
type LogConfig struct {
	Debug   bool   `toml:"debug"`
	Dir     string `toml:"dir"`
	File    string `toml:"file"`
	MaxSize int64  `toml:"max_size"`
}

// Config is the complete set of playback settings
type Config struct {
	Delay           Duration  `toml:"delay"`
	Color           string    `toml:"color"`
	Backend         string    `toml:"backend"`
	AllowInterlaced bool      `toml:"allow_interlaced"`
	Log             LogConfig `toml:"log"`
}

// Default returns the settings used when no file or flag overrides them
func Default() *Config {
	return &Config{
		Delay:   Duration{player.DefaultDelay},
		Color:   terminal.ColorModeTrueColor.String(),
		Backend: BackendANSI,
		Log: LogConfig{
			Dir:     DefaultLogDir,
			File:    DefaultLogFile,
			MaxSize: DefaultMaxLogSize,
		},
	}
}

// Load overlays the TOML file at path onto the defaults
// Keys the file sets but Config does not know are reported as an error
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.Delay.Duration <= 0 {
		errs = append(errs, fmt.Errorf("delay must be positive, got %v", c.Delay.Duration))
	}
	if _, err := terminal.ParseColorMode(c.Color); err != nil {
		errs = append(errs, err)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendANSI, BackendTcell))
	}
	if c.Log.Debug {
		if c.Log.Dir == "" || c.Log.File == "" {
			errs = append(errs, errors.New("log dir and file must be set when debug is enabled"))
		}
		if c.Log.MaxSize <= 0 {
			errs = append(errs, fmt.Errorf("log max_size must be positive, got %d", c.Log.MaxSize))
		}
	}

	return errors.Join(errs...)
}

// ColorMode resolves the configured color setting; "auto" inspects the environment
func (c *Config) ColorMode() terminal.ColorMode {
	mode, err := terminal.ParseColorMode(c.Color)
	if err != nil {
		return terminal.ColorModeTrueColor
	}
	return mode
}
