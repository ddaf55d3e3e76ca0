// Package config holds the typewriter's settings. Values come from, in
// increasing precedence: built-in defaults, an optional TOML file,
// TYPEWRITER_* environment variables, and command-line flags (applied by
// the binaries).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "/etc/typewriter.toml"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	DataDir        string `toml:"data_dir"`
	WorkingFile    string `toml:"working_file"`
	SnapshotPrefix string `toml:"snapshot_prefix"`

	Panel    Panel    `toml:"panel"`
	Layout   Layout   `toml:"layout"`
	Timing   Timing   `toml:"timing"`
	Keyboard Keyboard `toml:"keyboard"`
	System   System   `toml:"system"`
}

// Panel selects the display backend and, for the e-paper panel, its wiring.
type Panel struct {
	Backend     string `toml:"backend"` // "epd" or "fb"
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	SPIPort     string `toml:"spi_port"`
	SPISpeedHz  int64  `toml:"spi_speed_hz"`
	ResetPin    string `toml:"reset_pin"`
	DCPin       string `toml:"dc_pin"`
	BusyPin     string `toml:"busy_pin"`
	CSPin       string `toml:"cs_pin"`
	Framebuffer string `toml:"framebuffer"`
}

type Layout struct {
	CharsPerLine  int     `toml:"chars_per_line"`
	LinesOnScreen int     `toml:"lines_on_screen"`
	LineSpacing   int     `toml:"line_spacing"`
	FontPath      string  `toml:"font_path"`
	FontSize      float64 `toml:"font_size"`
	TextX         int     `toml:"text_x"`
	InputY        int     `toml:"input_y"`
	MessageX      int     `toml:"message_x"`
}

type Timing struct {
	RefreshIntervalMS int `toml:"refresh_interval_ms"`
	TickMS            int `toml:"tick_ms"`
	BusyPollMS        int `toml:"busy_poll_ms"`
	BusyTimeoutMS     int `toml:"busy_timeout_ms"`
	CommandTimeoutMS  int `toml:"command_timeout_ms"`
}

type Keyboard struct {
	Device string `toml:"device"` // empty scans /dev/input for keyboards
	Grab   bool   `toml:"grab"`
}

type System struct {
	UseSudo bool `toml:"use_sudo"`
}

func Default() Config {
	return Config{
		DataDir:        "./data",
		WorkingFile:    "cache.txt",
		SnapshotPrefix: "zw_",
		Panel: Panel{
			Backend:     "epd",
			Width:       800,
			Height:      480,
			SPISpeedHz:  4_000_000,
			ResetPin:    "GPIO17",
			DCPin:       "GPIO25",
			BusyPin:     "GPIO24",
			Framebuffer: "/dev/fb0",
		},
		Layout: Layout{
			CharsPerLine:  40,
			LinesOnScreen: 12,
			LineSpacing:   38,
			FontSize:      32,
			TextX:         10,
			InputY:        440,
			MessageX:      650,
		},
		Timing: Timing{
			RefreshIntervalMS: 250,
			TickMS:            10,
			BusyPollMS:        20,
			BusyTimeoutMS:     10_000,
			CommandTimeoutMS:  5_000,
		},
		Keyboard: Keyboard{Grab: true},
		System:   System{UseSudo: true},
	}
}

// Load returns the defaults overlaid with the TOML file at path. A missing
// file is not an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays TOML data onto cfg.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return fmt.Errorf("%w: line %d column %d: %s", ErrInvalid, row, col, de.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir is empty", ErrInvalid)
	case c.WorkingFile == "":
		return fmt.Errorf("%w: working_file is empty", ErrInvalid)
	case c.Panel.Backend != "epd" && c.Panel.Backend != "fb":
		return fmt.Errorf("%w: panel.backend must be epd or fb (got %q)", ErrInvalid, c.Panel.Backend)
	case c.Panel.Width <= 0 || c.Panel.Height <= 0:
		return fmt.Errorf("%w: panel size %dx%d", ErrInvalid, c.Panel.Width, c.Panel.Height)
	case c.Panel.Width%8 != 0:
		return fmt.Errorf("%w: panel.width %d is not a multiple of 8", ErrInvalid, c.Panel.Width)
	case c.Layout.CharsPerLine < 2:
		return fmt.Errorf("%w: chars_per_line must be at least 2", ErrInvalid)
	case c.Layout.LinesOnScreen < 1:
		return fmt.Errorf("%w: lines_on_screen must be at least 1", ErrInvalid)
	case c.Layout.LineSpacing <= 0 || c.Layout.FontSize <= 0:
		return fmt.Errorf("%w: line_spacing and font_size must be positive", ErrInvalid)
	case c.Layout.InputY <= 0 || c.Layout.InputY >= c.Panel.Height:
		return fmt.Errorf("%w: input_y %d outside panel", ErrInvalid, c.Layout.InputY)
	case c.Timing.RefreshIntervalMS < 0 || c.Timing.TickMS <= 0:
		return fmt.Errorf("%w: refresh_interval_ms must be >= 0 and tick_ms > 0", ErrInvalid)
	case c.Timing.BusyPollMS <= 0 || c.Timing.BusyTimeoutMS <= c.Timing.BusyPollMS:
		return fmt.Errorf("%w: busy_timeout_ms must exceed busy_poll_ms", ErrInvalid)
	}
	if c.Panel.Backend == "epd" && (c.Panel.ResetPin == "" || c.Panel.DCPin == "" || c.Panel.BusyPin == "") {
		return fmt.Errorf("%w: epd backend needs reset_pin, dc_pin and busy_pin", ErrInvalid)
	}
	return nil
}

func (t Timing) RefreshInterval() time.Duration { return ms(t.RefreshIntervalMS) }
func (t Timing) Tick() time.Duration            { return ms(t.TickMS) }
func (t Timing) BusyPoll() time.Duration        { return ms(t.BusyPollMS) }
func (t Timing) BusyTimeout() time.Duration     { return ms(t.BusyTimeoutMS) }
func (t Timing) CommandTimeout() time.Duration  { return ms(t.CommandTimeoutMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
