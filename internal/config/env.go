package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvConfig        = "TYPEWRITER_CONFIG"
	EnvDebug         = "TYPEWRITER_DEBUG"
	EnvStdioLog      = "TYPEWRITER_STDIO_LOG"
	EnvDataDir       = "TYPEWRITER_DATA_DIR"
	EnvPanel         = "TYPEWRITER_PANEL"
	EnvKeyboard      = "TYPEWRITER_KEYBOARD"
	EnvFont          = "TYPEWRITER_FONT"
	EnvCharsPerLine  = "TYPEWRITER_CHARS_PER_LINE"
	EnvLinesOnScreen = "TYPEWRITER_LINES_ON_SCREEN"
	EnvRefreshMS     = "TYPEWRITER_REFRESH_MS"
	EnvSudo          = "TYPEWRITER_SUDO"
)

// FromEnv loads the file named by TYPEWRITER_CONFIG (or DefaultPath) and
// applies environment overrides.
func FromEnv() (Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TYPEWRITER_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvPanel); v != "" {
		c.Panel.Backend = v
	}
	if v := getenv(EnvKeyboard); v != "" {
		c.Keyboard.Device = v
	}
	if v := getenv(EnvFont); v != "" {
		c.Layout.FontPath = v
	}
	if err := envInt(getenv, EnvCharsPerLine, &c.Layout.CharsPerLine); err != nil {
		return err
	}
	if err := envInt(getenv, EnvLinesOnScreen, &c.Layout.LinesOnScreen); err != nil {
		return err
	}
	if err := envInt(getenv, EnvRefreshMS, &c.Timing.RefreshIntervalMS); err != nil {
		return err
	}
	if raw := getenv(EnvSudo); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", EnvSudo, raw, err)
		}
		c.System.UseSudo = parsed
	}
	return nil
}

// EnvBool reports whether the named variable holds a true boolean.
// Unparseable values count as false.
func EnvBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

func envInt(getenv func(string) string, name string, dst *int) error {
	raw := getenv(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s must be an integer (got %q): %w", name, raw, err)
	}
	*dst = n
	return nil
}
