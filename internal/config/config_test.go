package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Layout.CharsPerLine != 40 || cfg.Layout.LinesOnScreen != 12 {
		t.Fatalf("layout = %+v", cfg.Layout)
	}
	if cfg.Timing.RefreshInterval() != 250*time.Millisecond {
		t.Fatalf("refresh interval = %s", cfg.Timing.RefreshInterval())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Panel.Width != 800 {
		t.Fatalf("width = %d", cfg.Panel.Width)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typewriter.toml")
	body := `
data_dir = "/home/pi/writing"

[panel]
backend = "fb"

[layout]
chars_per_line = 52
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/home/pi/writing" || cfg.Panel.Backend != "fb" || cfg.Layout.CharsPerLine != 52 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Layout.LinesOnScreen != 12 {
		t.Fatal("unset keys must keep their defaults")
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := Decode([]byte("[layout]\ncolumns = 3\n"), &cfg)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDataDir:      "/tmp/tw",
		EnvCharsPerLine: "30",
		EnvSudo:         "false",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.DataDir != "/tmp/tw" || cfg.Layout.CharsPerLine != 30 || cfg.System.UseSudo {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestApplyEnvBadInteger(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvLinesOnScreen {
			return "many"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), EnvLinesOnScreen) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Panel.Backend = "lcd" }},
		{"width", func(c *Config) { c.Panel.Width = 0 }},
		{"stride", func(c *Config) { c.Panel.Width = 801 }},
		{"chars", func(c *Config) { c.Layout.CharsPerLine = 1 }},
		{"lines", func(c *Config) { c.Layout.LinesOnScreen = 0 }},
		{"input row", func(c *Config) { c.Layout.InputY = 480 }},
		{"busy", func(c *Config) { c.Timing.BusyTimeoutMS = c.Timing.BusyPollMS }},
		{"pins", func(c *Config) { c.Panel.BusyPin = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFramebufferBackendNeedsNoPins(t *testing.T) {
	cfg := Default()
	cfg.Panel.Backend = "fb"
	cfg.Panel.BusyPin = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("err = %v", err)
	}
}
