package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"periph.io/x/conn/v3/physic"

	"github.com/rook-computer/typewriter/internal/app"
	"github.com/rook-computer/typewriter/internal/config"
	"github.com/rook-computer/typewriter/internal/epd"
	"github.com/rook-computer/typewriter/internal/preview"
	"github.com/rook-computer/typewriter/internal/refresh"
	"github.com/rook-computer/typewriter/internal/system"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "TOML config file (default "+config.DefaultPath+"); also configurable via "+config.EnvConfig)
	debug := flag.Bool("debug", false, "write a debug log to <data-dir>/typewriter-debug.log; also configurable via "+config.EnvDebug)
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+config.EnvStdioLog)
	dataDir := flag.String("data-dir", "", "directory for the working document and snapshots")
	panelKind := flag.String("panel", "", "display backend: epd | fb")
	keyboard := flag.String("keyboard", "", "evdev device to read keys from (default: all keyboards)")
	fontPath := flag.String("font", "", "TrueType/OpenType font file (default: built-in Go Mono)")
	flag.Parse()

	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(config.EnvStdioLog)
	}
	if err := system.RedirectStdIO(logPath); err != nil {
		fmt.Println("stdio log redirect error:", err)
	}

	if *configPath != "" {
		os.Setenv(config.EnvConfig, *configPath)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDir
		case "panel":
			cfg.Panel.Backend = *panelKind
		case "keyboard":
			cfg.Keyboard.Device = *keyboard
		case "font":
			cfg.Layout.FontPath = *fontPath
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		return 2
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug || config.EnvBool(config.EnvDebug) {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			fmt.Println("data dir error:", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "typewriter-debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	var panel refresh.Panel
	switch cfg.Panel.Backend {
	case "fb":
		if err := system.SetGraphicsMode(logger); err == nil {
			defer system.RestoreTextMode(logger)
		}
		panel = preview.NewPanel(cfg.Panel.Framebuffer, cfg.Panel.Width, cfg.Panel.Height, logger)
	default:
		bus := epd.NewPeriphBus(epd.PeriphConfig{
			SPIPort:  cfg.Panel.SPIPort,
			SPISpeed: physic.Frequency(cfg.Panel.SPISpeedHz) * physic.Hertz,
			ResetPin: cfg.Panel.ResetPin,
			DCPin:    cfg.Panel.DCPin,
			BusyPin:  cfg.Panel.BusyPin,
			CSPin:    cfg.Panel.CSPin,
		})
		panel = epd.NewDriver(bus, epd.Options{
			Width:       cfg.Panel.Width,
			Height:      cfg.Panel.Height,
			BusyPoll:    cfg.Timing.BusyPoll(),
			BusyTimeout: cfg.Timing.BusyTimeout(),
			Logger:      logger,
		})
	}

	source := system.NewEvdevSource(cfg.Keyboard.Device, cfg.Keyboard.Grab, logger)
	runner := system.ShellRunner{Sudo: cfg.System.UseSudo, Logger: logger}
	a, err := app.Build(cfg, panel, source, runner, logger)
	if err != nil {
		fmt.Println("startup error:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Typewriter running: panel=%s data=%s\n", cfg.Panel.Backend, cfg.DataDir)
	if err := a.Run(ctx); err != nil {
		logger.Errorf("main", "run: %v", err)
		fmt.Println("typewriter stopped:", err)
		if errors.Is(err, epd.ErrHardwareTimeout) {
			return 3
		}
		return 1
	}
	return 0
}
