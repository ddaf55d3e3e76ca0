// Command simulator runs the typewriter in a terminal. Keys come from the
// terminal in raw mode and frames are written to a PNG file (or a Linux
// framebuffer), so the editor can be used without the e-paper hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/rook-computer/typewriter/internal/app"
	"github.com/rook-computer/typewriter/internal/config"
	"github.com/rook-computer/typewriter/internal/keys"
	"github.com/rook-computer/typewriter/internal/preview"
	"github.com/rook-computer/typewriter/internal/refresh"
	"github.com/rook-computer/typewriter/internal/state"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	dataDir := flag.String("data-dir", "/tmp/typewriter-sim", "directory for the working document and snapshots")
	out := flag.String("out", "", "PNG file receiving each frame (default <data-dir>/frame.png)")
	fbPath := flag.String("fb", "", "draw frames on this framebuffer instead of a PNG file")
	latency := flag.Duration("latency", 300*time.Millisecond, "simulated panel refresh time")
	debug := flag.Bool("debug", false, "write a debug log to <data-dir>/typewriter-debug.log")
	flag.Parse()

	cfg.DataDir = *dataDir
	cfg.Panel.Backend = "fb"
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Println("data dir error:", err)
		os.Exit(1)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "typewriter-debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Println("debug log open error:", err)
		} else {
			defer f.Close()
			logger = app.NewFileLogger(f)
		}
	}

	var panel refresh.Panel
	if *fbPath != "" {
		panel = preview.NewPanel(*fbPath, cfg.Panel.Width, cfg.Panel.Height, logger)
	} else {
		path := *out
		if path == "" {
			path = filepath.Join(cfg.DataDir, "frame.png")
		}
		panel = &pngPanel{path: path, width: cfg.Panel.Width, height: cfg.Panel.Height, latency: *latency}
		fmt.Println("Frames:", path)
	}

	source := keys.NewChanSource(64)
	a, err := app.Build(cfg, panel, source, simRunner{out: os.Stdout}, logger)
	if err != nil {
		fmt.Println("startup error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Println("stdin is not a terminal")
		os.Exit(1)
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("raw mode:", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	fmt.Print("Typewriter simulator. ctrl+] powers off, ctrl+c quits.\r\n")
	go readKeys(ctx, cancel, source)
	go showStatus(ctx, a.Store)

	if err := a.Run(ctx); err != nil {
		term.Restore(fd, oldState)
		fmt.Println("typewriter stopped:", err)
		os.Exit(1)
	}
}

func readKeys(ctx context.Context, quit context.CancelFunc, source *keys.ChanSource) {
	var tr translator
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			quit()
			return
		}
		events, stop := tr.Translate(buf[:n])
		for _, ev := range events {
			if !source.Send(ctx, ev) {
				return
			}
		}
		if stop {
			quit()
			return
		}
	}
}

func showStatus(ctx context.Context, store *state.Store) {
	updates := store.Subscribe()
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-updates:
			line := fmt.Sprintf("%-14s %4d lines %-8s > %s", s.Phase, s.Lines, s.Page, s.Active)
			if s.Overlay != "" {
				line = fmt.Sprintf("%-14s [%s screen, any key returns]", s.Phase, s.Overlay)
			}
			line = runewidth.Truncate(line, width-1, "")
			fmt.Printf("\r\x1b[K%s", line)
		}
	}
}
