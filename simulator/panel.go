package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rook-computer/typewriter/internal/epd"
)

// pngPanel writes every frame to a PNG file, replacing it atomically so an
// image viewer with auto-reload can follow along. Latency emulates the
// panel's refresh time.
type pngPanel struct {
	path    string
	width   int
	height  int
	latency time.Duration
	frames  int
	asleep  bool
}

func (p *pngPanel) FullInit() error    { p.asleep = false; return nil }
func (p *pngPanel) PartialInit() error { p.asleep = false; return nil }
func (p *pngPanel) Sleep() error       { p.asleep = true; return nil }

func (p *pngPanel) Display(frame []byte) error {
	if p.asleep {
		return epd.ErrSleeping
	}
	img, err := epd.UnpackBitmap(frame, p.width, p.height)
	if err != nil {
		return err
	}
	time.Sleep(p.latency)
	p.frames++
	return p.write(img)
}

func (p *pngPanel) Clear() error {
	img := image.NewGray(image.Rect(0, 0, p.width, p.height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return p.write(img)
}

func (p *pngPanel) write(img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("frame temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.path)
}
