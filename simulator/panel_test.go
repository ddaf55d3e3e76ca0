package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rook-computer/typewriter/internal/epd"
)

func TestPNGPanelWritesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	p := &pngPanel{path: path, width: 16, height: 2}
	if err := p.FullInit(); err != nil {
		t.Fatal(err)
	}
	frame := []byte{0x7F, 0xFF, 0xFF, 0xFF}
	if err := p.Display(frame); err != nil {
		t.Fatalf("display: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Fatal("pixel (0,0) should be black")
	}
	if r, _, _, _ := img.At(1, 0).RGBA(); r == 0 {
		t.Fatal("pixel (1,0) should be white")
	}
	if p.frames != 1 {
		t.Fatalf("frames = %d", p.frames)
	}
}

func TestPNGPanelRejectsFramesWhileAsleep(t *testing.T) {
	p := &pngPanel{path: filepath.Join(t.TempDir(), "frame.png"), width: 8, height: 1}
	if err := p.Sleep(); err != nil {
		t.Fatal(err)
	}
	if err := p.Display([]byte{0xFF}); !errors.Is(err, epd.ErrSleeping) {
		t.Fatalf("err = %v, want ErrSleeping", err)
	}
}
