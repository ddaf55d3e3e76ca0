// Package preview shows panel frames on a Linux framebuffer, for running
// the typewriter on an HDMI screen or checking layouts without the e-paper
// hardware attached.
package preview

import (
	"image"
	"image/color"
	"image/draw"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/typewriter/internal/epd"
	"github.com/rook-computer/typewriter/internal/render/layout"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Panel accepts the same packed frames as the e-paper driver and draws
// them scaled to fit the framebuffer, letterboxed in black.
type Panel struct {
	Path   string
	Width  int
	Height int
	Logger Logger

	dev    *fb.Device
	canvas *image.RGBA
}

func NewPanel(path string, width, height int, logger Logger) *Panel {
	return &Panel{Path: path, Width: width, Height: height, Logger: logger}
}

func (p *Panel) FullInit() error    { return p.open() }
func (p *Panel) PartialInit() error { return p.open() }

func (p *Panel) open() error {
	if p.dev != nil {
		return nil
	}
	dev, err := fb.Open(p.Path)
	if err != nil {
		return err
	}
	p.dev = dev
	b := dev.Bounds()
	p.canvas = image.NewRGBA(b)
	if p.Logger != nil {
		p.Logger.Infof("preview", "framebuffer %s open, bounds=%dx%d", p.Path, b.Dx(), b.Dy())
	}
	return nil
}

func (p *Panel) Display(frame []byte) error {
	if p.dev == nil {
		return epd.ErrNotInitialized
	}
	img, err := epd.UnpackBitmap(frame, p.Width, p.Height)
	if err != nil {
		return err
	}
	Blit(p.canvas, img)
	draw.Draw(p.dev, p.dev.Bounds(), p.canvas, p.canvas.Bounds().Min, draw.Src)
	return nil
}

func (p *Panel) Clear() error {
	if p.dev == nil {
		return epd.ErrNotInitialized
	}
	white := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(white, white.Bounds(), image.White, image.Point{}, draw.Src)
	Blit(p.canvas, white)
	draw.Draw(p.dev, p.dev.Bounds(), p.canvas, p.canvas.Bounds().Min, draw.Src)
	return nil
}

// Sleep releases the framebuffer.
func (p *Panel) Sleep() error {
	if p.dev == nil {
		return nil
	}
	p.dev.Close()
	p.dev = nil
	return nil
}

// Blit draws img scaled to the largest centered rectangle of dst with the
// same aspect ratio.
func Blit(dst draw.Image, img image.Image) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
	src := img.Bounds()
	if src.Empty() || bounds.Empty() {
		return
	}
	w, h := bounds.Dx(), src.Dy()*bounds.Dx()/src.Dx()
	if h > bounds.Dy() {
		w, h = src.Dx()*bounds.Dy()/src.Dy(), bounds.Dy()
	}
	xdraw.NearestNeighbor.Scale(dst, layout.Center(bounds, w, h), img, src, xdraw.Src, nil)
}
