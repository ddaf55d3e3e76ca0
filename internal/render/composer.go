// Package render turns editor state into 1-bit panel frames.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/typewriter/internal/render/layout"
)

type Screen int

const (
	ScreenEditor Screen = iota
	ScreenShare
	ScreenNetwork
	ScreenShutdown
)

// View is everything the composer needs to draw one frame.
type View struct {
	Screen Screen

	History   []string // visible committed lines, oldest first
	Active    string
	Cursor    int
	Reviewing bool
	Message   string

	Title   string
	Lines   []string
	Payload string
}

type Options struct {
	Width         int
	Height        int
	CharsPerLine  int
	LinesOnScreen int
	LineSpacing   int
	TextX         int
	InputY        int
	MessageX      int
	ShutdownAt    image.Point
}

const caret = "|"

// Composer owns the canvas the panel image is drawn on. Active-line redraws
// only touch the input row, so the rest of the previous frame survives.
type Composer struct {
	Logger Logger

	opts   Options
	face   font.Face
	panel  layout.Panel
	canvas *image.Gray
}

func NewComposer(opts Options, face font.Face) *Composer {
	if opts.ShutdownAt == (image.Point{}) {
		opts.ShutdownAt = image.Pt(200, 240)
	}
	c := &Composer{
		opts: opts,
		face: face,
		panel: layout.Panel{
			Bounds:   image.Rect(0, 0, opts.Width, opts.Height),
			InputY:   opts.InputY,
			MessageX: opts.MessageX,
		},
		canvas: image.NewGray(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	c.fill(c.canvas.Bounds())
	return c
}

func (c *Composer) Canvas() *image.Gray { return c.canvas }

// ComposeFull redraws the whole canvas for v.
func (c *Composer) ComposeFull(v View) *image.Gray {
	c.fill(c.canvas.Bounds())
	switch v.Screen {
	case ScreenShare:
		c.drawShare(v)
	case ScreenNetwork:
		c.drawNetwork(v)
	case ScreenShutdown:
		c.text(c.opts.ShutdownAt.X, c.opts.ShutdownAt.Y, v.Title)
	default:
		c.drawHistory(v.History)
		if !v.Reviewing {
			c.drawInput(v)
		}
		if v.Message != "" {
			box := c.panel.MessageBox()
			c.fill(box)
			c.text(box.Min.X, box.Min.Y, v.Message)
		}
	}
	return c.canvas
}

// ComposeActiveLine redraws only the input row.
func (c *Composer) ComposeActiveLine(v View) *image.Gray {
	c.fill(c.panel.InputRow())
	c.drawInput(v)
	return c.canvas
}

func (c *Composer) drawHistory(lines []string) {
	if n := c.opts.LinesOnScreen; n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	y := c.opts.InputY - c.opts.LineSpacing
	for i := len(lines) - 1; i >= 0; i-- {
		c.text(c.opts.TextX, y, truncate(lines[i], c.opts.CharsPerLine))
		y -= c.opts.LineSpacing
	}
}

func (c *Composer) drawInput(v View) {
	c.text(c.opts.TextX, c.opts.InputY, truncate(withCaret(v.Active, v.Cursor), c.opts.CharsPerLine+1))
}

func (c *Composer) drawShare(v View) {
	header, body := layout.SplitHorizontal(c.canvas.Bounds(), c.opts.LineSpacing+10)
	c.text(c.opts.TextX, header.Min.Y+10, v.Title)
	square := layout.FitSquare(layout.Inset(body, 10))
	qr, err := QRCodeImage(v.Payload, square.Dx())
	if err != nil {
		logf(c.Logger, true, "share code: %v", err)
		c.text(c.opts.TextX, body.Min.Y+10, "Page too long to share")
		return
	}
	xdraw.NearestNeighbor.Scale(c.canvas, square, qr, qr.Bounds(), xdraw.Src, nil)
}

func (c *Composer) drawNetwork(v View) {
	y := 10
	c.text(c.opts.TextX, y, v.Title)
	for _, line := range v.Lines {
		y += c.opts.LineSpacing
		c.text(c.opts.TextX, y, line)
	}
}

// text draws s with its top edge at y.
func (c *Composer) text(x, y int, s string) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.canvas,
		Src:  image.Black,
		Face: c.face,
		Dot:  fixed.P(x, y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (c *Composer) fill(r image.Rectangle) {
	draw.Draw(c.canvas, r, image.NewUniform(color.White), image.Point{}, draw.Src)
}

func withCaret(s string, cursor int) string {
	runes := []rune(s)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	return string(runes[:cursor]) + caret + string(runes[cursor:])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
