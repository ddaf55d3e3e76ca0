package render

import (
	"image"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func testComposer() *Composer {
	return NewComposer(Options{
		Width:         800,
		Height:        480,
		CharsPerLine:  40,
		LinesOnScreen: 12,
		LineSpacing:   38,
		TextX:         10,
		InputY:        440,
		MessageX:      650,
	}, basicfont.Face7x13)
}

func darkPixels(img *image.Gray, r image.Rectangle) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.GrayAt(x, y).Y < 0x80 {
				n++
			}
		}
	}
	return n
}

var (
	historyRegion = image.Rect(0, 0, 800, 440)
	inputRegion   = image.Rect(0, 440, 650, 480)
	messageRegion = image.Rect(650, 440, 800, 480)
)

func TestComposeFullEmptyEditorShowsCaretOnly(t *testing.T) {
	img := testComposer().ComposeFull(View{})
	if n := darkPixels(img, historyRegion); n != 0 {
		t.Fatalf("history has %d dark pixels", n)
	}
	if n := darkPixels(img, inputRegion); n == 0 {
		t.Fatal("caret not drawn")
	}
}

func TestComposeFullDrawsHistoryBottomUp(t *testing.T) {
	img := testComposer().ComposeFull(View{History: []string{"only line"}, Reviewing: true})
	// A single line sits directly above the input row.
	if n := darkPixels(img, image.Rect(0, 402, 800, 440)); n == 0 {
		t.Fatal("last history line not above input row")
	}
	if n := darkPixels(img, image.Rect(0, 0, 800, 402)); n != 0 {
		t.Fatalf("%d dark pixels above the only line", n)
	}
	if n := darkPixels(img, inputRegion); n != 0 {
		t.Fatal("input row drawn while reviewing")
	}
}

func TestComposeFullMessage(t *testing.T) {
	img := testComposer().ComposeFull(View{Message: "[Saved]"})
	if darkPixels(img, messageRegion) == 0 {
		t.Fatal("message not drawn")
	}
}

func TestComposeActiveLineKeepsHistory(t *testing.T) {
	c := testComposer()
	c.ComposeFull(View{History: []string{"kept"}})
	before := darkPixels(c.Canvas(), historyRegion)
	img := c.ComposeActiveLine(View{Active: "typing", Cursor: 6})
	if got := darkPixels(img, historyRegion); got != before {
		t.Fatalf("history changed: %d -> %d dark pixels", before, got)
	}
	if darkPixels(img, inputRegion) <= darkPixels(testComposer().ComposeActiveLine(View{}), inputRegion) {
		t.Fatal("active text not drawn")
	}
}

func TestComposeShutdown(t *testing.T) {
	img := testComposer().ComposeFull(View{Screen: ScreenShutdown, Title: "Powered Down.", History: []string{"x"}})
	if darkPixels(img, image.Rect(200, 240, 800, 280)) == 0 {
		t.Fatal("shutdown text missing")
	}
	if darkPixels(img, image.Rect(0, 0, 800, 240)) != 0 {
		t.Fatal("editor content leaked into shutdown screen")
	}
}

func TestComposeShare(t *testing.T) {
	img := testComposer().ComposeFull(View{Screen: ScreenShare, Title: "Scan", Payload: "hello\nworld"})
	if darkPixels(img, image.Rect(200, 100, 600, 440)) < 1000 {
		t.Fatal("qr code not drawn")
	}
}

func TestWithCaret(t *testing.T) {
	tests := []struct {
		s      string
		cursor int
		want   string
	}{
		{"", 0, "|"},
		{"abc", 3, "abc|"},
		{"abc", 1, "a|bc"},
		{"héllo", 2, "hé|llo"},
		{"ab", 9, "ab|"},
	}
	for _, tt := range tests {
		if got := withCaret(tt.s, tt.cursor); got != tt.want {
			t.Errorf("withCaret(%q, %d) = %q, want %q", tt.s, tt.cursor, got, tt.want)
		}
	}
}

func TestParseFaceBuiltin(t *testing.T) {
	face := LoadFace("", 32, nil)
	if face == basicfont.Face7x13 {
		t.Fatal("built-in font failed to load")
	}
	adv, ok := face.GlyphAdvance('M')
	if !ok || adv.Ceil() > 20 {
		t.Fatalf("advance = %v, want 40 columns to fit 800px", adv)
	}
}

func TestLoadFaceMissingFileFallsBack(t *testing.T) {
	if face := LoadFace("/nonexistent/font.ttf", 20, nil); face == nil {
		t.Fatal("nil face")
	}
}
