package layout

import (
	"image"
	"testing"
)

func TestPanelRegions(t *testing.T) {
	p := Panel{Bounds: image.Rect(0, 0, 800, 480), InputY: 440, MessageX: 650}
	if got := p.History(); got != image.Rect(0, 0, 800, 440) {
		t.Fatalf("history = %v", got)
	}
	if got := p.InputRow(); got != image.Rect(0, 440, 800, 480) {
		t.Fatalf("input row = %v", got)
	}
	if got := p.MessageBox(); got != image.Rect(650, 440, 800, 480) {
		t.Fatalf("message box = %v", got)
	}
}

func TestFitSquareCenters(t *testing.T) {
	got := FitSquare(image.Rect(0, 40, 800, 480))
	if got != image.Rect(180, 40, 620, 480) {
		t.Fatalf("square = %v", got)
	}
}

func TestCenterClamps(t *testing.T) {
	got := Center(image.Rect(0, 0, 10, 10), 20, 4)
	if got != image.Rect(0, 3, 10, 7) {
		t.Fatalf("center = %v", got)
	}
}

func TestInset(t *testing.T) {
	if got := Inset(image.Rect(0, 0, 100, 50), 10); got != image.Rect(10, 10, 90, 40) {
		t.Fatalf("inset = %v", got)
	}
	if got := Inset(image.Rect(0, 0, 10, 10), 6); !got.Empty() {
		t.Fatalf("over-inset = %v, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	r := image.Rectangle{Min: image.Pt(5, 9), Max: image.Pt(1, 2)}
	if got := Normalize(r); got != image.Rect(1, 2, 5, 9) {
		t.Fatalf("normalize = %v", got)
	}
}
