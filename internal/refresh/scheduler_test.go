package refresh

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/rook-computer/typewriter/internal/editor"
	"github.com/rook-computer/typewriter/internal/epd"
	"github.com/rook-computer/typewriter/internal/render"
)

const (
	testWidth  = 800
	testHeight = 480
)

type fakePanel struct {
	mu         sync.Mutex
	ops        []string
	frames     [][]byte
	displayErr error
}

func (p *fakePanel) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ops = append(p.ops, op)
}

func (p *fakePanel) FullInit() error    { p.record("full-init"); return nil }
func (p *fakePanel) PartialInit() error { p.record("partial-init"); return nil }
func (p *fakePanel) Clear() error       { p.record("clear"); return nil }
func (p *fakePanel) Sleep() error       { p.record("sleep"); return nil }

func (p *fakePanel) Display(frame []byte) error {
	p.record("display")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, frame)
	return p.displayErr
}

func (p *fakePanel) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ops...)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler(t *testing.T) (*Scheduler, *fakePanel, *clock) {
	t.Helper()
	panel := &fakePanel{}
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	composer := render.NewComposer(render.Options{
		Width: testWidth, Height: testHeight, CharsPerLine: 40, LinesOnScreen: 12,
		LineSpacing: 38, TextX: 10, InputY: 440, MessageX: 650,
	}, basicfont.Face7x13)
	s := New(panel, composer, Options{Width: testWidth, Height: testHeight, Interval: 250 * time.Millisecond, Now: clk.now})
	s.Start()
	t.Cleanup(s.Close)
	return s, panel, clk
}

// finish waits for the in-flight job and reports its result.
func finish(t *testing.T, s *Scheduler) error {
	t.Helper()
	select {
	case err := <-s.Done():
		return s.Complete(err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish")
		return nil
	}
}

func TestFullFrameCoalescesWithActiveLine(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	s.Request(editor.IntentActiveLine)
	s.Request(editor.IntentFullFrame)
	s.Request(editor.IntentFullFrame)
	drawn, err := s.Tick(render.View{Active: "abc", Cursor: 3})
	if err != nil || drawn != editor.IntentFullFrame {
		t.Fatalf("drawn=%v err=%v", drawn, err)
	}
	if !s.Busy() || s.Pending() != editor.IntentNone {
		t.Fatalf("busy=%v pending=%v", s.Busy(), s.Pending())
	}
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}
	s.Tick(render.View{})
	if s.Busy() {
		t.Fatal("second tick dispatched work with nothing pending")
	}
	if got := panel.snapshot(); !reflect.DeepEqual(got, []string{"display"}) {
		t.Fatalf("ops = %v", got)
	}
}

func TestOneJobInFlight(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	s.Request(editor.IntentFullFrame)
	s.Tick(render.View{})
	s.Request(editor.IntentFullFrame)
	s.Request(editor.IntentFullFrame)
	s.Tick(render.View{})
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}
	if s.Pending() != editor.IntentFullFrame {
		t.Fatalf("pending = %v, want queued full frame", s.Pending())
	}
	s.Tick(render.View{})
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}
	if n := len(panel.snapshot()); n != 2 {
		t.Fatalf("%d displays, want 2", n)
	}
}

func TestActiveLineThrottle(t *testing.T) {
	s, panel, clk := newTestScheduler(t)
	v := render.View{Active: "a", Cursor: 1}
	s.Request(editor.IntentActiveLine)
	s.Tick(v)
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}

	clk.advance(100 * time.Millisecond)
	s.Request(editor.IntentActiveLine)
	s.Tick(v)
	if s.Busy() {
		t.Fatal("active line redrawn inside the throttle interval")
	}

	clk.advance(150 * time.Millisecond)
	if drawn, _ := s.Tick(v); drawn != editor.IntentActiveLine || !s.Busy() {
		t.Fatalf("active line not redrawn after the interval (drawn %v)", drawn)
	}
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}
	if n := len(panel.snapshot()); n != 2 {
		t.Fatalf("%d displays, want 2", n)
	}
}

func TestFullFrameIgnoresThrottle(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.Request(editor.IntentActiveLine)
	s.Tick(render.View{})
	finish(t, s)
	s.Request(editor.IntentFullFrame)
	s.Tick(render.View{})
	if !s.Busy() {
		t.Fatal("full frame held back by the active-line throttle")
	}
	finish(t, s)
}

func TestNoActiveLineWhileReviewing(t *testing.T) {
	s, panel, clk := newTestScheduler(t)
	clk.advance(time.Second)
	s.Request(editor.IntentActiveLine)
	s.Tick(render.View{Reviewing: true})
	if s.Busy() || s.Pending() != editor.IntentNone {
		t.Fatalf("busy=%v pending=%v", s.Busy(), s.Pending())
	}
	if n := len(panel.snapshot()); n != 0 {
		t.Fatalf("ops = %v", panel.snapshot())
	}
}

func TestReinitThenFullFrame(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	s.RequestReinit()
	if !s.Reiniting() {
		t.Fatal("reinit not reported")
	}
	s.Request(editor.IntentFullFrame)
	s.Tick(render.View{})
	if !s.Reiniting() {
		t.Fatal("reinit in flight not reported")
	}
	if err := finish(t, s); err != nil {
		t.Fatal(err)
	}
	if s.Reiniting() || s.Pending() != editor.IntentFullFrame {
		t.Fatalf("reiniting=%v pending=%v", s.Reiniting(), s.Pending())
	}
	s.Tick(render.View{})
	finish(t, s)
	want := []string{"full-init", "clear", "partial-init", "display"}
	if got := panel.snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
}

func TestHardwareErrorPropagates(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	panel.displayErr = epd.ErrHardwareTimeout
	s.Request(editor.IntentFullFrame)
	s.Tick(render.View{})
	err := finish(t, s)
	if !errors.Is(err, epd.ErrHardwareTimeout) {
		t.Fatalf("err = %v, want ErrHardwareTimeout", err)
	}
}

func TestStartup(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	if err := s.Startup(); err != nil {
		t.Fatal(err)
	}
	if s.Pending() != editor.IntentFullFrame {
		t.Fatal("startup did not queue a full frame")
	}
	if got := panel.snapshot(); !reflect.DeepEqual(got, []string{"full-init", "clear", "partial-init"}) {
		t.Fatalf("ops = %v", got)
	}
}

func TestPowerOffWaitsForInFlight(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	s.Request(editor.IntentActiveLine)
	s.Tick(render.View{Active: "x", Cursor: 1})
	if err := s.PowerOff(render.View{Screen: render.ScreenShutdown, Title: "Powered Down."}); err != nil {
		t.Fatal(err)
	}
	want := []string{"display", "full-init", "display", "sleep"}
	if got := panel.snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	last, err := epd.UnpackBitmap(panel.frames[1], testWidth, testHeight)
	if err != nil {
		t.Fatal(err)
	}
	dark := 0
	for y := 240; y < 260; y++ {
		for x := 200; x < 400; x++ {
			if last.GrayAt(x, y).Y == 0 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatal("shutdown frame has no text at (200,240)")
	}
}

func TestShutdownBlanksAndSleeps(t *testing.T) {
	s, panel, _ := newTestScheduler(t)
	if err := s.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if got := panel.snapshot(); !reflect.DeepEqual(got, []string{"full-init", "clear", "sleep"}) {
		t.Fatalf("ops = %v", got)
	}
}
