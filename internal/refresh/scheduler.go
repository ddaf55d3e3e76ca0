// Package refresh decides when the panel is redrawn and runs every
// hardware operation on a single display worker goroutine.
//
// The Scheduler itself is not safe for concurrent use: it belongs to the
// editor loop, which feeds it intents, ticks it, and reports worker
// completions back through Complete.
package refresh

import (
	"fmt"
	"image"
	"time"

	"github.com/rook-computer/typewriter/internal/editor"
	"github.com/rook-computer/typewriter/internal/epd"
	"github.com/rook-computer/typewriter/internal/render"
)

// Panel is the display hardware as seen by the worker.
type Panel interface {
	FullInit() error
	PartialInit() error
	Display(frame []byte) error
	Clear() error
	Sleep() error
}

type Composer interface {
	ComposeFull(v render.View) *image.Gray
	ComposeActiveLine(v render.View) *image.Gray
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type Options struct {
	Width    int
	Height   int
	Interval time.Duration // minimum spacing between active-line redraws
	Logger   Logger
	Now      func() time.Time
}

type jobKind int

const (
	jobFullFrame jobKind = iota
	jobActiveLine
	jobReinit
	jobPowerOff
	jobShutdown
)

func (k jobKind) String() string {
	switch k {
	case jobFullFrame:
		return "full frame"
	case jobActiveLine:
		return "active line"
	case jobReinit:
		return "reinit"
	case jobPowerOff:
		return "power-off"
	case jobShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("job(%d)", int(k))
	}
}

type job struct {
	kind  jobKind
	frame []byte
}

type Scheduler struct {
	panel    Panel
	composer Composer
	opts     Options

	pendingFull   bool
	pendingLine   bool
	pendingReinit bool
	inFlight      bool
	current       jobKind
	lastDispatch  time.Time

	jobs    chan job
	done    chan error
	stopped chan struct{}
}

func New(panel Panel, composer Composer, opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		panel:    panel,
		composer: composer,
		opts:     opts,
		jobs:     make(chan job, 1),
		done:     make(chan error, 1),
		stopped:  make(chan struct{}),
	}
}

// Start launches the display worker.
func (s *Scheduler) Start() {
	go s.work()
}

// Close stops the worker after the current job. It must not be called
// while a job is in flight and unobserved.
func (s *Scheduler) Close() {
	close(s.jobs)
	<-s.stopped
}

// Done delivers the result of each dispatched job. Pass it to Complete.
func (s *Scheduler) Done() <-chan error { return s.done }

func (s *Scheduler) Busy() bool { return s.inFlight }

// Reiniting reports whether a re-initialization is queued or running.
func (s *Scheduler) Reiniting() bool {
	return s.pendingReinit || (s.inFlight && s.current == jobReinit)
}

// Pending is the strongest intent waiting to be drawn.
func (s *Scheduler) Pending() editor.RefreshIntent {
	switch {
	case s.pendingFull:
		return editor.IntentFullFrame
	case s.pendingLine:
		return editor.IntentActiveLine
	default:
		return editor.IntentNone
	}
}

// Request records an intent. Repeated requests coalesce.
func (s *Scheduler) Request(intent editor.RefreshIntent) {
	switch intent {
	case editor.IntentFullFrame:
		s.pendingFull = true
	case editor.IntentActiveLine:
		s.pendingLine = true
	}
}

// RequestReinit queues a slow-waveform re-initialization followed by a full
// frame.
func (s *Scheduler) RequestReinit() { s.pendingReinit = true }

// Tick dispatches at most one job if the worker is idle and reports which
// redraw it started. Re-init goes first, then a full frame, then a
// throttled active-line redraw. The active line is never redrawn while v
// is reviewing history.
func (s *Scheduler) Tick(v render.View) (editor.RefreshIntent, error) {
	if s.inFlight {
		return editor.IntentNone, nil
	}
	now := s.opts.Now()
	switch {
	case s.pendingReinit:
		s.pendingReinit = false
		s.dispatch(job{kind: jobReinit}, now)
	case s.pendingFull:
		frame, err := s.pack(s.composer.ComposeFull(v))
		if err != nil {
			return editor.IntentNone, err
		}
		s.pendingFull = false
		if !v.Reviewing {
			s.pendingLine = false
		}
		s.dispatch(job{kind: jobFullFrame, frame: frame}, now)
		return editor.IntentFullFrame, nil
	case s.pendingLine && v.Reviewing:
		s.pendingLine = false
	case s.pendingLine && now.Sub(s.lastDispatch) >= s.opts.Interval:
		frame, err := s.pack(s.composer.ComposeActiveLine(v))
		if err != nil {
			return editor.IntentNone, err
		}
		s.pendingLine = false
		s.dispatch(job{kind: jobActiveLine, frame: frame}, now)
		return editor.IntentActiveLine, nil
	}
	return editor.IntentNone, nil
}

// Complete records the worker result received from Done. Hardware errors
// are returned wrapped with the job that failed.
func (s *Scheduler) Complete(err error) error {
	kind := s.current
	s.inFlight = false
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if kind == jobReinit {
		s.pendingFull = true
	}
	return nil
}

// Startup runs the first slow-waveform init, clears the panel, enters the
// fast mode and queues a full frame.
func (s *Scheduler) Startup() error {
	if err := s.runSync(job{kind: jobReinit}); err != nil {
		return err
	}
	s.pendingFull = true
	return nil
}

// Drain blocks until any in-flight job finishes.
func (s *Scheduler) Drain() error {
	if !s.inFlight {
		return nil
	}
	return s.Complete(<-s.done)
}

// PowerOff waits for the worker, then draws v with the slow waveform and
// puts the panel to sleep. It runs to completion once started.
func (s *Scheduler) PowerOff(v render.View) error {
	drainErr := s.Drain()
	frame, err := s.pack(s.composer.ComposeFull(v))
	if err != nil {
		return err
	}
	if err := s.runSync(job{kind: jobPowerOff, frame: frame}); err != nil {
		return err
	}
	return drainErr
}

// Shutdown waits for the worker, blanks the panel with the slow waveform
// and puts it to sleep.
func (s *Scheduler) Shutdown() error {
	drainErr := s.Drain()
	if err := s.runSync(job{kind: jobShutdown}); err != nil {
		return err
	}
	return drainErr
}

func (s *Scheduler) dispatch(j job, now time.Time) {
	s.inFlight = true
	s.current = j.kind
	s.lastDispatch = now
	s.jobs <- j
}

func (s *Scheduler) runSync(j job) error {
	s.dispatch(j, s.opts.Now())
	return s.Complete(<-s.done)
}

func (s *Scheduler) pack(img *image.Gray) ([]byte, error) {
	frame, err := epd.PackBitmap(img, s.opts.Width, s.opts.Height)
	if err != nil {
		return nil, fmt.Errorf("pack frame: %w", err)
	}
	return frame, nil
}

func (s *Scheduler) work() {
	defer close(s.stopped)
	for j := range s.jobs {
		start := time.Now()
		err := s.run(j)
		if s.opts.Logger != nil && j.kind != jobActiveLine {
			s.opts.Logger.Infof("refresh", "%s took %s", j.kind, time.Since(start).Round(time.Millisecond))
		}
		s.done <- err
	}
}

func (s *Scheduler) run(j job) error {
	switch j.kind {
	case jobFullFrame, jobActiveLine:
		return s.panel.Display(j.frame)
	case jobReinit:
		if err := s.panel.FullInit(); err != nil {
			return err
		}
		if err := s.panel.Clear(); err != nil {
			return err
		}
		return s.panel.PartialInit()
	case jobPowerOff:
		if err := s.panel.FullInit(); err != nil {
			return err
		}
		if err := s.panel.Display(j.frame); err != nil {
			return err
		}
		return s.panel.Sleep()
	case jobShutdown:
		if err := s.panel.FullInit(); err != nil {
			return err
		}
		if err := s.panel.Clear(); err != nil {
			return err
		}
		return s.panel.Sleep()
	}
	return fmt.Errorf("unknown job %s", j.kind)
}
