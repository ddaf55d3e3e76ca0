// Package keys defines named key events and the sources that produce them.
package keys

import "context"

type Kind int

const (
	Press Kind = iota
	Release
)

func (k Kind) String() string {
	if k == Release {
		return "release"
	}
	return "press"
}

// Named keys. Printable keys are named by their single character.
const (
	Shift      = "shift"
	RightShift = "rightshift"
	Ctrl       = "ctrl"
	RightCtrl  = "rightctrl"
	Alt        = "alt"
	Enter      = "enter"
	Backspace  = "backspace"
	Space      = "space"
	Tab        = "tab"
	Esc        = "esc"
	Left       = "left"
	Right      = "right"
	Up         = "up"
	Down       = "down"
)

// Event is one key transition. Repeat marks a press generated by the
// keyboard's autorepeat while the key is held.
type Event struct {
	Name   string
	Kind   Kind
	Repeat bool
}

func Pressed(name string) Event  { return Event{Name: name, Kind: Press} }
func Released(name string) Event { return Event{Name: name, Kind: Release} }
func Repeated(name string) Event { return Event{Name: name, Kind: Press, Repeat: true} }

// Source produces key events on a channel owned by the source. The channel
// has exactly one consumer.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// ChanSource forwards events pushed with Send. Producers may call Send from
// any goroutine.
type ChanSource struct {
	ch chan Event
}

func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{ch: make(chan Event, buffer)}
}

func (s *ChanSource) Start(ctx context.Context) error { return nil }
func (s *ChanSource) Stop() error                     { return nil }
func (s *ChanSource) Events() <-chan Event            { return s.ch }

// Send enqueues ev, blocking until there is room or ctx is done.
func (s *ChanSource) Send(ctx context.Context, ev Event) bool {
	select {
	case s.ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
