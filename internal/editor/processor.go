package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/rook-computer/typewriter/internal/keys"
)

// Command is work the processor hands back to the host because it needs
// hardware or external processes.
type Command int

const (
	CommandNone Command = iota
	CommandReinit
	CommandPowerOff
	CommandNetworkStatus
)

func (c Command) String() string {
	switch c {
	case CommandReinit:
		return "reinit"
	case CommandPowerOff:
		return "power-off"
	case CommandNetworkStatus:
		return "network-status"
	default:
		return "none"
	}
}

// Console messages shown in the overlay.
const (
	MessageSaved      = "[Saved]"
	MessageSaveFailed = "[Save failed]"
	MessageNew        = "[New]"
	MessageEmpty      = "[Empty]"
)

type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayShare
	OverlayNetwork
)

// Overlay is a full-screen page shown over the editor until the next key.
type Overlay struct {
	Kind    OverlayKind
	Title   string
	Lines   []string
	Payload string
}

// Result is the outcome of one key event.
type Result struct {
	Intent  RefreshIntent
	Message string
	Command Command
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Processor turns key events into buffer and scroll mutations.
type Processor struct {
	Buffer *Buffer
	Scroll *ScrollWindow
	Logger Logger

	mods    Modifiers
	overlay Overlay
}

func NewProcessor(buffer *Buffer, scroll *ScrollWindow, logger Logger) *Processor {
	return &Processor{Buffer: buffer, Scroll: scroll, Logger: logger}
}

func (p *Processor) Modifiers() Modifiers { return p.mods }
func (p *Processor) Overlay() Overlay     { return p.overlay }

// ShowOverlay replaces the editor view until the next key press.
func (p *Processor) ShowOverlay(o Overlay) RefreshIntent {
	p.overlay = o
	return IntentFullFrame
}

// TrackModifiers updates the modifier state from ev and reports whether ev
// was a modifier key. Nothing else changes.
func (p *Processor) TrackModifiers(ev keys.Event) bool {
	return p.mods.Apply(ev)
}

// Handle applies one key event.
func (p *Processor) Handle(ev keys.Event) Result {
	if p.mods.Apply(ev) {
		return Result{}
	}
	if ev.Kind != keys.Press {
		return Result{}
	}
	if p.overlay.Kind != OverlayNone {
		// The chord key still held after opening the overlay repeats.
		if ev.Repeat {
			return Result{}
		}
		p.overlay = Overlay{}
		return Result{Intent: IntentFullFrame}
	}
	if p.mods.Control {
		if res, ok := p.chord(ev.Name); ok {
			return res
		}
	}

	switch ev.Name {
	case keys.Backspace:
		p.Buffer.Delete()
		return Result{Intent: p.editIntent(IntentNone)}
	case keys.Space:
		return Result{Intent: p.typeRune(' ')}
	case keys.Tab:
		intent := p.typeRune(' ')
		return Result{Intent: intent.Merge(p.typeRune(' '))}
	case keys.Enter:
		return p.enter()
	case keys.Left, keys.Up:
		p.Scroll.Back(p.Buffer.LineCount())
		return Result{Intent: IntentFullFrame, Message: p.Scroll.PageIndicator(p.Buffer.LineCount())}
	case keys.Right, keys.Down:
		p.Scroll.Forward()
		return Result{Intent: IntentFullFrame, Message: p.Scroll.PageIndicator(p.Buffer.LineCount())}
	}

	if p.mods.Control || utf8.RuneCountInString(ev.Name) != 1 {
		return Result{}
	}
	r, _ := utf8.DecodeRuneInString(ev.Name)
	if p.mods.Shift {
		shifted, ok := Shifted(r)
		if !ok {
			p.errorf("no shifted form for %q, inserting as is", r)
		}
		r = shifted
	}
	return Result{Intent: p.typeRune(r)}
}

func (p *Processor) chord(name string) (Result, bool) {
	switch name {
	case "s":
		if _, err := p.Buffer.Snapshot(); err != nil {
			p.errorf("save: %v", err)
			return Result{Intent: IntentFullFrame, Message: MessageSaveFailed}, true
		}
		return Result{Intent: IntentFullFrame, Message: MessageSaved}, true
	case "n":
		if _, err := p.Buffer.NewDocument(); err != nil {
			p.errorf("new document: %v", err)
			return Result{Intent: IntentFullFrame, Message: MessageSaveFailed}, true
		}
		p.Scroll.Reset()
		return Result{Intent: IntentFullFrame, Message: MessageNew}, true
	case "r":
		return Result{Command: CommandReinit}, true
	case keys.Esc:
		return Result{Command: CommandPowerOff}, true
	case "w":
		return Result{Command: CommandNetworkStatus}, true
	case "q":
		page := strings.TrimSpace(strings.Join(p.PageText(), "\n"))
		if page == "" {
			return Result{Intent: IntentFullFrame, Message: MessageEmpty}, true
		}
		return Result{Intent: p.ShowOverlay(Overlay{Kind: OverlayShare, Title: "Scan to copy this page", Payload: page})}, true
	}
	return Result{}, false
}

func (p *Processor) enter() Result {
	if p.Scroll.Reviewing() {
		p.Scroll.Reset()
		return Result{Intent: IntentFullFrame}
	}
	if err := p.Buffer.CommitLine(); err != nil {
		p.errorf("commit line: %v", err)
		return Result{Intent: IntentFullFrame, Message: MessageSaveFailed}
	}
	return Result{Intent: IntentFullFrame}
}

func (p *Processor) typeRune(r rune) RefreshIntent {
	p.Buffer.Insert(r)
	return p.editIntent(p.Buffer.MaybeWrap())
}

// editIntent adds the active-line redraw an edit needs. While reviewing
// history the active line is not on screen, so only wraps ask for a redraw.
func (p *Processor) editIntent(wrap RefreshIntent) RefreshIntent {
	if p.Scroll.Reviewing() {
		return wrap
	}
	return wrap.Merge(IntentActiveLine)
}

// VisibleLines is the committed history shown at the current scroll index,
// oldest first.
func (p *Processor) VisibleLines() []string {
	start, end := p.Scroll.Bounds(p.Buffer.LineCount())
	return p.Buffer.Slice(start, end)
}

// PageText is what is on screen: the visible history plus the active line
// when editing.
func (p *Processor) PageText() []string {
	lines := p.VisibleLines()
	if !p.Scroll.Reviewing() && p.Buffer.Active() != "" {
		lines = append(lines, p.Buffer.Active())
	}
	return lines
}

func (p *Processor) errorf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Errorf("editor", format, args...)
	}
}
