package editor

import "github.com/rook-computer/typewriter/internal/keys"

// Modifiers tracks held modifier keys. Only press and release of the
// modifier keys themselves change it. A flag stays set while either the
// left or the right key is down.
type Modifiers struct {
	Shift   bool
	Control bool

	leftShift, rightShift bool
	leftCtrl, rightCtrl   bool
}

// Apply updates the flags if ev is a modifier transition and reports
// whether it was one. Autorepeat of a held modifier changes nothing.
func (m *Modifiers) Apply(ev keys.Event) bool {
	held := ev.Kind == keys.Press
	var key *bool
	switch ev.Name {
	case keys.Shift:
		key = &m.leftShift
	case keys.RightShift:
		key = &m.rightShift
	case keys.Ctrl:
		key = &m.leftCtrl
	case keys.RightCtrl:
		key = &m.rightCtrl
	default:
		return false
	}
	if !ev.Repeat {
		*key = held
	}
	m.Shift = m.leftShift || m.rightShift
	m.Control = m.leftCtrl || m.rightCtrl
	return true
}
