package main

import (
	"unicode/utf8"

	"github.com/rook-computer/typewriter/internal/editor"
	"github.com/rook-computer/typewriter/internal/keys"
)

const (
	ctrlC       = 0x03
	ctrlBracket = 0x1d // ctrl+] stands in for ctrl+esc, which terminals cannot send
	escape      = 0x1b
)

// unshifted maps characters typed with shift back to the key that produced
// them, so the editor sees the same shift/key sequence as on the device.
var unshifted = func() map[rune]rune {
	m := map[rune]rune{}
	for r := rune(0x21); r < 0x7f; r++ {
		if s, ok := editor.Shifted(r); ok && s != r {
			if _, taken := m[s]; !taken {
				m[s] = r
			}
		}
	}
	return m
}()

// translator turns raw terminal bytes into key events.
type translator struct{}

// Translate returns the events for one read and whether ctrl+c was seen.
func (translator) Translate(b []byte) (events []keys.Event, quit bool) {
	tap := func(name string) {
		events = append(events, keys.Pressed(name), keys.Released(name))
	}
	chord := func(mod, name string) {
		events = append(events, keys.Pressed(mod))
		tap(name)
		events = append(events, keys.Released(mod))
	}

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == ctrlC:
			return events, true
		case c == escape:
			if i+2 < len(b) && b[i+1] == '[' {
				if name, ok := arrows[b[i+2]]; ok {
					tap(name)
					i += 3
					continue
				}
			}
			tap(keys.Esc)
		case c == ctrlBracket:
			chord(keys.Ctrl, keys.Esc)
		case c == '\r' || c == '\n':
			tap(keys.Enter)
		case c == '\t':
			tap(keys.Tab)
		case c == 0x7f || c == 0x08:
			tap(keys.Backspace)
		case c == ' ':
			tap(keys.Space)
		case c >= 0x01 && c <= 0x1a:
			chord(keys.Ctrl, string(rune('a'+c-1)))
		case c < 0x20:
			// other control bytes have no key on the device
		default:
			r, size := utf8.DecodeRune(b[i:])
			if base, ok := unshifted[r]; ok {
				chord(keys.Shift, string(base))
			} else {
				tap(string(r))
			}
			i += size
			continue
		}
		i++
	}
	return events, false
}

var arrows = map[byte]string{
	'A': keys.Up,
	'B': keys.Down,
	'C': keys.Right,
	'D': keys.Left,
}
