package editor

import "unicode"

// shiftedSymbols is the US layout's shifted row of non-letter keys.
var shiftedSymbols = map[rune]rune{
	'`': '~', '1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')', '-': '_',
	'=': '+', '[': '{', ']': '}', '\\': '|', ';': ':', '\'': '"',
	',': '<', '.': '>', '/': '?',
}

// Shifted maps a key's character to what it produces with shift held. The
// second result is false when the layout has no shifted form for r.
func Shifted(r rune) (rune, bool) {
	if unicode.IsLetter(r) {
		return unicode.ToUpper(r), true
	}
	if s, ok := shiftedSymbols[r]; ok {
		return s, true
	}
	return r, false
}
