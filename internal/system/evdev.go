package system

import (
	"encoding/binary"

	"github.com/rook-computer/typewriter/internal/keys"
)

const evKey = 0x01

// Linux input-event-codes.h, US layout.
var evdevNames = map[uint16]string{
	1: keys.Esc, 2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	12: "-", 13: "=", 14: keys.Backspace, 15: keys.Tab,
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t", 21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	26: "[", 27: "]", 28: keys.Enter, 29: keys.Ctrl,
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g", 35: "h", 36: "j", 37: "k", 38: "l",
	39: ";", 40: "'", 41: "`", 42: keys.Shift, 43: "\\",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b", 49: "n", 50: "m",
	51: ",", 52: ".", 53: "/", 54: keys.RightShift, 56: keys.Alt, 57: keys.Space,
	58: "capslock", 59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5", 64: "f6", 65: "f7", 66: "f8",
	67: "f9", 68: "f10", 87: "f11", 88: "f12",
	96: keys.Enter, 97: keys.RightCtrl, 100: keys.Alt, 102: "home",
	103: keys.Up, 104: "pageup", 105: keys.Left, 106: keys.Right, 107: "end", 108: keys.Down,
	109: "pagedown", 110: "insert", 111: "delete",
}

// decodeEvents turns raw input_event records into key events. Autorepeat
// (value 2) is reported as a repeated press; unknown codes are skipped.
func decodeEvents(buf []byte, tvSize int) []keys.Event {
	size := tvSize + 8
	var out []keys.Event
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey {
			continue
		}
		name, ok := evdevNames[code]
		if !ok {
			continue
		}
		switch value {
		case 0:
			out = append(out, keys.Released(name))
		case 1:
			out = append(out, keys.Pressed(name))
		case 2:
			out = append(out, keys.Repeated(name))
		}
	}
	return out
}
