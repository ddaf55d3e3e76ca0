package system

import (
	"context"
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rook-computer/typewriter/internal/keys"
)

type call struct {
	cmd  string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout map[string]string
	fail   map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	f.calls = append(f.calls, call{cmd, args})
	if f.fail[cmd] {
		return "", "no such device", errors.New("exit 1")
	}
	return f.stdout[cmd], "", nil
}

func TestRingBufferKeepsTail(t *testing.T) {
	r := &ringBuffer{max: 5}
	r.Write([]byte("abc"))
	r.Write([]byte("defg"))
	if got := r.String(); got != "cdefg" {
		t.Fatalf("got %q", got)
	}
	r.Write([]byte("0123456789"))
	if got := r.String(); got != "56789" {
		t.Fatalf("got %q", got)
	}
}

func TestQueryNetwork(t *testing.T) {
	r := &fakeRunner{stdout: map[string]string{
		"iwgetid":  "HomeNet\n",
		"hostname": "192.168.1.20 fe80::1 10.0.0.2 \n",
	}}
	st, err := QueryNetwork(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if st.SSID != "HomeNet" || !reflect.DeepEqual(st.Addresses, []string{"192.168.1.20", "10.0.0.2"}) {
		t.Fatalf("status = %+v", st)
	}
	if want := []string{"WiFi: HomeNet", "IP:   192.168.1.20 10.0.0.2"}; !reflect.DeepEqual(st.Lines(), want) {
		t.Fatalf("lines = %q", st.Lines())
	}
}

func TestQueryNetworkFailure(t *testing.T) {
	r := &fakeRunner{fail: map[string]bool{"iwgetid": true}, stdout: map[string]string{"hostname": "10.1.1.1"}}
	st, err := QueryNetwork(context.Background(), r)
	if err == nil || !strings.Contains(err.Error(), "no such device") {
		t.Fatalf("err = %v", err)
	}
	if st.Lines()[0] != "WiFi: unavailable" || len(st.Addresses) != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestPowerOff(t *testing.T) {
	r := &fakeRunner{}
	if err := PowerOff(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if want := []call{{"poweroff", []string{"-f"}}}; !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %+v", r.calls)
	}
}

func inputEvent(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestDecodeEvents(t *testing.T) {
	const tv = 16
	var buf []byte
	buf = append(buf, inputEvent(tv, evKey, 42, 1)...)  // left shift down
	buf = append(buf, inputEvent(tv, 0x04, 4, 30)...)   // EV_MSC scan code
	buf = append(buf, inputEvent(tv, evKey, 30, 1)...)  // a
	buf = append(buf, inputEvent(tv, evKey, 30, 2)...)  // a repeat
	buf = append(buf, inputEvent(tv, evKey, 30, 0)...)  // a up
	buf = append(buf, inputEvent(tv, evKey, 240, 1)...) // unknown
	buf = append(buf, inputEvent(tv, evKey, 54, 0)...)  // right shift up
	buf = append(buf, 0, 1, 2)                          // partial record

	want := []keys.Event{
		keys.Pressed(keys.Shift),
		keys.Pressed("a"),
		keys.Repeated("a"),
		keys.Released("a"),
		keys.Released(keys.RightShift),
	}
	if got := decodeEvents(buf, tv); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %+v", got)
	}
}

func TestEvdevNamesCoverTypewriterKeys(t *testing.T) {
	have := map[string]bool{}
	for _, name := range evdevNames {
		have[name] = true
	}
	for _, name := range []string{keys.Shift, keys.Ctrl, keys.Enter, keys.Backspace, keys.Space, keys.Tab, keys.Esc, keys.Left, keys.Right, keys.Up, keys.Down, "a", "z", "0", "/"} {
		if !have[name] {
			t.Errorf("no keycode maps to %q", name)
		}
	}
}
