// Package epd drives a 4.26" SSD1677-class e-paper panel over SPI.
//
// The driver owns the command protocol: reset sequencing, command/data
// framing, waveform loading, busy synchronization and bitmap transfer. It is
// the only component allowed to issue raw commands to the panel.
package epd

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	cmdDriverOutput   = 0x01
	cmdSoftStart      = 0x0C
	cmdDeepSleep      = 0x10
	cmdDataEntryMode  = 0x11
	cmdSoftReset      = 0x12
	cmdTempSensor     = 0x18
	cmdActivate       = 0x20
	cmdUpdateControl  = 0x22
	cmdWriteRAM       = 0x24
	cmdWriteRAMOld    = 0x26
	cmdBorderWaveform = 0x3C
	cmdRAMXWindow     = 0x44
	cmdRAMYWindow     = 0x45
	cmdRAMXCounter    = 0x4E
	cmdRAMYCounter    = 0x4F

	cmdLUTVCOM = 0x20
	cmdLUTWW   = 0x21
	cmdLUTBW   = 0x22
	cmdLUTWB   = 0x23
	cmdLUTBB   = 0x24

	updatePartial = 0xC7
	updateFull    = 0xF7
)

const (
	DefaultWidth       = 800
	DefaultHeight      = 480
	DefaultBusyPoll    = 20 * time.Millisecond
	DefaultBusyTimeout = 10 * time.Second
	busySettle         = 20 * time.Millisecond
	sleepSettle        = 2 * time.Second
)

var (
	ErrHardwareTimeout = errors.New("epd: panel busy timeout")
	ErrNotInitialized  = errors.New("epd: panel not initialized")
	ErrSleeping        = errors.New("epd: panel is in deep sleep")
	ErrBitmapSize      = errors.New("epd: bitmap size mismatch")
)

// Mode is the driver state.
type Mode int

const (
	Uninitialized Mode = iota
	FullMode
	PartialMode
	Sleeping
)

func (m Mode) String() string {
	switch m {
	case Uninitialized:
		return "uninitialized"
	case FullMode:
		return "full"
	case PartialMode:
		return "partial"
	case Sleeping:
		return "sleeping"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type Options struct {
	Width       int
	Height      int
	BusyPoll    time.Duration
	BusyTimeout time.Duration
	Logger      Logger
}

// Driver implements the panel protocol on top of a Bus.
type Driver struct {
	bus         Bus
	width       int
	height      int
	busyPoll    time.Duration
	busyTimeout time.Duration
	logger      Logger

	mu   sync.Mutex
	mode Mode
}

func NewDriver(bus Bus, opts Options) *Driver {
	d := &Driver{
		bus:         bus,
		width:       opts.Width,
		height:      opts.Height,
		busyPoll:    opts.BusyPoll,
		busyTimeout: opts.BusyTimeout,
		logger:      opts.Logger,
	}
	if d.width <= 0 {
		d.width = DefaultWidth
	}
	if d.height <= 0 {
		d.height = DefaultHeight
	}
	if d.busyPoll <= 0 {
		d.busyPoll = DefaultBusyPoll
	}
	if d.busyTimeout <= 0 {
		d.busyTimeout = DefaultBusyTimeout
	}
	return d
}

func (d *Driver) Width() int  { return d.width }
func (d *Driver) Height() int { return d.height }

// BufferSize is the packed frame size in bytes.
func (d *Driver) BufferSize() int { return stride(d.width) * d.height }

func (d *Driver) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// FullInit resets the panel and loads the slow, ghost-free waveform.
func (d *Driver) FullInit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.init(SlowWaveform); err != nil {
		return fmt.Errorf("full init: %w", err)
	}
	d.mode = FullMode
	d.infof("full init done")
	return nil
}

// PartialInit resets the panel and loads the fast waveform used for
// interactive redraws.
func (d *Driver) PartialInit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.init(FastWaveform); err != nil {
		return fmt.Errorf("partial init: %w", err)
	}
	d.mode = PartialMode
	d.infof("partial init done")
	return nil
}

func (d *Driver) init(waveform Waveform) error {
	if err := d.bus.Open(); err != nil {
		return fmt.Errorf("open bus: %w", err)
	}
	// Until the sequence completes the loaded waveform is unknown.
	d.mode = Uninitialized

	if err := d.reset(); err != nil {
		return err
	}
	if err := d.waitIdle(); err != nil {
		return err
	}
	if err := d.command(cmdSoftReset); err != nil {
		return err
	}
	if err := d.waitIdle(); err != nil {
		return err
	}

	h := d.height - 1
	w := d.width - 1
	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdTempSensor, []byte{0x80}},
		{cmdSoftStart, []byte{0xAE, 0xC7, 0xC3, 0xC0, 0x80}},
		{cmdDriverOutput, []byte{byte(h % 256), byte(h / 256), 0x02}},
		{cmdBorderWaveform, []byte{0x01}},
		{cmdDataEntryMode, []byte{0x01}},
		{cmdRAMXWindow, []byte{0x00, 0x00, byte(w & 0xFF), byte((w >> 8) & 0x03)}},
		{cmdRAMYWindow, []byte{byte(h & 0xFF), byte(h >> 8), 0x00, 0x00}},
		{cmdRAMXCounter, []byte{0x00, 0x00}},
		{cmdRAMYCounter, []byte{0x00, 0x00}},
	}
	for _, step := range steps {
		if err := d.send(step.cmd, step.data); err != nil {
			return err
		}
	}
	if err := d.waitIdle(); err != nil {
		return err
	}

	for _, entry := range waveform.entries() {
		if err := d.send(entry.reg, entry.data); err != nil {
			return fmt.Errorf("load %s waveform: %w", waveform.Name, err)
		}
	}
	return nil
}

// Display writes a packed frame into image RAM and activates a refresh with
// the waveform currently loaded. It blocks until the panel reports idle.
func (d *Driver) Display(buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	if len(buf) != d.BufferSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBitmapSize, len(buf), d.BufferSize())
	}
	if err := d.send(cmdWriteRAM, buf); err != nil {
		return fmt.Errorf("write ram: %w", err)
	}
	control := byte(updatePartial)
	if d.mode == FullMode {
		control = updateFull
	}
	return d.activate(control)
}

// Clear blanks both RAM planes and runs a full activation.
func (d *Driver) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	white := make([]byte, d.BufferSize())
	for i := range white {
		white[i] = 0xFF
	}
	if err := d.send(cmdWriteRAM, white); err != nil {
		return fmt.Errorf("clear new ram: %w", err)
	}
	if err := d.send(cmdWriteRAMOld, white); err != nil {
		return fmt.Errorf("clear old ram: %w", err)
	}
	return d.activate(updateFull)
}

// Sleep puts the panel into deep sleep and releases the bus. Only a
// FullInit leaves this state.
func (d *Driver) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == Sleeping {
		return nil
	}
	if d.mode != Uninitialized {
		if err := d.send(cmdDeepSleep, []byte{0x01}); err != nil {
			return fmt.Errorf("deep sleep: %w", err)
		}
		d.bus.Delay(sleepSettle)
	}
	d.mode = Sleeping
	if err := d.bus.Close(); err != nil {
		return fmt.Errorf("close bus: %w", err)
	}
	d.infof("panel asleep")
	return nil
}

func (d *Driver) ready() error {
	switch d.mode {
	case Uninitialized:
		return ErrNotInitialized
	case Sleeping:
		return ErrSleeping
	}
	return nil
}

func (d *Driver) activate(control byte) error {
	if err := d.send(cmdUpdateControl, []byte{control}); err != nil {
		return err
	}
	if err := d.command(cmdActivate); err != nil {
		return err
	}
	return d.waitIdle()
}

func (d *Driver) reset() error {
	pulses := []struct {
		high bool
		wait time.Duration
	}{
		{true, 20 * time.Millisecond},
		{false, 2 * time.Millisecond},
		{true, 20 * time.Millisecond},
	}
	for _, p := range pulses {
		if err := d.bus.SetReset(p.high); err != nil {
			return fmt.Errorf("reset line: %w", err)
		}
		d.bus.Delay(p.wait)
	}
	return nil
}

func (d *Driver) send(cmd byte, data []byte) error {
	if err := d.command(cmd); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.data(data)
}

func (d *Driver) command(cmd byte) error {
	return d.frame(false, []byte{cmd})
}

func (d *Driver) data(p []byte) error {
	return d.frame(true, p)
}

func (d *Driver) frame(isData bool, p []byte) error {
	if err := d.bus.SetDataCommand(isData); err != nil {
		return fmt.Errorf("dc line: %w", err)
	}
	if err := d.bus.SetChipSelect(false); err != nil {
		return fmt.Errorf("cs line: %w", err)
	}
	writeErr := d.bus.Write(p)
	if err := d.bus.SetChipSelect(true); err != nil && writeErr == nil {
		return fmt.Errorf("cs line: %w", err)
	}
	if writeErr != nil {
		return fmt.Errorf("spi write: %w", writeErr)
	}
	return nil
}

// waitIdle polls the busy line until it drops or the timeout expires.
func (d *Driver) waitIdle() error {
	var waited time.Duration
	for {
		busy, err := d.bus.Busy()
		if err != nil {
			return fmt.Errorf("busy line: %w", err)
		}
		if !busy {
			break
		}
		if waited >= d.busyTimeout {
			d.errorf("busy for %s, giving up", waited)
			return fmt.Errorf("%w after %s", ErrHardwareTimeout, waited)
		}
		d.bus.Delay(d.busyPoll)
		waited += d.busyPoll
	}
	d.bus.Delay(busySettle)
	return nil
}

func (d *Driver) infof(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Infof("epd", format, args...)
	}
}

func (d *Driver) errorf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Errorf("epd", format, args...)
	}
}
