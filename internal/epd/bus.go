package epd

import "time"

// Bus is the pin and SPI surface the driver talks to. Levels are true for high.
type Bus interface {
	// Open claims the bus and pins. It is called by every init sequence and
	// must be safe to call on an already open bus.
	Open() error
	// Close releases the bus and pins.
	Close() error

	SetReset(high bool) error
	SetDataCommand(high bool) error
	SetChipSelect(high bool) error
	Write(p []byte) error
	Busy() (bool, error)
	Delay(d time.Duration)
}
