package epd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// spidev's default bufsiz.
const defaultMaxTx = 4096

type PeriphConfig struct {
	SPIPort  string // empty selects the first registered port
	SPISpeed physic.Frequency
	ResetPin string
	DCPin    string
	BusyPin  string
	// CSPin drives chip select manually. Leave empty when the SPI
	// controller's hardware chip select is wired to the panel.
	CSPin string
}

// PeriphBus implements Bus with periph.io SPI and GPIO.
type PeriphBus struct {
	cfg PeriphConfig

	mu    sync.Mutex
	port  spi.PortCloser
	conn  spi.Conn
	maxTx int
	rst   gpio.PinIO
	dc    gpio.PinIO
	busy  gpio.PinIO
	cs    gpio.PinIO
}

func NewPeriphBus(cfg PeriphConfig) *PeriphBus {
	if cfg.SPISpeed <= 0 {
		cfg.SPISpeed = 4 * physic.MegaHertz
	}
	return &PeriphBus{cfg: cfg}
}

func (b *PeriphBus) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.port != nil {
		return nil
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	var err error
	if b.rst, err = outputPin(b.cfg.ResetPin, gpio.High); err != nil {
		return err
	}
	if b.dc, err = outputPin(b.cfg.DCPin, gpio.Low); err != nil {
		return err
	}
	if b.cfg.CSPin != "" {
		if b.cs, err = outputPin(b.cfg.CSPin, gpio.High); err != nil {
			return err
		}
	}
	b.busy = gpioreg.ByName(b.cfg.BusyPin)
	if b.busy == nil {
		return fmt.Errorf("busy pin %q not found", b.cfg.BusyPin)
	}
	if err := b.busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("busy pin %s: %w", b.cfg.BusyPin, err)
	}

	port, err := spireg.Open(b.cfg.SPIPort)
	if err != nil {
		return fmt.Errorf("open spi %q: %w", b.cfg.SPIPort, err)
	}
	c, err := port.Connect(b.cfg.SPISpeed, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return fmt.Errorf("connect spi: %w", err)
	}
	b.maxTx = defaultMaxTx
	if limits, ok := c.(conn.Limits); ok && limits.MaxTxSize() > 0 {
		b.maxTx = limits.MaxTxSize()
	}
	b.port = port
	b.conn = c
	return nil
}

func outputPin(name string, initial gpio.Level) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	if err := pin.Out(initial); err != nil {
		return nil, fmt.Errorf("gpio %s: %w", name, err)
	}
	return pin, nil
}

func (b *PeriphBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.port == nil {
		return nil
	}
	var errs []error
	if b.rst != nil {
		errs = append(errs, b.rst.Out(gpio.Low))
	}
	if b.dc != nil {
		errs = append(errs, b.dc.Out(gpio.Low))
	}
	errs = append(errs, b.port.Close())
	b.port = nil
	b.conn = nil
	return errors.Join(errs...)
}

func (b *PeriphBus) SetReset(high bool) error { return b.level(b.rst, high) }

func (b *PeriphBus) SetDataCommand(high bool) error { return b.level(b.dc, high) }

func (b *PeriphBus) SetChipSelect(high bool) error {
	if b.cs == nil {
		return nil
	}
	return b.level(b.cs, high)
}

func (b *PeriphBus) level(pin gpio.PinIO, high bool) error {
	if pin == nil {
		return errors.New("bus not open")
	}
	return pin.Out(gpio.Level(high))
}

func (b *PeriphBus) Write(p []byte) error {
	b.mu.Lock()
	c, maxTx := b.conn, b.maxTx
	b.mu.Unlock()
	if c == nil {
		return errors.New("bus not open")
	}
	for len(p) > 0 {
		n := len(p)
		if n > maxTx {
			n = maxTx
		}
		if err := c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (b *PeriphBus) Busy() (bool, error) {
	if b.busy == nil {
		return false, errors.New("bus not open")
	}
	return b.busy.Read() == gpio.High, nil
}

func (b *PeriphBus) Delay(d time.Duration) { time.Sleep(d) }
