// Package max1239 drives a MAX1239 12-channel, 12-bit ADC over I2C.
//
// Each conversion is one configuration-byte write followed by a two-byte
// read. The device holds conversion state between the two, so the pair is
// issued under a single lock; no other transaction may interleave.
package max1239

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// DefaultAddr is the fixed I2C address of the MAX1239.
const DefaultAddr = 0x35

// MaxValue is the largest 12-bit conversion result.
const MaxValue = (1 << 12) - 1

// Bus is the transaction primitive the driver needs. *i2c.Dev satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// Dev is a handle to one MAX1239. Safe for concurrent use; the write/read
// pair of a conversion never interleaves with another transaction.
type Dev struct {
	mu     sync.Mutex
	bus    Bus
	closer i2c.BusCloser
}

// New opens the named I2C bus and returns a device handle at addr.
func New(busName string, addr int) (*Dev, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	return &Dev{bus: &i2c.Dev{Addr: uint16(addr), Bus: bus}, closer: bus}, nil
}

// NewFromBus wraps an existing transaction primitive. Close is a no-op for
// devices constructed this way; the caller owns the bus.
func NewFromBus(bus Bus) *Dev {
	return &Dev{bus: bus}
}

// Setup sends the setup byte with the driver defaults: internal reference
// always on, internal clock, unipolar, no reset action.
func (d *Dev) Setup() error {
	return d.SetupWith(RefInternalOn, ClockInternal, Unipolar, NoReset)
}

// SetupWith sends a setup byte built from the given selections.
func (d *Dev) SetupWith(ref Reference, clk Clock, pol Polarity, rst Reset) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.bus.Tx([]byte{SetupByte(ref, clk, pol, rst)}, nil); err != nil {
		return fmt.Errorf("write setup: %w", classify(err))
	}
	return nil
}

// ReadSingle converts the given channel once and returns the 12-bit result.
// A failed configuration write aborts the conversion; the result read is not
// attempted.
func (d *Dev) ReadSingle(channel int, mode InputMode) (uint16, error) {
	cfg, err := ConfigByte(channel, mode)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeConfig(cfg); err != nil {
		return 0, err
	}
	return d.readSample()
}

func (d *Dev) writeConfig(cfg byte) error {
	if err := d.bus.Tx([]byte{cfg}, nil); err != nil {
		return fmt.Errorf("write config: %w", classify(err))
	}
	return nil
}

func (d *Dev) readSample() (uint16, error) {
	var buf [2]byte
	if err := d.bus.Tx(nil, buf[:]); err != nil {
		return 0, fmt.Errorf("read sample: %w", classify(err))
	}
	return uint16(buf[0]&0x0F)<<8 | uint16(buf[1]), nil
}

// Close releases the underlying bus if this handle opened it.
func (d *Dev) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
