// Package control drives the rig's discrete outputs: the flow-meter valve
// line and the two display control lines. These pins are independent of the
// I2C bus and share no lock with it.
package control

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"whsadc/pkg/config"
)

// ErrPinUnavailable is returned when a configured pin cannot be resolved or
// when an operation targets a line that was not wired.
var ErrPinUnavailable = errors.New("pin unavailable")

const defaultResetHold = 10 * time.Millisecond

// Controller owns the three output lines. Pin operations are synchronous
// and are not retried; a write failure surfaces to the caller.
type Controller struct {
	flow          gpio.PinIO
	displaySelect gpio.PinIO
	displayReset  gpio.PinIO
	resetHold     time.Duration
}

// New resolves the configured pins and drives them to their safe initial
// state: valve closed, display reset line released. An empty pin name means
// the line is not wired and its operations will fail with ErrPinUnavailable.
func New(cfg config.PinsConfig) (*Controller, error) {
	flow, err := pinByName(cfg.FlowControl)
	if err != nil {
		return nil, err
	}
	sel, err := pinByName(cfg.DisplaySelect)
	if err != nil {
		return nil, err
	}
	rst, err := pinByName(cfg.DisplayReset)
	if err != nil {
		return nil, err
	}
	c := &Controller{flow: flow, displaySelect: sel, displayReset: rst, resetHold: defaultResetHold}
	if c.flow != nil {
		if err := c.SetFlowControl(false); err != nil {
			return nil, err
		}
	}
	if c.displayReset != nil {
		if err := c.displayReset.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("display reset: %w", err)
		}
	}
	return c, nil
}

func pinByName(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinUnavailable, name)
	}
	return p, nil
}

// SetFlowControl opens (true) or closes (false) the flow valve line.
func (c *Controller) SetFlowControl(on bool) error {
	if c.flow == nil {
		return fmt.Errorf("%w: flow control", ErrPinUnavailable)
	}
	if err := c.flow.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("flow control: %w", err)
	}
	return nil
}

// SetDisplaySelect sets the display address/command line: true selects data,
// false selects command.
func (c *Controller) SetDisplaySelect(data bool) error {
	if c.displaySelect == nil {
		return fmt.Errorf("%w: display select", ErrPinUnavailable)
	}
	if err := c.displaySelect.Out(gpio.Level(data)); err != nil {
		return fmt.Errorf("display select: %w", err)
	}
	return nil
}

// PulseDisplayReset holds the display reset line low, then releases it high.
func (c *Controller) PulseDisplayReset() error {
	if c.displayReset == nil {
		return fmt.Errorf("%w: display reset", ErrPinUnavailable)
	}
	if err := c.displayReset.Out(gpio.Low); err != nil {
		return fmt.Errorf("display reset: %w", err)
	}
	time.Sleep(c.resetHold)
	if err := c.displayReset.Out(gpio.High); err != nil {
		return fmt.Errorf("display reset: %w", err)
	}
	return nil
}

// FailSafe forces the flow valve line low. Safe to call with no flow pin.
func (c *Controller) FailSafe() error {
	if c.flow == nil {
		return nil
	}
	return c.SetFlowControl(false)
}

// Close fails safe and releases nothing else; the pins stay in their last
// driven state.
func (c *Controller) Close() error {
	return c.FailSafe()
}
