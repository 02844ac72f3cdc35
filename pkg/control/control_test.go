package control

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func testController() (*Controller, *gpiotest.Pin, *gpiotest.Pin, *gpiotest.Pin) {
	flow := &gpiotest.Pin{N: "GPIO17", Num: 17}
	sel := &gpiotest.Pin{N: "GPIO21", Num: 21}
	rst := &gpiotest.Pin{N: "GPIO25", Num: 25, L: gpio.High}
	c := &Controller{flow: flow, displaySelect: sel, displayReset: rst, resetHold: time.Millisecond}
	return c, flow, sel, rst
}

func TestSetFlowControl(t *testing.T) {
	c, flow, _, _ := testController()

	if err := c.SetFlowControl(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Read() != gpio.High {
		t.Fatalf("flow pin not high after open")
	}
	if err := c.SetFlowControl(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Read() != gpio.Low {
		t.Fatalf("flow pin not low after close")
	}
}

func TestFailSafeForcesFlowLow(t *testing.T) {
	c, flow, _, _ := testController()

	if err := c.SetFlowControl(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.FailSafe(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Read() != gpio.Low {
		t.Fatalf("flow pin not low after fail-safe")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.Read() != gpio.Low {
		t.Fatalf("flow pin not low after close")
	}
}

func TestSetDisplaySelect(t *testing.T) {
	c, _, sel, _ := testController()

	if err := c.SetDisplaySelect(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Read() != gpio.High {
		t.Fatalf("select pin not high for data")
	}
	if err := c.SetDisplaySelect(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Read() != gpio.Low {
		t.Fatalf("select pin not low for command")
	}
}

func TestPulseDisplayResetEndsHigh(t *testing.T) {
	c, _, _, rst := testController()

	if err := c.PulseDisplayReset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rst.Read() != gpio.High {
		t.Fatalf("reset pin not released high after pulse")
	}
}

func TestMissingPins(t *testing.T) {
	c := &Controller{resetHold: time.Millisecond}

	if err := c.SetFlowControl(true); !errors.Is(err, ErrPinUnavailable) {
		t.Fatalf("flow: got %v; want ErrPinUnavailable", err)
	}
	if err := c.SetDisplaySelect(true); !errors.Is(err, ErrPinUnavailable) {
		t.Fatalf("select: got %v; want ErrPinUnavailable", err)
	}
	if err := c.PulseDisplayReset(); !errors.Is(err, ErrPinUnavailable) {
		t.Fatalf("reset: got %v; want ErrPinUnavailable", err)
	}
	// fail-safe with no valve wired is a no-op, not an error
	if err := c.FailSafe(); err != nil {
		t.Fatalf("fail-safe: %v", err)
	}
}
