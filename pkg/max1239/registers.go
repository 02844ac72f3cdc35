package max1239

import (
	"errors"
	"fmt"
)

// Configuration byte layout (MSB to LSB):
//
//	REG SCAN1 SCAN0 CS3 CS2 CS1 CS0 SGL/DIF
//
// Setup byte layout (MSB to LSB):
//
//	REG SEL2 SEL1 SEL0 CLK BIP/UNI RST X

// InputMode selects single-ended or differential measurement (SGL/DIF bit).
type InputMode byte

const (
	SingleEnded  InputMode = 1
	Differential InputMode = 0
)

// Reference selects the voltage reference (SEL2..SEL0 of the setup byte).
type Reference byte

const (
	RefVDD            Reference = 0b000
	RefExternal       Reference = 0b010
	RefInternalOff    Reference = 0b100 // internal ref off between conversions, AIN_/REF as analog input
	RefInternalOn     Reference = 0b101 // internal ref always on, AIN_/REF as analog input
	RefInternalOffOut Reference = 0b110 // internal ref off between conversions, reference output
	RefInternalOnOut  Reference = 0b111 // internal ref always on, reference output
)

// Clock selects the conversion clock source (CLK bit of the setup byte).
type Clock byte

const (
	ClockInternal Clock = 0
	ClockExternal Clock = 1
)

// Polarity selects unipolar or bipolar conversions (BIP/UNI bit).
type Polarity byte

const (
	Unipolar Polarity = 0
	Bipolar  Polarity = 1
)

// Reset selects whether the setup byte also resets the configuration
// register (RST bit, active low).
type Reset byte

const (
	ResetConfig Reset = 0
	NoReset     Reset = 1
)

const (
	regBit = 1 << 7
	// Single-channel immediate conversion: SCAN1=SCAN0=0. Continuous scan
	// modes are not used by this driver.
	scanSingle = 0b00 << 5
)

// ErrInvalidChannel is returned for channel indices outside 0..11.
var ErrInvalidChannel = errors.New("channel out of range (0..11)")

// ConfigByte builds the configuration byte selecting one channel for an
// immediate conversion. Pure function of its inputs.
func ConfigByte(channel int, mode InputMode) (byte, error) {
	if channel < 0 || channel > 11 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return regBit | scanSingle | byte(channel&0x0F)<<1 | byte(mode&1), nil
}

// SetupByte builds the setup byte. The don't-care LSB is left zero.
func SetupByte(ref Reference, clk Clock, pol Polarity, rst Reset) byte {
	return regBit | byte(ref&0x7)<<4 | byte(clk&1)<<3 | byte(pol&1)<<2 | byte(rst&1)<<1
}
