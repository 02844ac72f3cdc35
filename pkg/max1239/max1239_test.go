package max1239

import (
	"errors"
	"syscall"
	"testing"
)

// fakeBus records transactions and serves a canned conversion result.
type fakeBus struct {
	writes   [][]byte
	reads    int
	writeErr error
	readErr  error
	sample   [2]byte
}

func (f *fakeBus) Tx(w, r []byte) error {
	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
		if f.writeErr != nil {
			return f.writeErr
		}
	}
	if len(r) > 0 {
		if f.readErr != nil {
			return f.readErr
		}
		f.reads++
		copy(r, f.sample[:])
	}
	return nil
}

func TestReadSingleSequencing(t *testing.T) {
	bus := &fakeBus{sample: [2]byte{0x0A, 0xBC}}
	dev := NewFromBus(bus)

	raw, err := dev.ReadSingle(2, SingleEnded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != 0xABC {
		t.Fatalf("raw: got %#03x; want 0xABC", raw)
	}
	if len(bus.writes) != 1 || len(bus.writes[0]) != 1 || bus.writes[0][0] != 0x85 {
		t.Fatalf("config write: got %v; want one write of 0x85", bus.writes)
	}
	if bus.reads != 1 {
		t.Fatalf("reads: got %d; want 1", bus.reads)
	}
}

func TestReadSingleMasksResultHighNibble(t *testing.T) {
	bus := &fakeBus{sample: [2]byte{0xFF, 0xFF}}
	dev := NewFromBus(bus)

	raw, err := dev.ReadSingle(0, SingleEnded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != MaxValue {
		t.Fatalf("raw: got %d; want %d", raw, MaxValue)
	}
}

func TestReadSingleWriteFailureSkipsRead(t *testing.T) {
	bus := &fakeBus{writeErr: syscall.ENXIO}
	dev := NewFromBus(bus)

	_, err := dev.ReadSingle(0, SingleEnded)
	if !errors.Is(err, ErrNack) {
		t.Fatalf("got %v; want ErrNack", err)
	}
	if bus.reads != 0 {
		t.Fatalf("read attempted after failed write (%d reads)", bus.reads)
	}
}

func TestReadSingleInvalidChannelNoBusTraffic(t *testing.T) {
	bus := &fakeBus{}
	dev := NewFromBus(bus)

	_, err := dev.ReadSingle(12, SingleEnded)
	if !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("got %v; want ErrInvalidChannel", err)
	}
	if len(bus.writes) != 0 || bus.reads != 0 {
		t.Fatalf("bus touched for invalid channel: %d writes, %d reads", len(bus.writes), bus.reads)
	}
}

func TestSetupWritesDefaultByte(t *testing.T) {
	bus := &fakeBus{}
	dev := NewFromBus(bus)

	if err := dev.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.writes) != 1 || bus.writes[0][0] != 0xD2 {
		t.Fatalf("setup write: got %v; want one write of 0xD2", bus.writes)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{syscall.ENXIO, ErrNack},
		{syscall.ETIMEDOUT, ErrTimeout},
		{syscall.EAGAIN, ErrArbitrationLost},
	}
	for _, tt := range tests {
		if got := classify(tt.in); !errors.Is(got, tt.want) {
			t.Fatalf("classify(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}

	other := errors.New("bus exploded")
	if got := classify(other); got != other {
		t.Fatalf("classify passed-through error changed: %v", got)
	}
}
