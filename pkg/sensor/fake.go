package sensor

import (
	"math/rand"
	"sync"
	"time"

	"whsadc/pkg/config"
	"whsadc/pkg/max1239"
)

// FakeSensor produces random in-range readings for hardware-free runs.
type FakeSensor struct {
	mu        sync.Mutex
	channels  map[Role]int
	spans     map[Role]span
	order     []Role
	vref      float64
	shuntOhms float64
}

func NewFakeSensor(cfg config.Config) (Sensor, error) {
	channels, spans, order := buildRoleSettings(cfg)
	return &FakeSensor{
		channels:  channels,
		spans:     spans,
		order:     order,
		vref:      cfg.VRef,
		shuntOhms: cfg.ShuntOhms,
	}, nil
}

func (f *FakeSensor) Sample(role Role) (Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[role]
	if !ok {
		return Reading{}, ErrUnknownRole
	}
	return f.reading(role, ch, time.Now()), nil
}

func (f *FakeSensor) Read() ([]Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	out := make([]Reading, 0, len(f.order))
	for _, role := range f.order {
		out = append(out, f.reading(role, f.channels[role], now))
	}
	return out, nil
}

func (f *FakeSensor) Close() error { return nil }

func (f *FakeSensor) reading(role Role, ch int, now time.Time) Reading {
	raw := uint16(rand.Intn(max1239.MaxValue + 1))
	volts := float64(raw) / float64(max1239.MaxValue) * f.vref
	value := volts
	if sp, ok := f.spans[role]; ok {
		value = sp.value(volts, f.shuntOhms)
	}
	return Reading{Role: role, Channel: ch, Raw: raw, Volts: volts, Value: value, Timestamp: now}
}
