package sensor

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/host/v3"

	"whsadc/pkg/config"
	"whsadc/pkg/max1239"
)

// ErrUnknownRole is returned when a role has no enabled channel binding.
var ErrUnknownRole = errors.New("role not bound to a channel")

type MAX1239Sensor struct {
	dev       *max1239.Dev
	channels  map[Role]int
	spans     map[Role]span
	order     []Role
	vref      float64
	shuntOhms float64
}

func NewMAX1239Sensor(cfg config.Config) (Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	dev, err := max1239.New(cfg.I2C.Bus, cfg.I2C.Address)
	if err != nil {
		return nil, err
	}
	if err := dev.Setup(); err != nil {
		dev.Close()
		return nil, err
	}
	channels, spans, order := buildRoleSettings(cfg)
	return &MAX1239Sensor{
		dev:       dev,
		channels:  channels,
		spans:     spans,
		order:     order,
		vref:      cfg.VRef,
		shuntOhms: cfg.ShuntOhms,
	}, nil
}

func (s *MAX1239Sensor) Sample(role Role) (Reading, error) {
	ch, ok := s.channels[role]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	raw, err := s.dev.ReadSingle(ch, max1239.SingleEnded)
	if err != nil {
		return Reading{}, err
	}
	return s.reading(role, ch, raw, time.Now()), nil
}

func (s *MAX1239Sensor) Read() ([]Reading, error) {
	out := make([]Reading, 0, len(s.order))
	for _, role := range s.order {
		r, err := s.Sample(role)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MAX1239Sensor) Close() error {
	return s.dev.Close()
}

func (s *MAX1239Sensor) reading(role Role, ch int, raw uint16, now time.Time) Reading {
	volts := float64(raw) / float64(max1239.MaxValue) * s.vref
	value := volts
	if sp, ok := s.spans[role]; ok {
		value = sp.value(volts, s.shuntOhms)
	}
	return Reading{Role: role, Channel: ch, Raw: raw, Volts: volts, Value: value, Timestamp: now}
}
