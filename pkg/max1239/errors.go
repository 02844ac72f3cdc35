package max1239

import (
	"errors"
	"fmt"
	"syscall"
)

// Transport error classes. The i2c-dev layer reports bus failures as plain
// errno values; classify maps the ones with a defined meaning onto these
// sentinels so callers can match with errors.Is.
var (
	ErrNack            = errors.New("device nack")
	ErrTimeout         = errors.New("bus timeout")
	ErrArbitrationLost = errors.New("bus arbitration lost")
)

func classify(err error) error {
	switch {
	case errors.Is(err, syscall.ENXIO):
		return fmt.Errorf("%w: %v", ErrNack, err)
	case errors.Is(err, syscall.ETIMEDOUT):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, syscall.EAGAIN):
		return fmt.Errorf("%w: %v", ErrArbitrationLost, err)
	}
	return err
}
