package output

import "whsadc/pkg/sensor"

type Output interface {
	Publish([]sensor.Reading) error
	Close() error
}

// implementations live in subpackages
