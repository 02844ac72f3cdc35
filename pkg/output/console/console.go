package console

import (
	"fmt"
	"time"

	"whsadc/pkg/output"
	"whsadc/pkg/sensor"
)

type ConsoleOutput struct{}

func NewConsole() output.Output { return &ConsoleOutput{} }

func (c *ConsoleOutput) Publish(readings []sensor.Reading) error {
	for _, r := range readings {
		fmt.Printf("%s role=%s channel=%d raw=%d volts=%.4f value=%.3f\n",
			r.Timestamp.Format(time.RFC3339), r.Role, r.Channel, r.Raw, r.Volts, r.Value)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
