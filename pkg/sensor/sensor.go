package sensor

import "time"

// Role is the semantic binding of an ADC channel. Channels without a role
// are reserved and never sampled.
type Role string

const (
	HotTemp  Role = "hot_temp"
	ColdTemp Role = "cold_temp"
	Flow     Role = "flow"
	Ambient  Role = "ambient"
)

// Reading is one converted sample. Raw is the 12-bit ADC result; Volts is
// the voltage at the channel input; Value is the engineering value after
// loop-span scaling (degrees C for the temperature roles, GPM for flow).
type Reading struct {
	Role      Role      `json:"role"`
	Channel   int       `json:"channel"`
	Raw       uint16    `json:"raw"`
	Volts     float64   `json:"volts"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

type Sensor interface {
	// Sample converts the channel bound to one role.
	Sample(Role) (Reading, error)
	// Read samples every enabled role in channel order.
	Read() ([]Reading, error)
	Close() error
}
