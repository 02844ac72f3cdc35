package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Role names accepted in channel configuration.
const (
	RoleHotTemp  = "hot_temp"
	RoleColdTemp = "cold_temp"
	RoleFlow     = "flow"
	RoleAmbient  = "ambient"
)

type I2CConfig struct {
	Bus     string `json:"bus"`
	Address int    `json:"address"`
}

type PinsConfig struct {
	FlowControl   string `json:"flow_control"`
	DisplaySelect string `json:"display_select"`
	DisplayReset  string `json:"display_reset"`
}

type ChannelConfig struct {
	Role    string  `json:"role"`
	Channel int     `json:"channel"`
	Enabled bool    `json:"enabled"`
	SpanMin float64 `json:"span_min"`
	SpanMax float64 `json:"span_max"`
}

type OutputConfig struct {
	Type       string `json:"type"`
	IntervalMs int    `json:"interval_ms,omitempty"`
}

type Config struct {
	I2C        I2CConfig       `json:"i2c"`
	VRef       float64         `json:"vref"`
	ShuntOhms  float64         `json:"shunt_ohms"`
	Channels   []ChannelConfig `json:"channels"`
	Pins       PinsConfig      `json:"pins"`
	Outputs    []OutputConfig  `json:"outputs"`
	SensorType string          `json:"sensor_type"`
	IntervalMs int             `json:"interval_ms"`
}

// DefaultConfig matches the rig wiring: MAX1239 at 0x35 on i2c-1, two
// temperature transmitters, one flow transmitter and the ambient channel on
// 4-20mA loops through a 120R shunt, valve on GPIO17, display lines on
// GPIO21/GPIO25.
func DefaultConfig() Config {
	return Config{
		I2C:       I2CConfig{Bus: "1", Address: 0x35},
		VRef:      4.096,
		ShuntOhms: 120.0,
		Channels: []ChannelConfig{
			{Role: RoleHotTemp, Channel: 0, Enabled: true, SpanMin: -50.0, SpanMax: 150.0},
			{Role: RoleColdTemp, Channel: 1, Enabled: true, SpanMin: -50.0, SpanMax: 150.0},
			{Role: RoleFlow, Channel: 2, Enabled: true, SpanMin: 0.2, SpanMax: 10.0},
			{Role: RoleAmbient, Channel: 4, Enabled: true, SpanMin: -50.0, SpanMax: 150.0},
		},
		Pins:       PinsConfig{FlowControl: "GPIO17", DisplaySelect: "GPIO21", DisplayReset: "GPIO25"},
		Outputs:    []OutputConfig{{Type: "console", IntervalMs: 1000}},
		SensorType: "real",
		IntervalMs: 500,
	}
}

// LoadFromFlags loads configuration from a JSON file (optional) and flags.
// Flags override values present in the JSON file.
func LoadFromFlags() (Config, error) {
	cfgPath := flag.String("config", "", "Path to JSON config file")
	flagI2CBus := flag.String("i2c-bus", "", "I2C bus (e.g., '1' -> /dev/i2c-1)")
	flagI2CAddStr := flag.String("i2c-address", "", "I2C address (decimal or 0x hex)")
	flagVRef := flag.Float64("vref", -1, "ADC reference voltage")
	flagShunt := flag.Float64("shunt-ohms", -1, "Loop shunt resistance in ohms")
	flagChannels := flag.String("channels", "", "Comma-separated role=channel pairs e.g. hot_temp=0,flow=2")
	flagFlowPin := flag.String("flow-pin", "", "Flow control output pin name")
	flagSelectPin := flag.String("display-select-pin", "", "Display address/command select pin name")
	flagResetPin := flag.String("display-reset-pin", "", "Display reset pin name")
	flagOutputs := flag.String("outputs", "", "Comma-separated outputs (console)")
	flagOutputIntervals := flag.String("output-intervals", "", "Comma-separated output intervals e.g. console=1000")
	flagSensorType := flag.String("sensor-type", "", "sensor type: real|simulation")
	flagInterval := flag.Int("interval-ms", -1, "Sampling interval in ms")

	flag.Parse()

	cfg := DefaultConfig()

	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if *flagI2CBus != "" {
		cfg.I2C.Bus = *flagI2CBus
	}
	if *flagI2CAddStr != "" {
		v, err := parseIntOrHex(*flagI2CAddStr)
		if err != nil {
			return cfg, fmt.Errorf("i2c-address: %w", err)
		}
		cfg.I2C.Address = v
	}
	if *flagVRef > 0 {
		cfg.VRef = *flagVRef
	}
	if *flagShunt > 0 {
		cfg.ShuntOhms = *flagShunt
	}
	if *flagChannels != "" {
		mapping, err := parseRoleChannels(*flagChannels)
		if err != nil {
			return cfg, err
		}
		for i := range cfg.Channels {
			if ch, ok := mapping[cfg.Channels[i].Role]; ok {
				cfg.Channels[i].Channel = ch
				delete(mapping, cfg.Channels[i].Role)
			}
		}
		for role, ch := range mapping {
			cfg.Channels = append(cfg.Channels, ChannelConfig{Role: role, Channel: ch, Enabled: true})
		}
	}
	if *flagFlowPin != "" {
		cfg.Pins.FlowControl = *flagFlowPin
	}
	if *flagSelectPin != "" {
		cfg.Pins.DisplaySelect = *flagSelectPin
	}
	if *flagResetPin != "" {
		cfg.Pins.DisplayReset = *flagResetPin
	}
	if *flagOutputs != "" {
		parts := parseCSV(*flagOutputs)
		outs := make([]OutputConfig, 0, len(parts))
		for _, p := range parts {
			outs = append(outs, OutputConfig{Type: p, IntervalMs: cfg.IntervalMs})
		}
		cfg.Outputs = outs
	}
	if *flagOutputIntervals != "" {
		outIntervals := map[string]int{}
		for _, p := range parseCSV(*flagOutputIntervals) {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			if v, err := strconv.Atoi(kv[1]); err == nil {
				outIntervals[strings.TrimSpace(kv[0])] = v
			}
		}
		for i := range cfg.Outputs {
			if v, ok := outIntervals[cfg.Outputs[i].Type]; ok {
				cfg.Outputs[i].IntervalMs = v
			}
		}
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagInterval != -1 {
		cfg.IntervalMs = *flagInterval
	}
	// ensure outputs have interval default
	for i := range cfg.Outputs {
		if cfg.Outputs[i].IntervalMs == 0 {
			cfg.Outputs[i].IntervalMs = cfg.IntervalMs
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the sampler cannot honor.
func (c Config) Validate() error {
	if c.IntervalMs <= 0 {
		return errors.New("interval-ms must be > 0")
	}
	if c.VRef <= 0 {
		return errors.New("vref must be > 0")
	}
	if c.ShuntOhms <= 0 {
		return errors.New("shunt-ohms must be > 0")
	}
	seenRole := map[string]bool{}
	seenChannel := map[int]bool{}
	for _, ch := range c.Channels {
		switch ch.Role {
		case RoleHotTemp, RoleColdTemp, RoleFlow, RoleAmbient:
		default:
			return fmt.Errorf("unknown role %q", ch.Role)
		}
		if ch.Channel < 0 || ch.Channel > 11 {
			return fmt.Errorf("role %s: channel %d out of range (0..11)", ch.Role, ch.Channel)
		}
		if seenRole[ch.Role] {
			return fmt.Errorf("duplicate role %q", ch.Role)
		}
		if seenChannel[ch.Channel] {
			return fmt.Errorf("channel %d assigned twice", ch.Channel)
		}
		seenRole[ch.Role] = true
		seenChannel[ch.Channel] = true
	}
	return nil
}

func parseIntOrHex(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 0)
		return int(v), err
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseRoleChannels(s string) (map[string]int, error) {
	out := map[string]int{}
	for _, p := range parseCSV(s) {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid channel mapping '%s'", p)
		}
		v, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid channel '%s': %w", kv[1], err)
		}
		out[strings.TrimSpace(kv[0])] = v
	}
	return out, nil
}
