package sensor

import (
	"sort"

	"whsadc/pkg/config"
)

// span is a 4-20mA transmitter range in engineering units.
type span struct {
	min, max float64
}

// value converts the voltage across the loop shunt to engineering units.
// 4mA maps to min, 20mA to max; readings below 4mA extrapolate below min
// rather than being clamped, so a broken loop stays visible.
func (sp span) value(volts, shuntOhms float64) float64 {
	i := volts / shuntOhms
	if i < 0 {
		i = 0
	}
	norm := (i - 4e-3) / 16e-3
	return norm*(sp.max-sp.min) + sp.min
}

// buildRoleSettings extracts the role mapping from the config. The returned
// order lists enabled roles by ascending channel.
func buildRoleSettings(cfg config.Config) (channels map[Role]int, spans map[Role]span, order []Role) {
	channels = make(map[Role]int)
	spans = make(map[Role]span)
	order = make([]Role, 0, len(cfg.Channels))
	for _, c := range cfg.Channels {
		if !c.Enabled {
			continue
		}
		role := Role(c.Role)
		channels[role] = c.Channel
		if c.SpanMin != 0 || c.SpanMax != 0 {
			spans[role] = span{min: c.SpanMin, max: c.SpanMax}
		}
		order = append(order, role)
	}
	sort.Slice(order, func(i, j int) bool {
		return channels[order[i]] < channels[order[j]]
	})
	return
}
