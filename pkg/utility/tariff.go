// Package utility resolves the time-of-use electricity tariff for an hour.
package utility

import "github.com/peakguard/peakguard/pkg/types"

// period is an inclusive range of hours billed at a single tariff.
type period struct {
	hourStart int
	hourEnd   int
	tariff    types.Tariff
}

func (p period) contains(hour int) bool {
	return hour >= p.hourStart && hour <= p.hourEnd
}

var (
	peak   = types.Tariff{Tier: types.TariffPeak, Rate: 24.0, Label: "PEAK RATE"}
	high   = types.Tariff{Tier: types.TariffHigh, Rate: 18.0, Label: "HIGH RATE"}
	normal = types.Tariff{Tier: types.TariffNormal, Rate: 10.0, Label: "NORMAL RATE"}

	// periods are checked in order and the first match wins
	periods = []period{
		{hourStart: 16, hourEnd: 21, tariff: peak},
		{hourStart: 13, hourEnd: 15, tariff: high},
	}
)

// Resolve returns the tariff for the given hour of day. Hours outside every
// period are billed at the normal rate.
func Resolve(hour int) types.Tariff {
	for _, p := range periods {
		if p.contains(hour) {
			return p.tariff
		}
	}
	return normal
}

// HourlyTariff is the tariff for one hour of the day.
type HourlyTariff struct {
	Hour int `json:"hour"`
	types.Tariff
}

// Schedule returns the tariff for every hour of the day, starting at midnight.
func Schedule() []HourlyTariff {
	out := make([]HourlyTariff, 24)
	for h := range out {
		out[h] = HourlyTariff{Hour: h, Tariff: Resolve(h)}
	}
	return out
}
