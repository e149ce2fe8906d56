package controller

import "math"

const (
	solarFirstHour = 7
	solarLastHour  = 18
	solarPeakHour  = 13
	// solarHalfWidth is the number of hours from the peak at which efficiency
	// reaches zero.
	solarHalfWidth = 6.0
	// SolarDerate accounts for inverter and soiling losses.
	SolarDerate = 0.95
)

// EstimateSolar returns the expected solar generation in kW for the given
// installed capacity and hour of day. Generation follows a triangle peaking at
// 13:00 and is zero outside 07:00-18:59.
func EstimateSolar(capacityKW float64, hour int) float64 {
	if hour < solarFirstHour || hour > solarLastHour {
		return 0
	}
	efficiency := math.Max(0, 1-math.Abs(float64(hour-solarPeakHour))/solarHalfWidth)
	return capacityKW * efficiency * SolarDerate
}
