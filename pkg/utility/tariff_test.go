package utility

import (
	"testing"

	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		hour  int
		tier  types.TariffTier
		rate  float64
		label string
	}{
		{0, types.TariffNormal, 10, "NORMAL RATE"},
		{12, types.TariffNormal, 10, "NORMAL RATE"},
		{13, types.TariffHigh, 18, "HIGH RATE"},
		{15, types.TariffHigh, 18, "HIGH RATE"},
		{16, types.TariffPeak, 24, "PEAK RATE"},
		{21, types.TariffPeak, 24, "PEAK RATE"},
		{22, types.TariffNormal, 10, "NORMAL RATE"},
		{23, types.TariffNormal, 10, "NORMAL RATE"},
	}
	for _, tt := range tests {
		got := Resolve(tt.hour)
		assert.Equal(t, tt.tier, got.Tier, "hour %d", tt.hour)
		assert.Equal(t, tt.rate, got.Rate, "hour %d", tt.hour)
		assert.Equal(t, tt.label, got.Label, "hour %d", tt.hour)
	}
}

func TestSchedule(t *testing.T) {
	s := Schedule()
	require.Len(t, s, 24)

	counts := map[types.TariffTier]int{}
	for h, entry := range s {
		assert.Equal(t, h, entry.Hour)
		assert.Equal(t, Resolve(h), entry.Tariff)
		counts[entry.Tier]++
	}
	assert.Equal(t, 6, counts[types.TariffPeak])
	assert.Equal(t, 3, counts[types.TariffHigh])
	assert.Equal(t, 15, counts[types.TariffNormal])
}
