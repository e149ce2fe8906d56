package controller

import (
	"testing"

	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestApplyFinancials(t *testing.T) {
	r := Balance(700, 50, 500, types.MitigationToggles{BatteryManuallyActive: true})
	r.Tariff = types.Tariff{Tier: types.TariffHigh, Rate: 18}

	r = ApplyFinancials(r)
	assert.Equal(t, 700.0*18, r.CostNoMitigation)
	assert.Equal(t, 600.0*18, r.CostWithMitigation)
	assert.Equal(t, 100.0*18, r.NetSavings)
	assert.InDelta(t, 100*0.45, r.CO2SavedKg, 1e-9)
	assert.InDelta(t, 600*0.45, r.CO2GridKg, 1e-9)
}

func TestApplyFinancialsNoMitigation(t *testing.T) {
	r := Balance(300, 0, 500, types.MitigationToggles{})
	r.Tariff = types.Tariff{Rate: 10}

	r = ApplyFinancials(r)
	assert.Equal(t, 0.0, r.NetSavings)
	assert.Equal(t, 0.0, r.CO2SavedKg)
	assert.Equal(t, 3000.0, r.CostWithMitigation)
}
