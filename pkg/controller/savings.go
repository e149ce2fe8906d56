package controller

import "github.com/peakguard/peakguard/pkg/types"

// GridCarbonKgPerKWh is the emission factor of grid electricity.
const GridCarbonKgPerKWh = 0.45

// ApplyFinancials fills in the cost and carbon fields of r using its tariff.
// Solar and mitigation count as avoided grid energy.
func ApplyFinancials(r types.DecisionResult) types.DecisionResult {
	rate := r.Tariff.Rate
	r.CostNoMitigation = r.RawPredictedLoadKW * rate
	r.CostWithMitigation = r.NetLoadKW * rate
	r.NetSavings = r.CostNoMitigation - r.CostWithMitigation
	r.CO2SavedKg = (r.SolarGenKW + r.Mitigation.TotalKW) * GridCarbonKgPerKWh
	r.CO2GridKg = r.NetLoadKW * GridCarbonKgPerKWh
	return r
}
