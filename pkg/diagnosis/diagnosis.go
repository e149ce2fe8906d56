// Package diagnosis classifies a decision result into the operator-facing
// situation summary.
package diagnosis

import (
	"fmt"
	"math"

	"github.com/peakguard/peakguard/pkg/types"
)

// preCoolSolarKW is the solar generation above which pre-cooling is suggested
// instead of charging.
const preCoolSolarKW = 50.0

// Classify narrates r. The first matching state wins: autopilot, breach,
// manual mitigation, then optimized. Displayed numbers are truncated to whole
// kW.
func Classify(r types.DecisionResult) types.Diagnosis {
	d := types.Diagnosis{
		Gauges: types.Gauges{
			GridLoadPct: Ratio(r.NetLoadKW, r.ContractLimitKW),
			SolarPct:    Ratio(r.SolarGenKW, r.RawPredictedLoadKW),
		},
	}

	switch {
	case r.Mitigation.Policy == types.PolicyAuto:
		d.State = types.DiagnosisAutoPilotEngaged
		d.Title = "AUTO-PILOT ENGAGED"
		d.Summary = fmt.Sprintf("Threat neutralized. Deployed %d kW countermeasures.", int(r.Mitigation.TotalKW))
		d.Breakdown = []string{
			fmt.Sprintf("Battery dispatch: %d kW", int(r.Mitigation.BatteryKW)),
			fmt.Sprintf("HVAC shift (1.5°C): %d kW", int(r.Mitigation.HVACKW)),
		}
		d.RootCause = "Autonomous system response to predicted grid breach."
		d.Recommendations = []types.Recommendation{
			{Action: types.ActionNone, Description: "Autonomous protocol executed. System secure."},
		}
	case r.Breached:
		d.State = types.DiagnosisCriticalBreach
		d.Title = "CRITICAL BREACH DETECTED"
		d.Summary = fmt.Sprintf("System is +%d kW over limit.", int(r.ExcessKW))
		d.Breakdown = []string{
			fmt.Sprintf("Risk: %d penalty accruing now.", int(r.PenaltyAmount)),
		}
		d.RootCause = "Peak tariff hours coinciding with high AC load."
		d.Recommendations = []types.Recommendation{
			{Action: types.ActionDispatchBattery, Description: "Dispatch battery."},
			{Action: types.ActionOptimizeHVAC, Description: "Optimize HVAC setpoints."},
		}
	case r.Mitigation.Policy == types.PolicyManual:
		d.State = types.DiagnosisMitigationActive
		d.Title = "MITIGATION ACTIVE"
		d.Summary = fmt.Sprintf("Manual actions reduced load by %d kW.", int(r.Mitigation.TotalKW))
		d.RootCause = "Operator intervention successful."
		d.Recommendations = []types.Recommendation{
			{Action: types.ActionReset, Description: "Reset system to release manual mitigations."},
		}
	default:
		d.State = types.DiagnosisSystemOptimized
		d.Title = "SYSTEM OPTIMIZED"
		d.Summary = fmt.Sprintf("Load is %d kW below limit.", int(r.ContractLimitKW-r.NetLoadKW))
		d.RootCause = "Passive solar integration effective."
		if r.SolarGenKW > preCoolSolarKW {
			d.Recommendations = []types.Recommendation{
				{Action: types.ActionPreCool, Description: "Use solar to supercool water loops."},
			}
		} else {
			d.Recommendations = []types.Recommendation{
				{Action: types.ActionCharge, Description: "Grid load is low; recharge main battery."},
			}
		}
	}
	return d
}

// Ratio returns val as a percentage of max, capped at 100. It is 0 when max is
// not positive.
func Ratio(val, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return math.Min(val/max*100, 100)
}
