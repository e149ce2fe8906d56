package controller

import (
	"math"

	"github.com/peakguard/peakguard/pkg/types"
)

const (
	// BatteryDispatchKW is the fixed discharge of a battery dispatch.
	BatteryDispatchKW = 50.0
	// HVACShedFraction is the share of the predicted load an HVAC setpoint
	// shift removes. It is applied to the raw prediction, before solar.
	HVACShedFraction = 0.15
	// BreachPenalty is the flat demand charge levied when the net load exceeds
	// the contract limit, independent of the excess.
	BreachPenalty = 25000.0
)

// Mitigate picks the mitigation policy for a cycle. Autopilot preempts the
// manual toggles whenever the base load is over the limit, otherwise each
// manual toggle contributes on its own.
func Mitigate(rawPredictedKW, baseLoadKW, limitKW float64, toggles types.MitigationToggles) types.Mitigation {
	hvacKW := HVACShedFraction * rawPredictedKW

	var m types.Mitigation
	if toggles.AutoPilotEnabled && baseLoadKW > limitKW {
		m = types.Mitigation{
			Policy:    types.PolicyAuto,
			BatteryKW: BatteryDispatchKW,
			HVACKW:    hvacKW,
		}
	} else {
		m.Policy = types.PolicyNone
		if toggles.BatteryManuallyActive {
			m.BatteryKW = BatteryDispatchKW
		}
		if toggles.HVACManuallyActive {
			m.HVACKW = hvacKW
		}
		if toggles.BatteryManuallyActive || toggles.HVACManuallyActive {
			m.Policy = types.PolicyManual
		}
	}
	m.TotalKW = m.BatteryKW + m.HVACKW
	return m
}

// Balance runs the policy for a predicted load and solar estimate against the
// contract limit and settles the resulting net load. Tariff and financial
// fields are left zero.
func Balance(rawPredictedKW, solarKW, limitKW float64, toggles types.MitigationToggles) types.DecisionResult {
	r := types.DecisionResult{
		RawPredictedLoadKW: rawPredictedKW,
		SolarGenKW:         solarKW,
		BaseLoadKW:         math.Max(0, rawPredictedKW-solarKW),
		ContractLimitKW:    limitKW,
	}
	r.PotentialBreach = r.BaseLoadKW > limitKW
	r.Mitigation = Mitigate(rawPredictedKW, r.BaseLoadKW, limitKW, toggles)

	r.NetLoadKW = math.Max(0, rawPredictedKW-solarKW-r.Mitigation.TotalKW)
	r.Breached = r.NetLoadKW > limitKW
	r.ExcessKW = math.Max(0, r.NetLoadKW-limitKW)
	if r.Breached {
		r.PenaltyAmount = BreachPenalty
	}
	return r
}
