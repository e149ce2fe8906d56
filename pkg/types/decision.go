package types

// PolicyApplied identifies which mitigation policy governed a cycle.
type PolicyApplied string

const (
	PolicyNone   PolicyApplied = "none"
	PolicyManual PolicyApplied = "manual"
	PolicyAuto   PolicyApplied = "auto"
)

// ToggleKind names one of the operator mitigation toggles.
type ToggleKind string

const (
	ToggleBattery   ToggleKind = "battery"
	ToggleHVAC      ToggleKind = "hvac"
	ToggleAutoPilot ToggleKind = "autoPilot"
)

// Valid reports whether k is a known toggle.
func (k ToggleKind) Valid() bool {
	switch k {
	case ToggleBattery, ToggleHVAC, ToggleAutoPilot:
		return true
	}
	return false
}

// MitigationToggles is a snapshot of a session's mitigation toggles. The engine
// only ever sees a copy taken at the start of a cycle.
type MitigationToggles struct {
	AutoPilotEnabled      bool `json:"autoPilotEnabled"`
	BatteryManuallyActive bool `json:"batteryManuallyActive"`
	HVACManuallyActive    bool `json:"hvacManuallyActive"`
}

// Mitigation is the policy that fired for a cycle along with its effect.
type Mitigation struct {
	Policy    PolicyApplied `json:"policy"`
	BatteryKW float64       `json:"batteryKW"`
	HVACKW    float64       `json:"hvacKW"`
	TotalKW   float64       `json:"totalKW"`
}

// TariffTier is a discrete hour-of-day price bracket.
type TariffTier string

const (
	TariffPeak   TariffTier = "peak"
	TariffHigh   TariffTier = "high"
	TariffNormal TariffTier = "normal"
)

// Tariff is the electricity rate that applies to an hour.
type Tariff struct {
	Tier  TariffTier `json:"tier"`
	Rate  float64    `json:"rate"`
	Label string     `json:"label"`
}

// DecisionResult is recomputed from scratch every cycle and never persisted.
type DecisionResult struct {
	// ModelOutput is the untransformed model output.
	ModelOutput float64 `json:"modelOutput"`
	// TransformFallback is set when expm1 produced an implausible load and the
	// raw model output was used instead.
	TransformFallback bool `json:"transformFallback"`

	RawPredictedLoadKW float64 `json:"rawPredictedLoadKW"`
	SolarGenKW         float64 `json:"solarGenKW"`
	BaseLoadKW         float64 `json:"baseLoadKW"`
	PotentialBreach    bool    `json:"potentialBreach"`

	Mitigation Mitigation `json:"mitigation"`

	NetLoadKW       float64 `json:"netLoadKW"`
	ContractLimitKW float64 `json:"contractLimitKW"`
	Breached        bool    `json:"breached"`
	ExcessKW        float64 `json:"excessKW"`
	PenaltyAmount   float64 `json:"penaltyAmount"`

	Tariff             Tariff  `json:"tariff"`
	CostNoMitigation   float64 `json:"costNoMitigation"`
	CostWithMitigation float64 `json:"costWithMitigation"`
	NetSavings         float64 `json:"netSavings"`
	CO2SavedKg         float64 `json:"co2SavedKg"`
	CO2GridKg          float64 `json:"co2GridKg"`
}
