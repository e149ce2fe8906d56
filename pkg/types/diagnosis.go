package types

// DiagnosisState is the situational classification of a DecisionResult.
type DiagnosisState string

const (
	DiagnosisAutoPilotEngaged DiagnosisState = "autoPilotEngaged"
	DiagnosisCriticalBreach   DiagnosisState = "criticalBreach"
	DiagnosisMitigationActive DiagnosisState = "mitigationActive"
	DiagnosisSystemOptimized  DiagnosisState = "systemOptimized"
)

// RecommendedAction identifies an operator action offered with a diagnosis.
type RecommendedAction string

const (
	ActionDispatchBattery RecommendedAction = "dispatchBattery"
	ActionOptimizeHVAC    RecommendedAction = "optimizeHVAC"
	ActionReset           RecommendedAction = "reset"
	ActionPreCool         RecommendedAction = "preCool"
	ActionCharge          RecommendedAction = "charge"
	ActionNone            RecommendedAction = "none"
)

// Recommendation is a single recommended action.
type Recommendation struct {
	Action      RecommendedAction `json:"action"`
	Description string            `json:"description"`
}

// Gauges are the percentage displays shown next to a diagnosis.
type Gauges struct {
	GridLoadPct float64 `json:"gridLoadPct"`
	SolarPct    float64 `json:"solarPct"`
}

// Diagnosis is the narrated classification of a DecisionResult.
type Diagnosis struct {
	State           DiagnosisState   `json:"state"`
	Title           string           `json:"title"`
	Summary         string           `json:"summary"`
	Breakdown       []string         `json:"breakdown,omitempty"`
	RootCause       string           `json:"rootCause"`
	Recommendations []Recommendation `json:"recommendations"`
	Gauges          Gauges           `json:"gauges"`
}
