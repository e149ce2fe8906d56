package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peakguard/peakguard/pkg/features"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/predictor"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/peakguard/peakguard/pkg/utility"
)

// LoadPredictor predicts the building load for a feature vector.
type LoadPredictor interface {
	Schema() []string
	Predict(ctx context.Context, features types.FeatureVector) (predictor.Prediction, error)
}

// Controller runs evaluation cycles: it forecasts the load for a situation and
// decides how to mitigate a potential breach of the contract limit.
type Controller struct {
	builder   *features.Builder
	predictor LoadPredictor
}

// NewController creates a new Controller. The feature schema is taken from the
// predictor once.
func NewController(p LoadPredictor) *Controller {
	return &Controller{
		builder:   features.NewBuilder(p.Schema()),
		predictor: p,
	}
}

// Evaluate runs a single cycle for the input and toggle snapshot. The input is
// validated before anything else runs. An error wrapping
// predictor.ErrUnavailable means no result can be produced for the session.
func (c *Controller) Evaluate(ctx context.Context, in types.SituationalInput, toggles types.MitigationToggles) (types.DecisionResult, error) {
	if err := in.Validate(); err != nil {
		return types.DecisionResult{}, err
	}

	log.Ctx(ctx).DebugContext(ctx, "evaluate started",
		slog.String("buildingUse", in.BuildingUse),
		slog.Int("hour", in.HourOfDay),
		slog.Float64("contractLimitKW", in.ContractLimitKW),
		slog.Bool("autoPilot", toggles.AutoPilotEnabled),
		slog.Bool("battery", toggles.BatteryManuallyActive),
		slog.Bool("hvac", toggles.HVACManuallyActive),
	)

	pred, err := c.predictor.Predict(ctx, c.builder.Build(ctx, in))
	if err != nil {
		return types.DecisionResult{}, fmt.Errorf("failed to predict load: %w", err)
	}

	r := Decide(in, pred, toggles)

	log.Ctx(ctx).InfoContext(ctx, "evaluate finished",
		slog.Float64("predictedKW", r.RawPredictedLoadKW),
		slog.Float64("solarKW", r.SolarGenKW),
		slog.Float64("netKW", r.NetLoadKW),
		slog.String("policy", string(r.Mitigation.Policy)),
		slog.Bool("breached", r.Breached),
		slog.Bool("transformFallback", r.TransformFallback),
	)
	return r, nil
}

// Decide assembles the DecisionResult for a validated input and a prediction.
// It is pure.
func Decide(in types.SituationalInput, pred predictor.Prediction, toggles types.MitigationToggles) types.DecisionResult {
	solar := EstimateSolar(in.SolarCapacityKW, in.HourOfDay)

	r := Balance(pred.LoadKW, solar, in.ContractLimitKW, toggles)
	r.ModelOutput = pred.ModelOutput
	r.TransformFallback = pred.Fallback
	r.Tariff = utility.Resolve(in.HourOfDay)
	return ApplyFinancials(r)
}
