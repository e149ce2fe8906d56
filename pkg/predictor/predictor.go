// Package predictor wraps the opaque load model. Models produce output in
// log1p space; the Predictor inverts that and guards against blow-ups.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/types"
)

// ErrUnavailable is returned when the load model can't be loaded or invoked.
// There is no safe default load estimate so callers must not continue.
var ErrUnavailable = errors.New("load predictor unavailable")

// ImplausibleLoadKW is the inverse-transformed load above which the transform
// is assumed to have failed.
const ImplausibleLoadKW = 200000.0

// Model is a regression model over a fixed feature schema.
type Model interface {
	// Schema returns the ordered feature names the model was trained on.
	Schema() []string

	// Predict returns the model output for the feature vector.
	Predict(ctx context.Context, features types.FeatureVector) (float64, error)
}

// Prediction is the result of a single prediction.
type Prediction struct {
	// ModelOutput is the untransformed model output.
	ModelOutput float64
	// LoadKW is the predicted load, never negative.
	LoadKW float64
	// Fallback is set when expm1 produced an implausible value and ModelOutput
	// was used directly.
	Fallback bool
}

// Predictor invokes a Model and converts its output into a load estimate.
type Predictor struct {
	model Model
}

// New creates a Predictor around the given model.
func New(m Model) *Predictor {
	return &Predictor{model: m}
}

// Schema returns the model's feature schema.
func (p *Predictor) Schema() []string {
	if p.model == nil {
		return nil
	}
	return p.model.Schema()
}

// Predict runs the model and inverse-transforms its output.
//
// The fallback to the raw output when expm1 exceeds ImplausibleLoadKW is a
// heuristic: it keeps a malformed input from producing an astronomically large
// load but the raw output is itself in log space and only an approximation.
func (p *Predictor) Predict(ctx context.Context, features types.FeatureVector) (Prediction, error) {
	if p.model == nil {
		return Prediction{}, fmt.Errorf("%w: no model configured", ErrUnavailable)
	}
	out, err := p.model.Predict(ctx, features)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return Prediction{}, fmt.Errorf("%w: model returned non-finite output %v", ErrUnavailable, out)
	}

	pred := Prediction{
		ModelOutput: out,
		LoadKW:      math.Expm1(out),
	}
	if pred.LoadKW > ImplausibleLoadKW {
		log.Ctx(ctx).WarnContext(
			ctx,
			"inverse transformed load implausible, using raw model output",
			slog.Float64("modelOutput", out),
			slog.Float64("transformed", pred.LoadKW),
		)
		pred.LoadKW = out
		pred.Fallback = true
	}
	pred.LoadKW = math.Max(0, pred.LoadKW)
	return pred, nil
}
