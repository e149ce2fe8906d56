package predictor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/peakguard/peakguard/pkg/types"

	"gopkg.in/yaml.v3"
)

// LinearModel is a log-space linear regression artifact. It predicts
// log1p(load) as intercept + sum(weight * feature).
type LinearModel struct {
	Name      string             `yaml:"name"`
	Intercept float64            `yaml:"intercept"`
	Features  []string           `yaml:"schema"`
	Weights   map[string]float64 `yaml:"weights"`
}

// LoadLinearModel reads a linear model artifact from a YAML file.
func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	var m LinearModel
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s invalid: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the schema is usable and every weight maps to it.
func (m *LinearModel) Validate() error {
	if len(m.Features) == 0 {
		return errors.New("schema is empty")
	}
	seen := make(map[string]bool, len(m.Features))
	for _, name := range m.Features {
		if name == "" {
			return errors.New("schema contains an empty feature name")
		}
		if seen[name] {
			return fmt.Errorf("schema contains duplicate feature %q", name)
		}
		seen[name] = true
	}
	for name := range m.Weights {
		if !seen[name] {
			return fmt.Errorf("weight for unknown feature %q", name)
		}
	}
	return nil
}

// Schema implements Model.
func (m *LinearModel) Schema() []string {
	return append([]string(nil), m.Features...)
}

// Predict implements Model.
func (m *LinearModel) Predict(ctx context.Context, features types.FeatureVector) (float64, error) {
	if len(features.Names) != len(features.Values) {
		return 0, fmt.Errorf("feature vector has %d names but %d values", len(features.Names), len(features.Values))
	}
	out := m.Intercept
	// iterate the schema, not the map, so the sum is always in the same order
	for i, name := range features.Names {
		out += m.Weights[name] * features.Values[i]
	}
	return out, nil
}
