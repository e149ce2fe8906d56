// Package features builds the fixed-schema feature vector the load model
// expects from an operator's situational inputs.
package features

import (
	"context"
	"log/slog"
	"math"

	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/types"
)

// Feature names understood by the builder.
const (
	SquareFeet     = "square_feet"
	YearBuilt      = "year_built"
	FloorCount     = "floor_count"
	AirTemperature = "air_temperature"
	CloudCoverage  = "cloud_coverage"
	DewTemperature = "dew_temperature"
	Month          = "month"
	HourSin        = "hour_sin"
	HourCos        = "hour_cos"
	DayOfWeekSin   = "day_of_week_sin"
	DayOfWeekCos   = "day_of_week_cos"
	LoadLag1       = "meter_reading_lag1"
	LoadLag24      = "meter_reading_lag24"

	// PrimaryUsePrefix prefixes the one-hot building use indicators.
	PrimaryUsePrefix = "primary_use_"
)

type field struct {
	name  string
	value float64
}

// neutral values for features the operator doesn't control. There is no
// calendar awareness so the day of week is pinned.
var neutral = []field{
	{YearBuilt, 2005},
	{FloorCount, 1},
	{CloudCoverage, 2},
	{Month, 6},
	{DayOfWeekSin, 0},
	{DayOfWeekCos, 1},
}

// Builder assembles feature vectors against a fixed, ordered schema.
type Builder struct {
	schema []string
	index  map[string]int
}

// NewBuilder creates a Builder for the given schema. The schema is copied.
func NewBuilder(schema []string) *Builder {
	b := &Builder{
		schema: append([]string(nil), schema...),
		index:  make(map[string]int, len(schema)),
	}
	for i, name := range b.schema {
		b.index[name] = i
	}
	return b
}

// Schema returns a copy of the builder's schema.
func (b *Builder) Schema() []string {
	return append([]string(nil), b.schema...)
}

// UseIndicator returns the indicator feature name for a building use.
func UseIndicator(use string) string {
	return PrimaryUsePrefix + use
}

func derive(in types.SituationalInput) []field {
	angle := 2 * math.Pi * float64(in.HourOfDay) / 24
	fields := []field{
		{SquareFeet, in.AreaSqFt},
		{AirTemperature, in.OutdoorTempC},
		{DewTemperature, in.OutdoorTempC - 5},
		{HourSin, math.Sin(angle)},
		{HourCos, math.Cos(angle)},
		{LoadLag1, in.Load1hAgoKW},
		{LoadLag24, in.Load24hAgoKW},
	}
	fields = append(fields, neutral...)
	return append(fields, field{UseIndicator(in.BuildingUse), 1})
}

// Build produces a vector covering every schema name. Values without a schema
// slot are dropped.
func (b *Builder) Build(ctx context.Context, in types.SituationalInput) types.FeatureVector {
	v := types.FeatureVector{
		Names:  b.Schema(),
		Values: make([]float64, len(b.schema)),
	}
	for _, f := range derive(in) {
		if i, ok := b.index[f.name]; ok {
			v.Values[i] = f.value
		}
	}
	if dropped := b.Unmapped(in); len(dropped) > 0 {
		log.Ctx(ctx).DebugContext(ctx, "features missing from model schema", slog.Any("dropped", dropped))
	}
	return v
}

// Unmapped returns the names of the input-derived features that have no slot
// in the schema and would be dropped by Build.
func (b *Builder) Unmapped(in types.SituationalInput) []string {
	var out []string
	for _, f := range derive(in) {
		if _, ok := b.index[f.name]; !ok {
			out = append(out, f.name)
		}
	}
	return out
}
