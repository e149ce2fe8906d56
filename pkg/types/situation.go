package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a SituationalInput fails validation. No part
// of an evaluation runs with an invalid input.
var ErrInvalidInput = errors.New("invalid input")

// SituationalInput is the set of operator inputs for a single evaluation cycle.
type SituationalInput struct {
	BuildingUse     string  `json:"buildingUse"`
	AreaSqFt        float64 `json:"areaSqFt"`
	ContractLimitKW float64 `json:"contractLimitKW"`
	SolarCapacityKW float64 `json:"solarCapacityKW"`
	OutdoorTempC    float64 `json:"outdoorTempC"`
	HourOfDay       int     `json:"hourOfDay"`
	Load1hAgoKW     float64 `json:"load1hAgoKW"`
	Load24hAgoKW    float64 `json:"load24hAgoKW"`
}

// DefaultSituationalInput returns the inputs an operator starts a session with
// for the given archetype.
func DefaultSituationalInput(a BuildingArchetype) SituationalInput {
	return SituationalInput{
		BuildingUse:     a.Use,
		AreaSqFt:        a.TypicalAreaSqFt,
		ContractLimitKW: 500,
		SolarCapacityKW: 100,
		OutdoorTempC:    28,
		HourOfDay:       14,
		Load1hAgoKW:     300,
		Load24hAgoKW:    310,
	}
}

// Validate checks the input boundary and returns an error wrapping
// ErrInvalidInput for the first offending field.
func (in SituationalInput) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"areaSqFt", in.AreaSqFt},
		{"contractLimitKW", in.ContractLimitKW},
		{"solarCapacityKW", in.SolarCapacityKW},
		{"outdoorTempC", in.OutdoorTempC},
		{"load1hAgoKW", in.Load1hAgoKW},
		{"load24hAgoKW", in.Load24hAgoKW},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, f.name)
		}
	}

	if in.BuildingUse == "" {
		return fmt.Errorf("%w: buildingUse is required", ErrInvalidInput)
	}
	if in.AreaSqFt <= 0 {
		return fmt.Errorf("%w: areaSqFt must be > 0 (got %v)", ErrInvalidInput, in.AreaSqFt)
	}
	if in.ContractLimitKW <= 0 {
		return fmt.Errorf("%w: contractLimitKW must be > 0 (got %v)", ErrInvalidInput, in.ContractLimitKW)
	}
	if in.SolarCapacityKW < 0 {
		return fmt.Errorf("%w: solarCapacityKW must be >= 0 (got %v)", ErrInvalidInput, in.SolarCapacityKW)
	}
	if in.HourOfDay < 0 || in.HourOfDay > 23 {
		return fmt.Errorf("%w: hourOfDay must be in [0,23] (got %d)", ErrInvalidInput, in.HourOfDay)
	}
	if in.Load1hAgoKW < 0 || in.Load24hAgoKW < 0 {
		return fmt.Errorf("%w: lag loads must be >= 0", ErrInvalidInput)
	}
	return nil
}

// BuildingArchetype is a row of the static building reference data.
type BuildingArchetype struct {
	Use             string  `json:"use" yaml:"use"`
	TypicalAreaSqFt float64 `json:"typicalAreaSqFt" yaml:"typical_area_sq_ft"`
}
