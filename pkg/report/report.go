// Package report renders the shift report an operator downloads after an
// evaluation.
package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/peakguard/peakguard/pkg/types"
)

// Meta is the context of an evaluation that isn't part of its result.
type Meta struct {
	Date    time.Time
	Input   types.SituationalInput
	Toggles types.MitigationToggles
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"check": func(b bool) string {
		if b {
			return "x"
		}
		return " "
	},
	"onOff": func(b bool) string {
		if b {
			return "ENABLED"
		}
		return "DISABLED"
	},
	"kw":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"next": func(h int) int { return h + 1 },
}).Parse(`PEAKGUARD AI - INCIDENT REPORT
----------------------------------
Date: {{.Meta.Date.Format "2006-01-02"}}
Time Block: {{.Meta.Input.HourOfDay}}:00 - {{next .Meta.Input.HourOfDay}}:00
Building Type: {{.Meta.Input.BuildingUse}}
Auto-Pilot: {{onOff .Meta.Toggles.AutoPilotEnabled}}

STATUS: {{if .Result.Breached}}CRITICAL BREACH{{else}}OPTIMIZED{{end}}
----------------------------------
Contract Limit: {{kw .Result.ContractLimitKW}} kW
Actual Net Load: {{kw .Result.NetLoadKW}} kW

FINANCIALS (Rate: {{kw .Result.Tariff.Rate}}/kWh, {{.Result.Tariff.Label}})
----------------------------------
Net Savings:     {{kw .Result.NetSavings}}

ACTIONS:
[{{check (gt .Result.SolarGenKW 0.0)}}] Solar Integration
[{{check .AutoTriggered}}] Auto-Pilot Mitigation
[{{check .Meta.Toggles.BatteryManuallyActive}}] Manual Battery
[{{check .Meta.Toggles.HVACManuallyActive}}] Manual HVAC
`))

// Write renders the report for r to w.
func Write(w io.Writer, meta Meta, r types.DecisionResult) error {
	err := tmpl.Execute(w, struct {
		Meta          Meta
		Result        types.DecisionResult
		AutoTriggered bool
	}{
		Meta:          meta,
		Result:        r,
		AutoTriggered: r.Mitigation.Policy == types.PolicyAuto,
	})
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// FileName is the suggested download name for a report of the given hour.
func FileName(hour int) string {
	return fmt.Sprintf("PeakGuard_Report_%d00.txt", hour)
}
