package driver

import (
	"encoding/json"
	"fmt"

	"kilc/internal/diag"
	"kilc/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Input   string               `json:"input,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the timings as an info diagnostic whose
// message carries the JSON payload after the summary line.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "compile"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms\n%s", payload.Kind, payload.TotalMS, data)

	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Unit:     payload.Input,
		Message:  msg,
	}
	if bag.Add(entry) {
		return
	}
	// bag полон: тайминги всё равно должны попасть в вывод
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
