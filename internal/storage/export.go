package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/statelab/odeprop/internal/propagate"
)

type ExportData struct {
	Model      string      `json:"model"`
	Method     string      `json:"method"`
	Step       float64     `json:"step"`
	Span       float64     `json:"span"`
	StepsTaken int         `json:"steps_taken"`
	Overshoot  float64     `json:"overshoot"`
	Times      []float64   `json:"times"`
	States     [][]float64 `json:"states"`
}

func newExportData(model, method string, step, span float64, result *propagate.Result) ExportData {
	data := ExportData{
		Model:      model,
		Method:     method,
		Step:       step,
		Span:       span,
		StepsTaken: result.StepsTaken,
		Overshoot:  result.Overshoot,
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(w io.Writer, model, method string, step, span float64, result *propagate.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(model, method, step, span, result))
}

func ExportJSONFile(path, model, method string, step, span float64, result *propagate.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, model, method, step, span, result)
}
