package config

var Presets = map[string]map[string]*Config{
	"decay": {
		"unit": {
			Model: "decay", Method: "rk4", Step: 0.01, Span: 1.0,
			InitState: []float64{1.0},
			Params:    map[string]float64{"lambda": 1.0},
		},
		"stiffish": {
			Model: "decay", Method: "rk4", Step: 0.001, Span: 1.0,
			InitState: []float64{1.0},
			Params:    map[string]float64{"lambda": 50.0},
		},
		"coarse": {
			Model: "decay", Method: "euler", Step: 0.1, Span: 5.0,
			InitState: []float64{1.0},
			Params:    map[string]float64{"lambda": 1.0},
		},
	},
	"oscillator": {
		"undamped": {
			Model: "oscillator", Method: "rk4", Step: 0.01, Span: 20.0,
			InitState: []float64{1.0, 0.0},
			Params:    map[string]float64{"omega": 1.0},
		},
		"damped": {
			Model: "oscillator", Method: "rk4", Step: 0.01, Span: 20.0,
			InitState: []float64{1.0, 0.0},
			Params:    map[string]float64{"omega": 1.0, "damping": 0.2},
		},
		"fast": {
			Model: "oscillator", Method: "rk4", Step: 0.001, Span: 5.0,
			InitState: []float64{1.0, 0.0},
			Params:    map[string]float64{"omega": 10.0},
		},
	},
	"drift": {
		"unit": {
			Model: "drift", Method: "euler", Step: 0.25, Span: 2.0,
			InitState: []float64{0.0},
			Params:    map[string]float64{"rate": 1.0},
		},
	},
	"logistic": {
		"growth": {
			Model: "logistic", Method: "rk4", Step: 0.01, Span: 10.0,
			InitState: []float64{0.5},
			Params:    map[string]float64{"r": 1.0, "k": 10.0},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
