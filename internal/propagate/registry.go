package propagate

import (
	"fmt"
	"sort"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/models"
	"github.com/statelab/odeprop/internal/ode"
)

// Registry maps model names to derivative factories. Method lookup is
// delegated to integrators.ParseMethod so the two stay in one place.
type Registry struct {
	models map[string]func(params map[string]float64) ode.Derivative
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func(map[string]float64) ode.Derivative),
	}

	r.models["decay"] = func(params map[string]float64) ode.Derivative {
		lambda := paramOr(params, "lambda", 1.0)
		return models.NewExponentialDecay(lambda)
	}
	r.models["drift"] = func(params map[string]float64) ode.Derivative {
		return models.NewConstantDrift(paramOr(params, "rate", 1.0))
	}
	r.models["oscillator"] = func(params map[string]float64) ode.Derivative {
		m := models.NewHarmonicOscillator()
		m.Omega = paramOr(params, "omega", m.Omega)
		m.Damping = paramOr(params, "damping", m.Damping)
		return m
	}
	r.models["logistic"] = func(params map[string]float64) ode.Derivative {
		m := models.NewLogistic()
		m.R = paramOr(params, "r", m.R)
		m.K = paramOr(params, "k", m.K)
		return m
	}

	return r
}

func paramOr(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

func (r *Registry) GetModel(name string, params map[string]float64) (ode.Derivative, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetIntegrator(method string, h float64, f ode.Derivative) (*integrators.FixedStep, error) {
	m, err := integrators.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return integrators.New(f, h, m)
}

// Dimensioned is implemented by models that require a fixed state
// dimension. Elementwise models accept any dimension and need not
// implement it.
type Dimensioned interface {
	StateDim() int
}

// CheckDimension rejects an initial state whose length does not match
// the dimension the model requires. Checking before stepping keeps a
// mismatched state from ever reaching the model's Eval.
func CheckDimension(f ode.Derivative, x0 ode.State) error {
	if d, ok := f.(Dimensioned); ok && d.StateDim() != len(x0) {
		return fmt.Errorf("%w: model requires a %d-dim state, got %d", ode.ErrDimensionMismatch, d.StateDim(), len(x0))
	}
	return nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
