package models

import "github.com/statelab/odeprop/internal/ode"

// ConstantDrift is dX/dt = k for a fixed rate vector k. Euler integrates
// it exactly over any whole number of steps.
type ConstantDrift struct {
	Rate ode.State
}

func NewConstantDrift(rate ...float64) *ConstantDrift {
	return &ConstantDrift{Rate: ode.State(rate)}
}

func (m *ConstantDrift) Eval(x ode.State) ode.State {
	return m.Rate.Clone()
}

// StateDim reports the required state dimension, fixed by the rate
// vector length.
func (m *ConstantDrift) StateDim() int { return len(m.Rate) }

func (m *ConstantDrift) Analytic(x0 ode.State, t float64) ode.State {
	result := x0.Clone()
	result.AddScaled(t, m.Rate)
	return result
}
