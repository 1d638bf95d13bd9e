package models

import (
	"math"

	"github.com/statelab/odeprop/internal/ode"
)

// Logistic is dx/dt = r*x*(1 - x/K), the standard saturating-growth
// model. Nonlinear but with a known closed form, which makes it a useful
// convergence target beyond the linear models.
type Logistic struct {
	R float64
	K float64
}

func NewLogistic() *Logistic {
	return &Logistic{R: 1.0, K: 10.0}
}

func (m *Logistic) Eval(x ode.State) ode.State {
	dx := make(ode.State, len(x))
	for i, v := range x {
		dx[i] = m.R * v * (1 - v/m.K)
	}
	return dx
}

func (m *Logistic) Analytic(x0 ode.State, t float64) ode.State {
	result := make(ode.State, len(x0))
	g := math.Exp(m.R * t)
	for i, v := range x0 {
		result[i] = m.K * v * g / (m.K + v*(g-1))
	}
	return result
}
