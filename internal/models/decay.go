package models

import (
	"math"

	"github.com/statelab/odeprop/internal/ode"
)

// ExponentialDecay is dX/dt = -lambda*X, applied elementwise. Its closed
// form x(t) = x0*exp(-lambda*t) makes it the reference model for
// accuracy checks.
type ExponentialDecay struct {
	Lambda float64
}

func NewExponentialDecay(lambda float64) *ExponentialDecay {
	return &ExponentialDecay{Lambda: lambda}
}

func (m *ExponentialDecay) Eval(x ode.State) ode.State {
	return x.Scale(-m.Lambda)
}

// Analytic returns the exact solution at time t from x0.
func (m *ExponentialDecay) Analytic(x0 ode.State, t float64) ode.State {
	return x0.Scale(math.Exp(-m.Lambda * t))
}
