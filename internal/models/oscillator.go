package models

import (
	"math"

	"github.com/statelab/odeprop/internal/ode"
)

// HarmonicOscillator is the two-dimensional system
//
//	d(x, v)/dt = (v, -omega^2*x - damping*v)
//
// State layout is [position, velocity].
type HarmonicOscillator struct {
	Omega   float64
	Damping float64
}

func NewHarmonicOscillator() *HarmonicOscillator {
	return &HarmonicOscillator{Omega: 1.0, Damping: 0.0}
}

func (m *HarmonicOscillator) Eval(x ode.State) ode.State {
	return ode.State{x[1], -m.Omega*m.Omega*x[0] - m.Damping*x[1]}
}

// StateDim reports the required state dimension.
func (m *HarmonicOscillator) StateDim() int { return 2 }

// Energy returns the total mechanical energy for unit mass.
func (m *HarmonicOscillator) Energy(x ode.State) float64 {
	return 0.5 * (m.Omega*m.Omega*x[0]*x[0] + x[1]*x[1])
}

// Analytic returns the exact undamped solution at time t. Valid only
// when Damping is zero.
func (m *HarmonicOscillator) Analytic(x0 ode.State, t float64) ode.State {
	w := m.Omega
	c, s := math.Cos(w*t), math.Sin(w*t)
	return ode.State{
		x0[0]*c + x0[1]/w*s,
		-x0[0]*w*s + x0[1]*c,
	}
}
