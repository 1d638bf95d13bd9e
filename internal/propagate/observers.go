package propagate

import "github.com/statelab/odeprop/internal/ode"

// NormTracker observes a run and tracks the growth of the state norm, a
// cheap divergence watch for long propagations.
type NormTracker struct {
	Max   float64
	Final float64
	steps int
}

func NewNormTracker() *NormTracker {
	return &NormTracker{}
}

func (n *NormTracker) OnStep(x ode.State, t float64) {
	norm := x.Norm()
	if norm > n.Max {
		n.Max = norm
	}
	n.Final = norm
	n.steps++
}

func (n *NormTracker) Steps() int { return n.steps }

func (n *NormTracker) Reset() {
	n.Max = 0
	n.Final = 0
	n.steps = 0
}
