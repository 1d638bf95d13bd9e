package propagate

import (
	"context"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
)

// Observer receives every intermediate state during a run.
type Observer interface {
	OnStep(x ode.State, t float64)
}

// Result is the recorded trajectory of one propagation.
type Result struct {
	States     []ode.State
	Times      []float64
	Final      ode.State
	StepsTaken int
	// Overshoot is how far past the requested span the final state lies.
	// The stepping loop never clamps its last step, so this is in
	// [0, h) whenever the span is positive.
	Overshoot float64
}

// Propagator wraps a fixed-step integrator and records the trajectory it
// produces. The integrator stays synchronous; cancellation and state
// validation live here, between steps.
type Propagator struct {
	integ         *integrators.FixedStep
	observers     []Observer
	ValidateState bool
}

func New(integ *integrators.FixedStep) *Propagator {
	return &Propagator{
		integ:         integ,
		observers:     make([]Observer, 0),
		ValidateState: true,
	}
}

func (p *Propagator) AddObserver(o Observer) { p.observers = append(p.observers, o) }

func (p *Propagator) Integrator() *integrators.FixedStep { return p.integ }

// Run propagates x0 over span and records every state along the way,
// including x0 itself at t=0. A span <= 0 yields a single-entry
// trajectory. The context is checked between steps; on cancellation the
// partial result is returned together with the context's error.
func (p *Propagator) Run(ctx context.Context, span float64, x0 ode.State) (*Result, error) {
	if err := CheckDimension(p.integ.Derivative(), x0); err != nil {
		return nil, err
	}
	if p.ValidateState && !x0.IsValid() {
		return nil, &ode.PropagationError{Step: 0, Time: 0, Wrapped: ode.ErrInvalidState}
	}

	steps := p.integ.StepCount(span)
	result := &Result{
		States: make([]ode.State, 0, steps+1),
		Times:  make([]float64, 0, steps+1),
	}

	var runErr error
	final, err := p.integ.IntegrateObserved(span, x0, func(x ode.State, t float64) bool {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			return false
		default:
		}

		if p.ValidateState && !x.IsValid() {
			runErr = &ode.PropagationError{Step: result.StepsTaken, Time: t, Wrapped: ode.ErrInvalidState}
			return false
		}

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
		result.StepsTaken++

		for _, o := range p.observers {
			o.OnStep(x, t)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		return result, runErr
	}

	// The callback sees states before each step; append the state after
	// the final one.
	h := p.integ.StepSize()
	endTime := float64(result.StepsTaken) * h
	result.States = append(result.States, final.Clone())
	result.Times = append(result.Times, endTime)
	result.Final = final
	if span > 0 {
		result.Overshoot = endTime - span
	}

	for _, o := range p.observers {
		o.OnStep(final, endTime)
	}

	if p.ValidateState && !final.IsValid() {
		return result, &ode.PropagationError{Step: result.StepsTaken, Time: endTime, Wrapped: ode.ErrInvalidState}
	}

	return result, nil
}
