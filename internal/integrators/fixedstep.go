package integrators

import (
	"fmt"
	"math"

	"github.com/statelab/odeprop/internal/ode"
)

// FixedStep advances a state by repeatedly applying a fixed-size step of
// the selected scheme until the requested span is consumed. The step size
// and derivative are set at construction and never change afterwards.
//
// The final step does not clamp to the nominal end time: when the span is
// not an exact multiple of the step size, the returned state corresponds
// to up to one step past the requested span. Callers that need exact
// landing must choose a step size that divides the span.
type FixedStep struct {
	h      float64
	method Method
	f      ode.Derivative
}

// New builds a fixed-step integrator. The step size must be positive and
// finite; a non-positive step would never consume the span and loop
// forever, so it is rejected here rather than at call time.
func New(f ode.Derivative, h float64, method Method) (*FixedStep, error) {
	if f == nil {
		return nil, fmt.Errorf("integrators: nil derivative")
	}
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: got %v", ode.ErrNonPositiveStep, h)
	}
	switch method {
	case Euler, RungeKutta:
	default:
		return nil, fmt.Errorf("%w: %v", ode.ErrUnknownMethod, method)
	}
	return &FixedStep{h: h, method: method, f: f}, nil
}

func (fs *FixedStep) StepSize() float64          { return fs.h }
func (fs *FixedStep) Method() Method             { return fs.method }
func (fs *FixedStep) Derivative() ode.Derivative { return fs.f }

// StepCount reports how many steps Integrate will take for the given
// span: ceil(span/h) in exact arithmetic, 0 for span <= 0. It mirrors
// the stepping loop rather than computing the ceiling directly, because
// repeated subtraction can take one extra step when span is not a
// representable multiple of h.
func (fs *FixedStep) StepCount(span float64) int {
	n := 0
	for t := span; t > 0; t -= fs.h {
		n++
	}
	return n
}

// Integrate advances x0 by span and returns the resulting state. A span
// <= 0 returns a clone of x0 unchanged; this is defined behavior, not an
// error. Each call is independent and safe to issue concurrently on a
// shared instance as long as the derivative tolerates concurrent Eval.
func (fs *FixedStep) Integrate(span float64, x0 ode.State) (ode.State, error) {
	return fs.IntegrateObserved(span, x0, nil)
}

// IntegrateObserved is Integrate with a per-step callback. The callback
// receives the working state and the elapsed time before each step and
// may return false to stop early; the state passed to it aliases the
// working buffer and must be cloned if retained.
func (fs *FixedStep) IntegrateObserved(span float64, x0 ode.State, fn func(x ode.State, t float64) bool) (ode.State, error) {
	if len(x0) == 0 {
		return nil, ode.ErrEmptyState
	}

	x := x0.Clone()
	if span <= 0 {
		return x, nil
	}

	// Working buffers are per call, not per instance, so concurrent
	// Integrate calls on one FixedStep never share state.
	var step func(x ode.State) error
	switch fs.method {
	case Euler:
		step = fs.eulerStep
	case RungeKutta:
		step = newRK4Stepper(fs.f, fs.h, len(x)).step
	default:
		// New rejects unknown methods; re-check so a zero-value or
		// corrupted instance fails loudly instead of returning the
		// input untouched.
		return nil, fmt.Errorf("%w: %v", ode.ErrUnknownMethod, fs.method)
	}

	elapsed := 0.0
	for remaining := span; remaining > 0; remaining -= fs.h {
		if fn != nil && !fn(x, elapsed) {
			return x, nil
		}
		if err := step(x); err != nil {
			return nil, err
		}
		elapsed += fs.h
	}

	return x, nil
}

func (fs *FixedStep) eulerStep(x ode.State) error {
	dx := fs.f.Eval(x)
	if len(dx) != len(x) {
		return derivativeDimError(len(dx), len(x))
	}
	x.AddScaled(fs.h, dx)
	return nil
}

func derivativeDimError(got, want int) error {
	return fmt.Errorf("%w: derivative returned %d components for %d-dim state", ode.ErrDimensionMismatch, got, want)
}

// rk4Stepper holds the stage buffers for one Integrate call. The
// derivative may return a shared slice, so each stage is copied into an
// owned buffer before the next evaluation. Every stage result is length
// checked: a bare copy would truncate a short result and leave stale
// buffer entries feeding the trajectory.
type rk4Stepper struct {
	f              ode.Derivative
	h              float64
	k1, k2, k3, k4 ode.State
	scratch        ode.State
}

func newRK4Stepper(f ode.Derivative, h float64, n int) *rk4Stepper {
	return &rk4Stepper{
		f:       f,
		h:       h,
		k1:      make(ode.State, n),
		k2:      make(ode.State, n),
		k3:      make(ode.State, n),
		k4:      make(ode.State, n),
		scratch: make(ode.State, n),
	}
}

func (r *rk4Stepper) step(x ode.State) error {
	n := len(x)
	h2 := r.h * 0.5

	if err := r.stage(r.k1, x); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h2*r.k1[i]
	}
	if err := r.stage(r.k2, r.scratch); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h2*r.k2[i]
	}
	if err := r.stage(r.k3, r.scratch); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.h*r.k3[i]
	}
	if err := r.stage(r.k4, r.scratch); err != nil {
		return err
	}

	h6 := r.h / 6.0
	for i := 0; i < n; i++ {
		x[i] += h6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
	return nil
}

// stage evaluates the derivative at x and copies the result into dst
// after verifying its length.
func (r *rk4Stepper) stage(dst, x ode.State) error {
	k := r.f.Eval(x)
	if len(k) != len(dst) {
		return derivativeDimError(len(k), len(dst))
	}
	copy(dst, k)
	return nil
}
