package ode

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Add returns s+other. Both states must have the same length; mixing
// dimensions is a contract violation, so it panics rather than
// silently dropping components.
func (s State) Add(other State) State {
	assertSameLen(s, other)
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + other[i]
	}
	return result
}

// Sub returns s-other. Same-length contract as Add.
func (s State) Sub(other State) State {
	assertSameLen(s, other)
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// AddScaled accumulates factor*v into s in place. Same-length contract
// as Add.
func (s State) AddScaled(factor float64, v State) {
	assertSameLen(s, v)
	for i := range s {
		s[i] += factor * v[i]
	}
}

func assertSameLen(a, b State) {
	if len(a) != len(b) {
		panic(ErrDimensionMismatch)
	}
}

// Derivative is the caller-supplied right-hand side of dX/dt = f(X).
// Eval must return a state of the same length as its input and must be
// safe to call repeatedly; Runge-Kutta evaluates it at intermediate
// states that never appear in the returned trajectory.
type Derivative interface {
	Eval(x State) State
}

// DerivativeFunc adapts a plain function to the Derivative interface.
type DerivativeFunc func(x State) State

func (f DerivativeFunc) Eval(x State) State { return f(x) }
