package integrators

import (
	"testing"

	"github.com/statelab/odeprop/internal/ode"
)

func benchOscillator(x ode.State) ode.State {
	return ode.State{x[1], -x[0]}
}

func BenchmarkEulerStep(b *testing.B) {
	fs, _ := New(ode.DerivativeFunc(benchOscillator), 0.01, Euler)
	x0 := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fs.Integrate(0.01, x0)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	fs, _ := New(ode.DerivativeFunc(benchOscillator), 0.01, RungeKutta)
	x0 := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fs.Integrate(0.01, x0)
	}
}

func BenchmarkRK4Span(b *testing.B) {
	fs, _ := New(ode.DerivativeFunc(benchOscillator), 0.01, RungeKutta)
	x0 := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fs.Integrate(1.0, x0)
	}
}

func benchChain(x ode.State) ode.State {
	n := len(x)
	dx := make(ode.State, n)
	for i := 0; i < n/2; i++ {
		dx[i*2] = x[i*2+1]
		dx[i*2+1] = -x[i*2] * 0.1
	}
	return dx
}

func BenchmarkRK4Vector20(b *testing.B) {
	fs, _ := New(ode.DerivativeFunc(benchChain), 0.001, RungeKutta)
	x0 := make(ode.State, 20)
	for i := range x0 {
		x0[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fs.Integrate(0.001, x0)
	}
}
