package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
)

// Model is a derivative source with a known closed-form solution, the
// reference against which integration error is measured.
type Model interface {
	ode.Derivative
	Analytic(x0 ode.State, t float64) ode.State
}

type ConvergencePoint struct {
	H     float64
	Error float64
}

// Convergence is the measured error-vs-step-size curve of one method,
// with the observed order of accuracy fitted from it.
type Convergence struct {
	Method integrators.Method
	Points []ConvergencePoint
	// Order is the slope of log(error) against log(h): ~1 for Euler,
	// ~4 for classic Runge-Kutta.
	Order float64
}

// MeasureConvergence integrates the model from x0 once per step size and
// records the final-state error. The error is taken against the closed
// form at the time actually reached (steps*h), so final-step overshoot
// does not masquerade as truncation error.
func MeasureConvergence(m Model, method integrators.Method, x0 ode.State, span float64, steps []float64) (*Convergence, error) {
	if len(steps) < 2 {
		return nil, fmt.Errorf("analysis: need at least 2 step sizes, got %d", len(steps))
	}

	c := &Convergence{
		Method: method,
		Points: make([]ConvergencePoint, 0, len(steps)),
	}

	logH := make([]float64, 0, len(steps))
	logErr := make([]float64, 0, len(steps))

	for _, h := range steps {
		fs, err := integrators.New(m, h, method)
		if err != nil {
			return nil, err
		}

		x, err := fs.Integrate(span, x0)
		if err != nil {
			return nil, err
		}

		endTime := float64(fs.StepCount(span)) * h
		exact := m.Analytic(x0, endTime)
		dist := floats.Distance(x, exact, 2)

		c.Points = append(c.Points, ConvergencePoint{H: h, Error: dist})

		if dist > 0 {
			logH = append(logH, math.Log(h))
			logErr = append(logErr, math.Log(dist))
		}
	}

	if len(logH) >= 2 {
		_, slope := stat.LinearRegression(logH, logErr, nil, false)
		c.Order = slope
	}

	return c, nil
}

// FinalError integrates once and reports the error of the final state
// against the closed form at the time reached.
func FinalError(m Model, method integrators.Method, x0 ode.State, span, h float64) (float64, error) {
	fs, err := integrators.New(m, h, method)
	if err != nil {
		return 0, err
	}

	x, err := fs.Integrate(span, x0)
	if err != nil {
		return 0, err
	}

	endTime := float64(fs.StepCount(span)) * h
	exact := m.Analytic(x0, endTime)
	return floats.Distance(x, exact, 2), nil
}
