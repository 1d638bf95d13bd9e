package integrators

import (
	"fmt"

	"github.com/statelab/odeprop/internal/ode"
)

// Method selects the fixed-step scheme used by an integrator instance.
// Selection is fixed for the lifetime of the instance.
type Method int

const (
	Euler Method = iota
	RungeKutta
)

func (m Method) String() string {
	switch m {
	case Euler:
		return "euler"
	case RungeKutta:
		return "rk4"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Order returns the global order of accuracy of the method.
func (m Method) Order() int {
	switch m {
	case RungeKutta:
		return 4
	default:
		return 1
	}
}

func ParseMethod(name string) (Method, error) {
	switch name {
	case "euler":
		return Euler, nil
	case "rk4", "rungekutta", "runge-kutta":
		return RungeKutta, nil
	default:
		return 0, fmt.Errorf("%w: %q", ode.ErrUnknownMethod, name)
	}
}

// Methods lists the supported scheme names in registration order.
func Methods() []string {
	return []string{"euler", "rk4"}
}
