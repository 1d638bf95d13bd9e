package integrators

import (
	"errors"
	"testing"

	"github.com/statelab/odeprop/internal/ode"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name     string
		expected Method
	}{
		{"euler", Euler},
		{"rk4", RungeKutta},
		{"rungekutta", RungeKutta},
		{"runge-kutta", RungeKutta},
	}

	for _, tt := range tests {
		m, err := ParseMethod(tt.name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if m != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, m)
		}
	}
}

func TestParseMethodUnknown(t *testing.T) {
	_, err := ParseMethod("adams")
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !errors.Is(err, ode.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestMethodString(t *testing.T) {
	if Euler.String() != "euler" {
		t.Errorf("unexpected name: %s", Euler)
	}
	if RungeKutta.String() != "rk4" {
		t.Errorf("unexpected name: %s", RungeKutta)
	}
}

func TestMethodOrder(t *testing.T) {
	if Euler.Order() != 1 {
		t.Errorf("expected order 1, got %d", Euler.Order())
	}
	if RungeKutta.Order() != 4 {
		t.Errorf("expected order 4, got %d", RungeKutta.Order())
	}
}
