package viz

import (
	"testing"
	"time"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	f := ode.DerivativeFunc(func(x ode.State) ode.State {
		return x.Scale(-1.0)
	})
	integ, err := integrators.New(f, 0.1, integrators.Euler)
	if err != nil {
		t.Fatalf("new integrator failed: %v", err)
	}
	return NewModel(integ, "decay", ode.State{1.0}, 30)
}

func TestModelStepAdvancesTime(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(TickMsg(time.Now()))
	m = updated.(Model)

	if m.t != 0.1 {
		t.Errorf("expected t=0.1 after one tick, got %f", m.t)
	}
	if len(m.history[0]) != 1 {
		t.Errorf("expected 1 history sample, got %d", len(m.history[0]))
	}
	if m.state[0] >= 1.0 {
		t.Errorf("decay state should shrink, got %f", m.state[0])
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 5; i++ {
		updated, _ := m.Update(TickMsg(time.Now()))
		m = updated.(Model)
	}

	m.reset()

	if m.t != 0 {
		t.Errorf("expected t=0 after reset, got %f", m.t)
	}
	if m.state[0] != 1.0 {
		t.Errorf("expected initial state restored, got %f", m.state[0])
	}
	if len(m.history[0]) != 0 {
		t.Errorf("expected history cleared, got %d samples", len(m.history[0]))
	}
}

func TestModelViewRenders(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 3; i++ {
		updated, _ := m.Update(TickMsg(time.Now()))
		m = updated.(Model)
	}

	view := m.View()
	if view == "" {
		t.Error("expected non-empty view")
	}
}
