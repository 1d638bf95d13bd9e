package propagate_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
	"github.com/statelab/odeprop/internal/propagate"
)

type countingObserver struct {
	calls int
	last  float64
}

func (c *countingObserver) OnStep(x ode.State, t float64) {
	c.calls++
	c.last = t
}

func newDecayIntegrator(h float64, m integrators.Method) *integrators.FixedStep {
	f := ode.DerivativeFunc(func(x ode.State) ode.State {
		return x.Scale(-1.0)
	})
	integ, err := integrators.New(f, h, m)
	Expect(err).NotTo(HaveOccurred())
	return integ
}

var _ = Describe("Propagator", func() {
	var prop *propagate.Propagator

	BeforeEach(func() {
		prop = propagate.New(newDecayIntegrator(0.25, integrators.RungeKutta))
	})

	It("records the initial state and one state per step", func() {
		result, err := prop.Run(context.Background(), 1.0, ode.State{1.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(4))
		Expect(result.States).To(HaveLen(5))
		Expect(result.Times).To(HaveLen(5))
		Expect(result.Times[0]).To(BeZero())
		Expect(result.States[0][0]).To(Equal(1.0))
		Expect(result.Final[0]).To(BeNumerically("~", math.Exp(-1.0), 1e-4))
	})

	It("reports the final-step overshoot instead of clamping it", func() {
		prop = propagate.New(newDecayIntegrator(0.3, integrators.Euler))

		result, err := prop.Run(context.Background(), 1.0, ode.State{1.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(4))
		Expect(result.Overshoot).To(BeNumerically("~", 0.2, 1e-9))
		Expect(result.Times[len(result.Times)-1]).To(BeNumerically("~", 1.2, 1e-9))
	})

	It("returns the initial state alone for non-positive spans", func() {
		result, err := prop.Run(context.Background(), -1.0, ode.State{3.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(BeZero())
		Expect(result.States).To(HaveLen(1))
		Expect(result.Final[0]).To(Equal(3.0))
		Expect(result.Overshoot).To(BeZero())
	})

	It("stops between steps when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := prop.Run(ctx, 1.0, ode.State{1.0})

		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("rejects an initial state with NaN entries", func() {
		_, err := prop.Run(context.Background(), 1.0, ode.State{math.NaN()})

		Expect(err).To(MatchError(ode.ErrInvalidState))
	})

	It("tracks norm growth through a NormTracker observer", func() {
		tracker := propagate.NewNormTracker()
		prop.AddObserver(tracker)

		_, err := prop.Run(context.Background(), 1.0, ode.State{2.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(tracker.Max).To(Equal(2.0))
		Expect(tracker.Final).To(BeNumerically("<", 1.0))
		Expect(tracker.Steps()).To(Equal(5))

		tracker.Reset()
		Expect(tracker.Max).To(BeZero())
		Expect(tracker.Steps()).To(BeZero())
	})

	It("notifies observers for every recorded state", func() {
		obs := &countingObserver{}
		prop.AddObserver(obs)

		result, err := prop.Run(context.Background(), 1.0, ode.State{1.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(obs.calls).To(Equal(len(result.States)))
		Expect(obs.last).To(BeNumerically("~", 1.0, 1e-9))
	})
})

var _ = Describe("Registry", func() {
	var reg *propagate.Registry

	BeforeEach(func() {
		reg = propagate.NewRegistry()
	})

	It("builds registered models with parameters applied", func() {
		f, err := reg.GetModel("decay", map[string]float64{"lambda": 2.0})

		Expect(err).NotTo(HaveOccurred())
		dx := f.Eval(ode.State{1.0})
		Expect(dx[0]).To(Equal(-2.0))
	})

	It("rejects unknown models", func() {
		_, err := reg.GetModel("lorenz", nil)

		Expect(err).To(MatchError(ContainSubstring("unknown model")))
	})

	It("rejects unknown methods loudly", func() {
		f, err := reg.GetModel("decay", nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = reg.GetIntegrator("adams", 0.1, f)
		Expect(err).To(MatchError(ode.ErrUnknownMethod))
	})

	It("lists models in stable order", func() {
		Expect(reg.ListModels()).To(Equal([]string{"decay", "drift", "logistic", "oscillator"}))
	})

	It("reports the state dimension a model requires", func() {
		f, err := reg.GetModel("oscillator", nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(propagate.CheckDimension(f, ode.State{1.0})).To(MatchError(ode.ErrDimensionMismatch))
		Expect(propagate.CheckDimension(f, ode.State{1.0, 0.0})).To(Succeed())
	})

	It("refuses to propagate a state of the wrong dimension", func() {
		f, err := reg.GetModel("oscillator", nil)
		Expect(err).NotTo(HaveOccurred())
		integ, err := reg.GetIntegrator("rk4", 0.01, f)
		Expect(err).NotTo(HaveOccurred())

		prop := propagate.New(integ)
		_, err = prop.Run(context.Background(), 1.0, ode.State{1.0})

		Expect(err).To(MatchError(ode.ErrDimensionMismatch))
	})
})

var _ = Describe("Ensemble", func() {
	It("propagates independent initial states concurrently", func() {
		integ := newDecayIntegrator(0.01, integrators.RungeKutta)
		ens := propagate.NewEnsemble(integ)

		starts := []ode.State{{1.0}, {2.0}, {4.0}}
		results, err := ens.Run(context.Background(), 1.0, starts)

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			expected := starts[i][0] * math.Exp(-1.0)
			Expect(r.Final[0]).To(BeNumerically("~", expected, 1e-6))
		}
	})

	It("propagates sigma-point style batches without cross-talk", func() {
		integ := newDecayIntegrator(0.25, integrators.Euler)
		ens := propagate.NewEnsemble(integ)

		starts := make([]ode.State, 16)
		for i := range starts {
			starts[i] = ode.State{float64(i), -float64(i)}
		}

		results, err := ens.Run(context.Background(), 0.5, starts)

		Expect(err).NotTo(HaveOccurred())
		for i, r := range results {
			// Euler on dx/dt=-x contracts by (1-h) per step.
			factor := math.Pow(0.75, 2)
			Expect(r.Final[0]).To(BeNumerically("~", float64(i)*factor, 1e-9))
			Expect(r.Final[1]).To(BeNumerically("~", -float64(i)*factor, 1e-9))
		}
	})
})
