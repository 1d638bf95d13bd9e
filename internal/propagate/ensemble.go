package propagate

import (
	"context"
	"sync"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
)

// Ensemble propagates many independent initial states over the same span,
// one goroutine per state. The integrator keeps its working buffers per
// call, so a single instance is shared across the runs. Each state is
// still advanced by the scalar stepping loop; this is fan-out over calls,
// not batched integration.
type Ensemble struct {
	integ *integrators.FixedStep
}

func NewEnsemble(integ *integrators.FixedStep) *Ensemble {
	return &Ensemble{integ: integ}
}

func (e *Ensemble) Run(ctx context.Context, span float64, starts []ode.State) ([]*Result, error) {
	results := make([]*Result, len(starts))
	errs := make([]error, len(starts))

	var wg sync.WaitGroup
	for i := range starts {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p := New(e.integ)
			results[idx], errs[idx] = p.Run(ctx, span, starts[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
