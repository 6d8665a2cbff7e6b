// Package sim drives a cvode solver over a uniform output grid and records
// the trajectory.
//
// The runner owns no native resources; it steps any [Stepper] (both
// [cvode.Solver] and user fakes satisfy it), checks for context cancellation
// between native calls, and hands each output point to registered observers:
//
//	runner := sim.NewRunner(solver)
//	runner.AddObserver(obs)
//	result, err := runner.Run(ctx, cfg)
//
// Cancellation is only observed between steps; a native call in progress
// always runs to completion.
package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/cvode"
)

// Stepper advances an integration toward a target time. *cvode.Solver[U]
// satisfies it for any U.
type Stepper interface {
	Step(tOut float64, kind cvode.StepKind) (float64, []float64, error)
}

// Observer is notified at every recorded output point. The state slice is
// only valid during the call.
type Observer interface {
	OnStep(t float64, y []float64)
}

// Result accumulates a recorded trajectory.
type Result struct {
	Times  []float64
	States [][]float64
}

// Runner repeatedly steps a solver to the next output time.
type Runner struct {
	stepper   Stepper
	observers []Observer
	log       zerolog.Logger
}

func NewRunner(st Stepper) *Runner {
	return &Runner{stepper: st, log: zerolog.Nop()}
}

// SetLogger routes the runner's per-step debug output to l.
func (r *Runner) SetLogger(l zerolog.Logger) { r.log = l }

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the solver from cfg.T0 to cfg.TEnd in cfg.Interval output
// increments, recording the state at every reached time. The last output
// point is always cfg.TEnd: a span that is not an exact multiple of the
// interval ends with one shorter step. The initial state is not recorded;
// the solver already holds it. On cancellation the partial result is
// returned along with the context's error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := int((cfg.TEnd-cfg.T0)/cfg.Interval) + 1
	result := &Result{
		Times:  make([]float64, 0, steps),
		States: make([][]float64, 0, steps),
	}

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		target := cfg.T0 + float64(i)*cfg.Interval
		// Clamp the final point onto t_end; the tolerance absorbs the
		// accumulated rounding of repeated interval addition.
		if target >= cfg.TEnd-1e-9*cfg.Interval {
			target = cfg.TEnd
		}

		t, y, err := r.stepper.Step(target, cvode.StepNormal)
		if err != nil {
			return result, fmt.Errorf("step to t=%g: %w", target, err)
		}

		state := make([]float64, len(y))
		copy(state, y)
		result.Times = append(result.Times, t)
		result.States = append(result.States, state)

		for _, obs := range r.observers {
			obs.OnStep(t, state)
		}
		r.log.Debug().Float64("t", t).Int("step", i).Msg("output point")

		if target == cfg.TEnd {
			return result, nil
		}
	}
}
