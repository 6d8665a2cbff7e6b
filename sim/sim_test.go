package sim

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/cvode"
)

// decayStepper reports the analytic solution of y' = -y, y(0) = 1. It stands
// in for a native solver so the runner can be exercised hermetically.
type decayStepper struct {
	y     []float64
	calls int
}

func (d *decayStepper) Step(tOut float64, _ cvode.StepKind) (float64, []float64, error) {
	d.calls++
	d.y[0] = math.Exp(-tOut)
	return tOut, d.y, nil
}

type failingStepper struct{}

func (failingStepper) Step(tOut float64, _ cvode.StepKind) (float64, []float64, error) {
	return 0, nil, errors.New("boom")
}

type countingObserver struct {
	points int
	lastT  float64
}

func (o *countingObserver) OnStep(t float64, _ []float64) {
	o.points++
	o.lastT = t
}

func TestRunnerRun(t *testing.T) {
	st := &decayStepper{y: []float64{1}}
	runner := NewRunner(st)
	obs := &countingObserver{}
	runner.AddObserver(obs)

	cfg := *DefaultConfig()
	cfg.TEnd = 1.0
	cfg.Interval = 0.1

	result, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 10 {
		t.Fatalf("expected 10 output points, got %d", len(result.Times))
	}
	if st.calls != 10 {
		t.Errorf("expected 10 steps, got %d", st.calls)
	}
	if obs.points != 10 {
		t.Errorf("observer saw %d points, want 10", obs.points)
	}
	if math.Abs(obs.lastT-1.0) > 1e-12 {
		t.Errorf("last output time %g, want 1.0", obs.lastT)
	}

	// Recorded states must be copies, not aliases of the solver's buffer.
	if &result.States[0][0] == &st.y[0] {
		t.Error("recorded state aliases the stepper's buffer")
	}
	for i, y := range result.States {
		want := math.Exp(-result.Times[i])
		if math.Abs(y[0]-want) > 1e-12 {
			t.Errorf("state at t=%g: got %g, want %g", result.Times[i], y[0], want)
		}
	}
}

func TestRunnerReachesTEndOnUnevenGrid(t *testing.T) {
	st := &decayStepper{y: []float64{1}}
	runner := NewRunner(st)

	// 1.0 is not a multiple of 0.3; the run must still end exactly at t_end.
	cfg := *DefaultConfig()
	cfg.TEnd = 1.0
	cfg.Interval = 0.3

	result, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 4 {
		t.Fatalf("expected 4 output points, got %d (%v)", len(result.Times), result.Times)
	}
	if last := result.Times[len(result.Times)-1]; last != 1.0 {
		t.Errorf("last output time %g, want exactly 1.0", last)
	}
	for i := 1; i < len(result.Times); i++ {
		if result.Times[i] <= result.Times[i-1] {
			t.Errorf("output times not increasing: %v", result.Times)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&decayStepper{y: []float64{1}})
	cfg := *DefaultConfig()

	result, err := runner.Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Times) != 0 {
		t.Errorf("expected no output points before the first step, got %d", len(result.Times))
	}
}

func TestRunnerStepErrorPropagates(t *testing.T) {
	runner := NewRunner(failingStepper{})
	cfg := *DefaultConfig()

	_, err := runner.Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected step error")
	}
	if !strings.Contains(err.Error(), "step to") {
		t.Errorf("error %q should name the failing step", err)
	}
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	runner := NewRunner(&decayStepper{y: []float64{1}})

	cfg := *DefaultConfig()
	cfg.Interval = 0

	if _, err := runner.Run(context.Background(), cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
