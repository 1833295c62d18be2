package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errStepFailed = errors.New("step failed")

// mockStep is a test step that records its execution.
type mockStep struct {
	name     string
	err      error
	executed bool
	modify   func(*Job)
}

func (s *mockStep) Do(_ context.Context, job *Job) error {
	s.executed = true
	if s.modify != nil {
		s.modify(job)
	}
	return s.err
}

func (s *mockStep) Name() string {
	return s.name
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default logger", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p == nil {
			t.Fatal("New() returned nil")
		}
		if p.logger == nil {
			t.Error("logger should not be nil")
		}
		if p.StepCount() != 0 {
			t.Errorf("StepCount() = %d, want 0", p.StepCount())
		}
	})

	t.Run("applies continue on error option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("continueOnError should be true")
		}
	})
}

func TestPipelineAddSteps(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, p.StepNames()); diff != "" {
		t.Errorf("StepNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"load", "validate", "generate"} {
			p.AddStep(&mockStep{
				name:   name,
				modify: func(*Job) { order = append(order, name) },
			})
		}

		job := NewJob("model.yaml")
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"load", "validate", "generate"}, order); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(order, job.PerformedSteps); diff != "" {
			t.Errorf("PerformedSteps mismatch (-want +got):\n%s", diff)
		}
		if job.Failed() {
			t.Errorf("job should not fail, got %v", job.Err)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "validate", err: errStepFailed}
		after := &mockStep{name: "generate"}
		p := New()
		p.AddSteps(&mockStep{name: "load"}, failing, after)

		job := NewJob("model.yaml")
		err := p.Execute(context.Background(), job)
		if !errors.Is(err, errStepFailed) {
			t.Fatalf("Execute() error = %v, want %v", err, errStepFailed)
		}
		if after.executed {
			t.Error("step after the failure should not run")
		}
		if !errors.Is(job.Err, errStepFailed) {
			t.Errorf("job.Err = %v, want %v", job.Err, errStepFailed)
		}
		if diff := cmp.Diff([]string{"load"}, job.PerformedSteps); diff != "" {
			t.Errorf("PerformedSteps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := errors.New("second failure")
		after := &mockStep{name: "save", err: second}
		p := New(WithContinueOnError(true))
		p.AddSteps(&mockStep{name: "generate", err: errStepFailed}, after)

		job := NewJob("model.yaml")
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !after.executed {
			t.Error("step after the failure should run")
		}
		if !errors.Is(job.Err, errStepFailed) {
			t.Errorf("job.Err = %v, want the first failure", job.Err)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "load"}
		p := New()
		p.AddStep(step)

		job := NewJob("model.yaml")
		err := p.Execute(ctx, job)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want %v", err, context.Canceled)
		}
		if step.executed {
			t.Error("step should not run after cancellation")
		}
		if !errors.Is(job.Err, context.Canceled) {
			t.Errorf("job.Err = %v, want %v", job.Err, context.Canceled)
		}
	})
}
