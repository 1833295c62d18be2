package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sourceStep fails for sources with a "bad" prefix and records the rest.
type sourceStep struct {
	mu     sync.Mutex
	seen   []string
	active atomic.Int32
	peak   atomic.Int32
	wait   chan struct{}
}

func (s *sourceStep) Do(_ context.Context, job *Job) error {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.wait != nil {
		<-s.wait
	}

	if strings.HasPrefix(job.Source, "bad") {
		return errStepFailed
	}
	s.mu.Lock()
	s.seen = append(s.seen, job.Source)
	s.mu.Unlock()
	job.RunID = "run-" + job.Source
	return nil
}

func (s *sourceStep) Name() string {
	return "source"
}

func newSourcePipeline(step Step) func() *Pipeline {
	return func() *Pipeline {
		p := New()
		p.AddStep(step)
		return p
	}
}

func TestNewBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("default concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(newSourcePipeline(&sourceStep{}))
		if bp.concurrency != 4 {
			t.Errorf("concurrency = %d, want 4", bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("non-positive concurrency keeps default", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(newSourcePipeline(&sourceStep{}), WithConcurrency(0))
		if bp.concurrency != 4 {
			t.Errorf("concurrency = %d, want 4", bp.concurrency)
		}
	})
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	t.Run("returns jobs in input order", func(t *testing.T) {
		t.Parallel()

		step := &sourceStep{}
		bp := NewBatchProcessor(newSourcePipeline(step), WithConcurrency(2))

		sources := []string{"a.yaml", "bad.yaml", "c.yaml"}
		jobs, err := bp.ProcessBatchWithCallback(context.Background(), sources, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != len(sources) {
			t.Fatalf("got %d jobs, want %d", len(jobs), len(sources))
		}
		for i, job := range jobs {
			if job.Source != sources[i] {
				t.Errorf("jobs[%d].Source = %q, want %q", i, job.Source, sources[i])
			}
		}
		if !errors.Is(jobs[1].Err, errStepFailed) {
			t.Errorf("jobs[1].Err = %v, want %v", jobs[1].Err, errStepFailed)
		}
		if jobs[0].Failed() || jobs[2].Failed() {
			t.Error("a failing document should not fail the others")
		}
		if jobs[2].RunID != "run-c.yaml" {
			t.Errorf("jobs[2].RunID = %q, want %q", jobs[2].RunID, "run-c.yaml")
		}
	})

	t.Run("limits concurrency", func(t *testing.T) {
		t.Parallel()

		step := &sourceStep{wait: make(chan struct{})}
		bp := NewBatchProcessor(newSourcePipeline(step), WithConcurrency(2))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = bp.ProcessBatchWithCallback(context.Background(), []string{"a", "b", "c", "d", "e"}, nil) //nolint:errcheck // checked through step
		}()
		for range 5 {
			step.wait <- struct{}{}
		}
		<-done

		if peak := step.peak.Load(); peak > 2 {
			t.Errorf("peak concurrency = %d, want at most 2", peak)
		}
		if len(step.seen) != 5 {
			t.Errorf("rendered %d documents, want 5", len(step.seen))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &sourceStep{}
		bp := NewBatchProcessor(newSourcePipeline(step))

		jobs, err := bp.ProcessBatchWithCallback(ctx, []string{"a", "b"}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ProcessBatchWithCallback() error = %v, want %v", err, context.Canceled)
		}
		for _, job := range jobs {
			if !job.Failed() {
				t.Errorf("job %s should carry the cancellation", job.Source)
			}
		}
	})
}

func TestProcessBatchProgress(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(newSourcePipeline(&sourceStep{}))

	var mu sync.Mutex
	got := make(map[int]string)
	jobs, err := bp.ProcessBatchWithCallback(context.Background(), []string{"a", "bad", "c"},
		func(job *Job, index int) {
			mu.Lock()
			defer mu.Unlock()
			status := "ok"
			if job.Failed() {
				status = "failed"
			}
			got[index] = job.Source + ":" + status
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[int]string{0: "a:ok", 1: "bad:failed", 2: "c:ok"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("callback results mismatch (-want +got):\n%s", diff)
	}
	if len(jobs) != 3 || jobs[1].Source != "bad" {
		t.Errorf("unexpected jobs %v", jobs)
	}
}
