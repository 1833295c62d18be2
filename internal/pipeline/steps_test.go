package pipeline

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/log"
	"github.com/nao1215/regreport/internal/model"
	"github.com/nao1215/regreport/internal/report"
)

// memoryStore is an in-memory ResultStore.
type memoryStore struct {
	runs    []database.ReportMetadata
	saveErr error
}

func (s *memoryStore) SaveResult(_ context.Context, source string, res *model.Result) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	id := "run-" + string(rune('a'+len(s.runs)))
	s.runs = append(s.runs, database.ReportMetadata{
		ID:     id,
		Source: source,
		Digest: report.Digest(res.Summary),
	})
	return id, nil
}

func (s *memoryStore) FindByDigest(_ context.Context, digest string) ([]database.ReportMetadata, error) {
	var found []database.ReportMetadata
	for _, run := range s.runs {
		if run.Digest == digest {
			found = append(found, run)
		}
	}
	return found, nil
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func readGolden(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", name, err)
	}
	return string(data)
}

func TestLoadStep(t *testing.T) {
	t.Parallel()

	t.Run("decodes the document", func(t *testing.T) {
		t.Parallel()

		job := NewJob(filepath.Join("testdata", "ols.yaml"))
		if err := NewLoadStep(nil).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Model == nil {
			t.Fatal("Model should be set")
		}
		if job.Model.Family != model.FamilyOLS {
			t.Errorf("Family = %v, want %v", job.Model.Family, model.FamilyOLS)
		}
	})

	t.Run("derives regime parameter names", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, `title: REGIMES
family: ols
regimes:
  variable: NSA
  nr: 2
  set: ["0", "1"]
  name_x_r: [CONSTANT, INC]
  constant_regi: many
parameters:
  - coefficient: 1.0
  - coefficient: 2.0
  - coefficient: 3.0
  - coefficient: 4.0
`)
		job := NewJob(path)
		if err := NewLoadStep(nil).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []string
		for _, p := range job.Model.Parameters {
			got = append(got, p.Name)
		}
		want := []string{"0_CONSTANT", "0_INC", "1_CONSTANT", "1_INC"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parameter names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		job := NewJob(filepath.Join(t.TempDir(), "missing.yaml"))
		if err := NewLoadStep(nil).Do(context.Background(), job); err == nil {
			t.Error("expected error for a missing document")
		}
		if job.Model != nil {
			t.Error("Model should stay nil")
		}
	})
}

func TestValidateStep(t *testing.T) {
	t.Parallel()

	t.Run("no model loaded", func(t *testing.T) {
		t.Parallel()

		err := NewValidateStep().Do(context.Background(), NewJob("model.yaml"))
		if !errors.Is(err, ErrNoModel) {
			t.Errorf("Do() error = %v, want %v", err, ErrNoModel)
		}
	})

	t.Run("rejects a model without parameters", func(t *testing.T) {
		t.Parallel()

		job := NewJob("model.yaml")
		job.Model = &model.FittedModel{Equation: model.Equation{Family: model.FamilyOLS}}
		err := NewValidateStep().Do(context.Background(), job)
		if !errors.Is(err, model.ErrNoParameters) {
			t.Errorf("Do() error = %v, want %v", err, model.ErrNoParameters)
		}
	})
}

func TestGenerateStep(t *testing.T) {
	t.Parallel()

	err := NewGenerateStep(report.NewGenerator()).Do(context.Background(), NewJob("model.yaml"))
	if !errors.Is(err, ErrNoModel) {
		t.Errorf("Do() error = %v, want %v", err, ErrNoModel)
	}
}

func TestSaveStep(t *testing.T) {
	t.Parallel()

	t.Run("no result", func(t *testing.T) {
		t.Parallel()

		err := NewSaveStep(&memoryStore{}, nil).Do(context.Background(), NewJob("model.yaml"))
		if !errors.Is(err, ErrNoResult) {
			t.Errorf("Do() error = %v, want %v", err, ErrNoResult)
		}
	})

	t.Run("records earlier identical runs", func(t *testing.T) {
		t.Parallel()

		store := &memoryStore{}
		step := NewSaveStep(store, nil)

		first := NewJob("a.yaml")
		first.Result = &model.Result{Summary: "REGRESSION RESULTS\n"}
		if err := step.Do(context.Background(), first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.RunID != "run-a" || len(first.Duplicates) != 0 {
			t.Errorf("first run = %q with duplicates %v", first.RunID, first.Duplicates)
		}

		second := NewJob("b.yaml")
		second.Result = &model.Result{Summary: "REGRESSION RESULTS\n"}
		if err := step.Do(context.Background(), second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.RunID != "run-b" {
			t.Errorf("RunID = %q, want %q", second.RunID, "run-b")
		}
		if diff := cmp.Diff([]string{"run-a"}, second.Duplicates); diff != "" {
			t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("logs the stored report compacted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		job := NewJob("a.yaml")
		job.Result = &model.Result{Summary: strings.Repeat("=", 1000)}
		if err := NewSaveStep(&memoryStore{}, log.NewLogger(&buf, true)).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "...(1000 bytes)") {
			t.Errorf("expected truncated summary in log output:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), strings.Repeat("=", log.MaxStringLen+1)) {
			t.Error("expected the full summary to stay out of the log")
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		job := NewJob("a.yaml")
		job.Result = &model.Result{Summary: "x"}
		err := NewSaveStep(&memoryStore{saveErr: errStepFailed}, nil).Do(context.Background(), job)
		if !errors.Is(err, errStepFailed) {
			t.Errorf("Do() error = %v, want %v", err, errStepFailed)
		}
		if job.RunID != "" {
			t.Errorf("RunID = %q, want empty", job.RunID)
		}
	})
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("step names", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(nil, nil)
		if diff := cmp.Diff([]string{"load", "validate", "generate"}, p.StepNames()); diff != "" {
			t.Errorf("StepNames() mismatch (-want +got):\n%s", diff)
		}

		p = DefaultPipeline(nil, nil, WithPipelineStore(&memoryStore{}))
		if diff := cmp.Diff([]string{"load", "validate", "generate", "save"}, p.StepNames()); diff != "" {
			t.Errorf("StepNames() with store mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("renders and stores a document", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		newPipeline := func() *Pipeline {
			return DefaultPipeline(nil, nil,
				WithPipelineVarianceMatrix(true),
				WithPipelineRobust(model.RobustWhite),
				WithPipelineStore(db),
			)
		}
		source := filepath.Join("testdata", "ols.yaml")

		first := NewJob(source)
		if err := newPipeline().Execute(context.Background(), first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(readGolden(t, "ols.golden"), first.Result.Summary); diff != "" {
			t.Errorf("report mismatch (-want +got):\n%s", diff)
		}
		if first.RunID == "" {
			t.Fatal("RunID should be set")
		}

		second := NewJob(source)
		if err := newPipeline().Execute(context.Background(), second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{first.RunID}, second.Duplicates); diff != "" {
			t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
		}

		rec, err := db.GetReport(context.Background(), second.RunID)
		if err != nil {
			t.Fatalf("GetReport() error: %v", err)
		}
		if rec == nil || rec.Result.Summary != second.Result.Summary {
			t.Error("stored report should match the rendered one")
		}
	})

	t.Run("stores a document with a nan probability", func(t *testing.T) {
		t.Parallel()

		data, err := os.ReadFile(filepath.Join("testdata", "ols.yaml"))
		if err != nil {
			t.Fatalf("failed to read fixture: %v", err)
		}
		source := writeDocument(t, strings.Replace(string(data), "p_value: 0.010837", "p_value: .nan", 1))

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		job := NewJob(source)
		if err := DefaultPipeline(nil, nil, WithPipelineStore(db)).Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(job.Result.Summary, "nan") {
			t.Error("expected nan in the report text")
		}

		rec, err := db.GetReport(context.Background(), job.RunID)
		if err != nil {
			t.Fatalf("GetReport() error: %v", err)
		}
		hoval := rec.Result.Output[2]
		if hoval.Name != "HOVAL" || hoval.PValue == nil || !math.IsNaN(*hoval.PValue) {
			t.Errorf("expected stored HOVAL row with nan probability, got %+v", hoval)
		}
	})
}
