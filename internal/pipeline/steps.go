package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/model"
	"github.com/nao1215/regreport/internal/regimes"
	"github.com/nao1215/regreport/internal/report"
)

// ErrNoModel is returned by steps that need a decoded model when none was
// loaded.
var ErrNoModel = errors.New("no fitted model loaded")

// ErrNoResult is returned by steps that need a composed report when none
// was generated.
var ErrNoResult = errors.New("no report generated")

// LoadStep decodes the fitted model document and derives the parameter
// names a regimes setup left out.
type LoadStep struct {
	logger *slog.Logger
}

// NewLoadStep creates a new load step.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, job *Job) error {
	m, err := model.DecodeFile(job.Source)
	if err != nil {
		return err
	}

	eqs := []*model.Equation{&m.Equation}
	if m.IsMultiEquation() {
		eqs = m.Equations
	}
	for _, eq := range eqs {
		if err := regimes.ApplyNames(eq); err != nil {
			return fmt.Errorf("%s: regime names: %w", job.Source, err)
		}
	}

	s.logger.Debug("fitted model loaded",
		"source", job.Source,
		"equations", len(eqs),
		"title", m.ReportTitle(),
	)
	job.Model = m
	return nil
}

// ValidateStep checks the fitted model contract before composition, so
// that a malformed document fails with its own step name.
type ValidateStep struct{}

// NewValidateStep creates a new validation step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, job *Job) error {
	if job.Model == nil {
		return ErrNoModel
	}
	if err := job.Model.Validate(); err != nil {
		return fmt.Errorf("%s: %w", job.Source, err)
	}
	return nil
}

// GenerateStep composes the report of the loaded model.
type GenerateStep struct {
	generator *report.Generator
}

// NewGenerateStep creates a new generation step using the given generator.
func NewGenerateStep(generator *report.Generator) *GenerateStep {
	return &GenerateStep{generator: generator}
}

// Name returns the step name.
func (s *GenerateStep) Name() string {
	return "generate"
}

// Do executes the generation step.
func (s *GenerateStep) Do(_ context.Context, job *Job) error {
	if job.Model == nil {
		return ErrNoModel
	}
	res, err := s.generator.Generate(job.Model)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Source, err)
	}
	job.Result = res
	return nil
}

// ResultStore keeps rendered results. *database.ReportDB implements it.
type ResultStore interface {
	SaveResult(ctx context.Context, source string, res *model.Result) (string, error)
	FindByDigest(ctx context.Context, digest string) ([]database.ReportMetadata, error)
}

// SaveStep stores the composed report in the history.
type SaveStep struct {
	store  ResultStore
	logger *slog.Logger
}

// NewSaveStep creates a new save step.
func NewSaveStep(store ResultStore, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do executes the save step. Earlier runs with an identical report text
// are recorded on the job before the new run is stored.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if job.Result == nil {
		return ErrNoResult
	}

	digest := report.Digest(job.Result.Summary)
	earlier, err := s.store.FindByDigest(ctx, digest)
	if err != nil {
		return err
	}
	for _, run := range earlier {
		job.Duplicates = append(job.Duplicates, run.ID)
	}
	if len(earlier) > 0 {
		s.logger.Debug("identical report already stored",
			"source", job.Source,
			"digest", digest,
			"runs", len(earlier),
		)
	}

	id, err := s.store.SaveResult(ctx, job.Source, job.Result)
	if err != nil {
		return err
	}
	job.RunID = id
	s.logger.Debug("report stored",
		"source", job.Source,
		"run_id", id,
		"summary", job.Result.Summary,
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// VarianceMatrix appends the coefficient variance matrix.
	VarianceMatrix bool

	// Robust is the robust variance estimator announced in the report.
	Robust model.RobustKind

	// ClosingText is appended at the end of every report.
	ClosingText string

	// Store keeps rendered results. Nil disables the save step.
	Store ResultStore
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineVarianceMatrix appends the variance matrix to reports.
func WithPipelineVarianceMatrix(include bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.VarianceMatrix = include
	}
}

// WithPipelineRobust sets the robust variance estimator.
func WithPipelineRobust(kind model.RobustKind) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Robust = kind
	}
}

// WithPipelineClosingText sets the text appended to every report.
func WithPipelineClosingText(text string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ClosingText = text
	}
}

// WithPipelineStore enables the save step with the given store.
func WithPipelineStore(store ResultStore) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Store = store
	}
}

// DefaultPipeline creates the render pipeline: load, validate, generate
// and, when a store is configured, save.
func DefaultPipeline(logger *slog.Logger, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(append([]Option{WithLogger(logger)}, pipelineOpts...)...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	generator := report.NewGenerator(
		report.WithVarianceMatrix(cfg.VarianceMatrix),
		report.WithRobust(cfg.Robust),
		report.WithClosingText(cfg.ClosingText),
		report.WithLogger(logger),
	)

	p.AddSteps(
		NewLoadStep(logger),
		NewValidateStep(),
		NewGenerateStep(generator),
	)
	if cfg.Store != nil {
		p.AddStep(NewSaveStep(cfg.Store, logger))
	}

	return p
}
