package report

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/regreport/internal/model"
)

// Generator composes the fixed-width text report of a fitted model and its
// results table. A Generator holds no per-call state and may be shared.
type Generator struct {
	// varianceMatrix appends the coefficient variance matrix.
	varianceMatrix bool

	// robust is the robust variance estimator announced above every
	// coefficient table.
	robust model.RobustKind

	// closingText is appended verbatim before the variance matrix.
	closingText string

	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithVarianceMatrix appends the coefficient variance matrix to the report.
func WithVarianceMatrix(include bool) Option {
	return func(g *Generator) {
		g.varianceMatrix = include
	}
}

// WithRobust sets the robust variance estimator used for the standard errors.
func WithRobust(kind model.RobustKind) Option {
	return func(g *Generator) {
		g.robust = kind
	}
}

// WithClosingText appends caller text at the end of the report.
func WithClosingText(text string) Option {
	return func(g *Generator) {
		g.closingText = text
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate composes the report of m. The model is only read; everything
// derived while composing is returned in the Result.
func Generate(m *model.FittedModel, includeVarianceMatrix bool, robust model.RobustKind, closingText string) (*model.Result, error) {
	return NewGenerator(
		WithVarianceMatrix(includeVarianceMatrix),
		WithRobust(robust),
		WithClosingText(closingText),
	).Generate(m)
}

// Generate composes the report of m.
func (g *Generator) Generate(m *model.FittedModel) (*model.Result, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fitted model: %w", err)
	}
	if !g.robust.IsValid() {
		return nil, fmt.Errorf("unknown robust kind %q", string(g.robust))
	}

	var b strings.Builder
	b.WriteString(startBanner)

	res := &model.Result{
		Title:   m.ReportTitle(),
		Dataset: m.ReportDataset(),
	}
	var rows []model.ResultRow

	for _, re := range m.ReportableEquations() {
		id, _ := re.Key()
		eq := re.Equation()

		eqRows := buildRows(id, eq)
		summary, err := g.composeEquation(&b, id, eq, eqRows)
		if err != nil {
			if id != "" {
				return nil, fmt.Errorf("equation %s: %w", id, err)
			}
			return nil, err
		}
		rows = append(rows, eqRows...)
		res.Equations = append(res.Equations, summary)
	}

	if m.IsMultiEquation() {
		global, err := g.composeGlobal(&b, m)
		if err != nil {
			return nil, err
		}
		res.GlobalChow = global
	}

	b.WriteString(g.closingText)

	if g.varianceMatrix {
		names := m.VarianceNames()
		if len(names) == 0 {
			names = namesByIndex(rows)
		}
		vm, err := renderVarianceMatrix(names, m.VM)
		if err != nil {
			return nil, err
		}
		b.WriteString(vm)
	}

	b.WriteString(endBanner)

	res.Summary = b.String()
	res.Output, res.OutputEquations = finalizeTable(rows)
	return res, nil
}

// composeEquation writes the header, coefficient table and diagnostics of
// one equation and returns what was derived on the way.
func (g *Generator) composeEquation(b *strings.Builder, id string, eq *model.Equation, rows []model.ResultRow) (model.EquationSummary, error) {
	caps := Resolve(eq, g.robust)
	g.logger.Debug("resolved report sections",
		slog.String("equation", id),
		slog.String("family", eq.Family.String()),
		slog.String("sections", caps.String()))

	summary := model.EquationSummary{
		ID:               id,
		Title:            eq.Title,
		Family:           eq.Family,
		StatLabel:        eq.Family.StatLabel(),
		DegreesOfFreedom: eq.N - eq.K,
		Sections:         caps.Names(),
	}

	// top
	b.WriteString(renderHeader(eq, caps))
	if caps.Has(CapSpatialPseudoR2) {
		text, pr2, err := renderSpatialPseudoR2(eq)
		if err != nil {
			return summary, err
		}
		b.WriteString(text)
		summary.SpatialPseudoR2 = pr2
	}
	if caps.Has(CapFitQuality) {
		text, err := renderFitQuality(eq.Family, eq.Fit)
		if err != nil {
			return summary, err
		}
		b.WriteString(text)
	}
	if caps.Has(CapIterations) {
		b.WriteString(renderIterations(eq.Iterations))
	}
	if caps.Has(CapOtherTop) {
		b.WriteString(eq.OtherTop)
	}

	// middle
	b.WriteString("\n")
	if caps.Has(CapRobust) {
		banner, err := robustBanner(g.robust, eq.KernelWeightsName)
		if err != nil {
			return summary, err
		}
		b.WriteString(banner)
	}
	b.WriteString(renderCoefficients(rows, summary.StatLabel))
	b.WriteString(tableRule)

	if caps.Has(CapInstruments) {
		b.WriteString(renderInstruments(eq))
	}
	if caps.Has(CapRegimes) {
		fmt.Fprintf(b, "Regimes variable: %s\n", eq.Regimes.Variable)
		if caps.Has(CapChow) {
			chow, err := g.composeChow(id, eq.Regimes, eq.Betas(), eq.VM, eq.LambdaCount())
			if err != nil {
				return summary, err
			}
			if chow != nil {
				b.WriteString(renderChow(chow))
				summary.Chow = chow
			}
		}
	}
	if caps.Has(CapWarning) {
		b.WriteString(eq.Warning)
	}
	if caps.Has(CapRegressionDiagnostics) {
		b.WriteString(renderRegressionDiagnostics(eq.Diagnostics))
	}
	if caps.Has(CapSpatialDiagnostics) {
		b.WriteString(renderSpatialDiagnostics(eq.Spatial))
	}
	if caps.Has(CapOtherMid) {
		b.WriteString(eq.OtherMid)
	}
	return summary, nil
}

// composeGlobal writes the section closing a multi-equation report: the
// global warning and the Chow test across all equations.
func (g *Generator) composeGlobal(b *strings.Builder, m *model.FittedModel) (*model.ChowResult, error) {
	b.WriteString(tableRule)
	b.WriteString(m.Warning)
	b.WriteString("\nGLOBAL DIAGNOSTICS\n")

	if m.Regimes == nil {
		g.logger.Debug("no global regimes, skipping global chow test")
		return nil, nil
	}

	var betas []float64
	for _, eq := range m.Equations {
		betas = append(betas, eq.Betas()...)
	}
	chow, err := g.composeChow("", m.Regimes, betas, m.VM, m.LambdaCount())
	if err != nil {
		return nil, fmt.Errorf("global diagnostics: %w", err)
	}
	if chow != nil {
		b.WriteString(renderChow(chow))
	}
	return chow, nil
}

func (g *Generator) composeChow(id string, info *model.RegimeInfo, betas []float64, vm [][]float64, lambdaRows int) (*model.ChowResult, error) {
	if info.Chow == nil {
		g.logger.Debug("deriving chow test",
			slog.String("equation", id),
			slog.String("regimes_variable", info.Variable),
			slog.Any("betas", betas),
			slog.Any("vm", vm))
	}
	test, err := chowTest(info, betas, vm)
	if err != nil {
		return nil, err
	}
	if test == nil {
		g.logger.Debug("no chow statistics available", slog.String("equation", id))
		return nil, nil
	}
	return buildChow(id, info, test, lambdaRows)
}
