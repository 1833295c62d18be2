package model

import "math"

// Inference holds the inferential statistics of one estimated parameter.
type Inference struct {
	StdErr    float64 `yaml:"std_err" json:"std_err"`
	Statistic float64 `yaml:"statistic" json:"statistic"`
	PValue    float64 `yaml:"p_value" json:"p_value"`
}

// Parameter is one estimated coefficient of an equation.
//
// A nil Inference is a valid state: some estimators produce no variance
// estimate for a term (the spatial error coefficient, for example) and the
// row is then reported with its coefficient only.
type Parameter struct {
	// Name is the display name of the variable.
	Name string `yaml:"name"`

	// Type is the role of the variable in the equation.
	Type VarType `yaml:"type"`

	// Regime is the regime identifier of the row. Rows of models without
	// regimes leave it empty.
	Regime string `yaml:"regime,omitempty"`

	// Index is the original position of the parameter in the estimate
	// vector. When omitted, the position in the parameter list is used.
	Index *int `yaml:"index,omitempty"`

	// Coefficient is the point estimate.
	Coefficient float64 `yaml:"coefficient"`

	// Inference holds the standard error, test statistic and p-value.
	Inference *Inference `yaml:"inference,omitempty"`
}

// Position returns the original index of the parameter, falling back to
// the given list position when no explicit index was supplied.
func (p Parameter) Position(fallback int) int {
	if p.Index != nil {
		return *p.Index
	}
	return fallback
}

// Equation is one reportable fitted equation. A single-equation model is
// its own lone equation; a multi-equation model holds one Equation per
// equation id.
type Equation struct {
	ID            string      `yaml:"id,omitempty"`
	Title         string      `yaml:"title"`
	Family        ModelFamily `yaml:"family"`
	DatasetName   string      `yaml:"dataset"`
	WeightsName   string      `yaml:"weights,omitempty"`
	DependentName string      `yaml:"dependent"`

	// N is the number of observations and K the number of parameters.
	N int `yaml:"n"`
	K int `yaml:"k"`

	MeanY float64 `yaml:"mean_y"`
	StdY  float64 `yaml:"std_y"`

	// R2 and AdjR2 are reported for OLS equations, PseudoR2 otherwise.
	R2       float64 `yaml:"r2,omitempty"`
	AdjR2    float64 `yaml:"adj_r2,omitempty"`
	PseudoR2 float64 `yaml:"pseudo_r2,omitempty"`

	Parameters []Parameter `yaml:"parameters"`

	// NameX lists the exogenous names and NameZ the names of all
	// right-hand side variables including endogenous ones.
	NameX []string `yaml:"name_x,omitempty"`
	NameZ []string `yaml:"name_z,omitempty"`

	// NameQ lists the instruments, NameYend the instrumented variables.
	NameQ    []string `yaml:"name_q,omitempty"`
	NameYend []string `yaml:"name_yend,omitempty"`

	// KernelWeightsName names the kernel weights used for HAC errors.
	KernelWeightsName string `yaml:"kernel_weights,omitempty"`

	Regimes     *RegimeInfo            `yaml:"regimes,omitempty"`
	Fit         *FitQuality            `yaml:"fit,omitempty"`
	Diagnostics *RegressionDiagnostics `yaml:"diagnostics,omitempty"`
	Spatial     *SpatialDiagnostics    `yaml:"spatial,omitempty"`

	// Rho is the spatial autoregressive coefficient.
	Rho *float64 `yaml:"rho,omitempty"`

	// SpatialPseudoR2 is the pseudo R-squared computed from the reduced
	// form. It is only reported when |Rho| < 1.
	SpatialPseudoR2 *float64 `yaml:"spatial_pseudo_r2,omitempty"`

	Iterations *IterationInfo `yaml:"iterations,omitempty"`

	Warning  string `yaml:"warning,omitempty"`
	OtherTop string `yaml:"other_top,omitempty"`
	OtherMid string `yaml:"other_mid,omitempty"`

	// VM is the variance-covariance matrix of the estimates.
	VM [][]float64 `yaml:"vm,omitempty"`
}

// HasInstruments reports whether both instrument name lists are present.
func (e *Equation) HasInstruments() bool {
	return len(e.NameQ) > 0 && len(e.NameYend) > 0
}

// RhoInBounds reports whether rho is present and inside (-1, 1).
func (e *Equation) RhoInBounds() bool {
	return e.Rho != nil && math.Abs(*e.Rho) < 1
}

// LambdaCount returns the number of lambda rows of the equation.
func (e *Equation) LambdaCount() int {
	n := 0
	for _, p := range e.Parameters {
		if p.Type == VarLambda {
			n++
		}
	}
	return n
}

// Betas returns the coefficients ordered by their original index.
func (e *Equation) Betas() []float64 {
	betas := make([]float64, len(e.Parameters))
	for i, p := range e.Parameters {
		pos := p.Position(i)
		if pos < 0 || pos >= len(betas) {
			pos = i
		}
		betas[pos] = p.Coefficient
	}
	return betas
}

// VarianceNames returns the names heading the variance matrix, preferring
// the full right-hand side list when present.
func (e *Equation) VarianceNames() []string {
	if len(e.NameZ) > 0 {
		return e.NameZ
	}
	return e.NameX
}

// FittedModel is the fully estimated model handed over for reporting.
//
// Single-equation models carry their fields on the embedded Equation.
// Multi-equation models list the equations in Equations and keep global
// data (warning, global regimes and Chow test, variance matrix) on the
// embedded Equation.
type FittedModel struct {
	Equation `yaml:",inline"`

	Equations []*Equation `yaml:"equations,omitempty"`
}

// IsMultiEquation reports whether the model holds keyed equations.
func (m *FittedModel) IsMultiEquation() bool {
	return len(m.Equations) > 0
}

// LambdaCount returns the number of lambda rows across every equation.
func (m *FittedModel) LambdaCount() int {
	if !m.IsMultiEquation() {
		return m.Equation.LambdaCount()
	}
	n := 0
	for _, eq := range m.Equations {
		n += eq.LambdaCount()
	}
	return n
}

// ReportTitle returns a title for the whole model, used by exporters.
func (m *FittedModel) ReportTitle() string {
	if m.Title != "" || !m.IsMultiEquation() {
		return m.Title
	}
	return m.Equations[0].Title
}

// ReportDataset returns the dataset name for the whole model.
func (m *FittedModel) ReportDataset() string {
	if m.DatasetName != "" || !m.IsMultiEquation() {
		return m.DatasetName
	}
	return m.Equations[0].DatasetName
}
