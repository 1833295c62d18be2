package model

// ResultRow is one parameter row of the unified results table, including
// the bookkeeping keys used for ordering.
type ResultRow struct {
	// EquationID is empty for single-equation models.
	EquationID string
	Regime     string
	Type       VarType
	Index      int

	Name        string
	Coefficient float64
	StdErr      *float64
	Statistic   *float64
	PValue      *float64
}

// HasInference reports whether the row carries inferential statistics.
func (r ResultRow) HasInference() bool {
	return r.StdErr != nil && r.Statistic != nil && r.PValue != nil
}

// Visible returns the externally visible columns of the row.
func (r ResultRow) Visible() OutputRow {
	return OutputRow{
		Name:        r.Name,
		Coefficient: r.Coefficient,
		StdErr:      r.StdErr,
		Statistic:   r.Statistic,
		PValue:      r.PValue,
	}
}

// OutputRow is a row of the finalized results table. Absent inference is
// encoded as nil.
type OutputRow struct {
	Name        string   `json:"var_names"`
	Coefficient float64  `json:"coefficients"`
	StdErr      *float64 `json:"std_err"`
	Statistic   *float64 `json:"zt_stat"`
	PValue      *float64 `json:"prob"`
}

// ChowRow is one row of a Chow test table.
type ChowRow struct {
	Name   string  `json:"var_names"`
	DF     int     `json:"df"`
	Value  float64 `json:"value"`
	PValue float64 `json:"prob"`
}

// ChowGlobalName is the name of the aggregate Chow row.
const ChowGlobalName = "Global test"

// ChowResult is a rendered Chow test: one row per regime-interacted
// variable followed by the "Global test" row.
type ChowResult struct {
	// EquationID is empty for single-equation and global tables.
	EquationID string    `json:"equation,omitempty"`
	Variable   string    `json:"regimes_variable"`
	Rows       []ChowRow `json:"rows"`
}

// Global returns the aggregate row.
func (c *ChowResult) Global() ChowRow {
	if c == nil || len(c.Rows) == 0 {
		return ChowRow{}
	}
	return c.Rows[len(c.Rows)-1]
}

// EquationSummary holds the statistics derived for one equation while the
// report was composed.
type EquationSummary struct {
	ID               string      `json:"id,omitempty"`
	Title            string      `json:"title"`
	Family           ModelFamily `json:"family"`
	StatLabel        string      `json:"stat_label"`
	DegreesOfFreedom int         `json:"degrees_of_freedom"`
	Sections         []string    `json:"sections"`
	Chow             *ChowResult `json:"chow,omitempty"`
	SpatialPseudoR2  *float64    `json:"spatial_pseudo_r2,omitempty"`
}

// Result is the outcome of one report generation.
type Result struct {
	Title   string `json:"title"`
	Dataset string `json:"dataset"`

	// Summary is the complete fixed-width report.
	Summary string `json:"summary"`

	// Output is the finalized results table.
	Output []OutputRow `json:"output"`

	// OutputEquations holds the equation id of each Output row. It is nil
	// for single-equation models.
	OutputEquations []string `json:"output_equations,omitempty"`

	Equations  []EquationSummary `json:"equations"`
	GlobalChow *ChowResult       `json:"global_chow,omitempty"`
}

// ChowTables returns every Chow table of the result, per equation first.
func (r *Result) ChowTables() []*ChowResult {
	var tables []*ChowResult
	for _, eq := range r.Equations {
		if eq.Chow != nil {
			tables = append(tables, eq.Chow)
		}
	}
	if r.GlobalChow != nil {
		tables = append(tables, r.GlobalChow)
	}
	return tables
}
