package model

// TestPair is a test statistic with its p-value.
type TestPair struct {
	Value  float64 `yaml:"value" json:"value"`
	PValue float64 `yaml:"p_value" json:"p_value"`
}

// TestRecord is a labelled test result with degrees of freedom.
type TestRecord struct {
	DF     int     `yaml:"df" json:"df"`
	Value  float64 `yaml:"value" json:"value"`
	PValue float64 `yaml:"p_value" json:"p_value"`
}

// FitQuality holds the goodness-of-fit statistics of OLS and ML equations.
// UTU, Sig2N and FStat are only read for OLS equations.
type FitQuality struct {
	UTU           float64   `yaml:"utu"`
	Sig2          float64   `yaml:"sig2"`
	Sig2N         float64   `yaml:"sig2n"`
	FStat         *TestPair `yaml:"f_stat,omitempty"`
	LogLikelihood float64   `yaml:"log_likelihood"`
	AIC           float64   `yaml:"aic"`
	Schwarz       float64   `yaml:"schwarz"`
}

// WhiteTest is the specification-robust White test. Some estimators hand
// it over already composed as text; Text then takes precedence.
type WhiteTest struct {
	TestRecord `yaml:",inline"`

	Text string `yaml:"text,omitempty"`
}

// RegressionDiagnostics holds the non-spatial residual diagnostics.
type RegressionDiagnostics struct {
	// ConditionNumber is the multicollinearity condition number. Nil or
	// zero means it could not be computed.
	ConditionNumber *float64 `yaml:"condition_number,omitempty"`

	JarqueBera     TestRecord `yaml:"jarque_bera"`
	BreuschPagan   TestRecord `yaml:"breusch_pagan"`
	KoenkerBassett TestRecord `yaml:"koenker_bassett"`

	White *WhiteTest `yaml:"white,omitempty"`
}

// MoranTest is Moran's I on the residuals with its standardized value.
type MoranTest struct {
	I      float64 `yaml:"i"`
	Z      float64 `yaml:"z"`
	PValue float64 `yaml:"p_value"`
}

// LMTests is the Lagrange Multiplier family of spatial dependence tests.
type LMTests struct {
	Lag         TestPair `yaml:"lag"`
	RobustLag   TestPair `yaml:"robust_lag"`
	Error       TestPair `yaml:"error"`
	RobustError TestPair `yaml:"robust_error"`
	SARMA       TestPair `yaml:"sarma"`
}

// SpatialDiagnostics holds the spatial dependence tests. Instrumented
// equations report the Anselin-Kelejian test; OLS equations report the
// LM family and optionally Moran's I.
type SpatialDiagnostics struct {
	AnselinKelejian *TestPair  `yaml:"anselin_kelejian,omitempty"`
	LM              *LMTests   `yaml:"lm,omitempty"`
	Moran           *MoranTest `yaml:"moran,omitempty"`
}

// IterationInfo describes the iterative estimation of GMM equations.
//
// Estimators disagree on the name of the iteration counter; both spellings
// are accepted and resolved by Count.
type IterationInfo struct {
	Niter     *int   `yaml:"niter,omitempty"`
	Iteration *int   `yaml:"iteration,omitempty"`
	Step1c    *bool  `yaml:"step1c,omitempty"`
	A1        string `yaml:"a1,omitempty"`
}

// Count returns the iteration count and whether any was recorded.
func (it *IterationInfo) Count() (int, bool) {
	switch {
	case it == nil:
		return 0, false
	case it.Niter != nil:
		return *it.Niter, true
	case it.Iteration != nil:
		return *it.Iteration, true
	default:
		return 0, false
	}
}
