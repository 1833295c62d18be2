package model

import "strings"

// tagUnknownStr is the string representation for unknown tag values.
const tagUnknownStr = "unknown"

// ModelFamily is the closed set of estimator families a report distinguishes.
// The family decides the test-statistic label ("t" or "z"), the goodness-of-fit
// lines in the header and which fit-quality variant applies.
type ModelFamily string

// Model family constants.
const (
	// FamilyUnknown represents a missing or unrecognised family.
	FamilyUnknown ModelFamily = ""
	// FamilyOLS represents ordinary least squares estimators.
	FamilyOLS ModelFamily = "ols"
	// FamilyML represents maximum-likelihood estimators.
	FamilyML ModelFamily = "ml"
	// FamilyInstrumented represents two/three-stage least squares and GMM estimators.
	FamilyInstrumented ModelFamily = "instrumented"
)

// String returns the string representation of the ModelFamily.
func (f ModelFamily) String() string {
	if f == FamilyUnknown {
		return tagUnknownStr
	}
	return string(f)
}

// IsValid returns true if this is a known family.
func (f ModelFamily) IsValid() bool {
	switch f {
	case FamilyOLS, FamilyML, FamilyInstrumented:
		return true
	default:
		return false
	}
}

// StatLabel returns the label of the test-statistic column.
// Only ordinary least squares reports Student t statistics.
func (f ModelFamily) StatLabel() string {
	if f == FamilyOLS {
		return "t"
	}
	return "z"
}

// ParseModelFamily parses a family name, accepting common estimator aliases.
func ParseModelFamily(s string) ModelFamily {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ols", "ordinary-least-squares", "ordinary_least_squares":
		return FamilyOLS
	case "ml", "maximum-likelihood", "maximum_likelihood":
		return FamilyML
	case "instrumented", "tsls", "2sls", "3sls", "gmm", "stsls", "two-stage":
		return FamilyInstrumented
	default:
		return FamilyUnknown
	}
}

// RobustKind tags the robust variance estimator used for the standard errors.
type RobustKind string

// Robust kind constants.
const (
	// RobustNone means classical standard errors.
	RobustNone RobustKind = ""
	// RobustWhite means White heteroskedasticity-consistent standard errors.
	RobustWhite RobustKind = "white"
	// RobustHAC means heteroskedasticity and autocorrelation consistent standard errors.
	RobustHAC RobustKind = "hac"
	// RobustOGMM means optimal GMM estimation of coefficients and variance.
	RobustOGMM RobustKind = "ogmm"
)

// String returns the string representation of the RobustKind.
func (k RobustKind) String() string {
	if k == RobustNone {
		return "none"
	}
	return string(k)
}

// IsValid returns true if this is a known kind, including RobustNone.
func (k RobustKind) IsValid() bool {
	switch k {
	case RobustNone, RobustWhite, RobustHAC, RobustOGMM:
		return true
	default:
		return false
	}
}

// ParseRobustKind parses a robust kind name. The second return value is false
// for names that are not recognised.
func ParseRobustKind(s string) (RobustKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return RobustNone, true
	case "white":
		return RobustWhite, true
	case "hac":
		return RobustHAC, true
	case "ogmm":
		return RobustOGMM, true
	default:
		return RobustNone, false
	}
}

// VarType tags the role of a parameter row in the result table.
type VarType string

// Variable type constants. The short values follow the regime setup codes.
const (
	// VarExogenous is an exogenous regressor.
	VarExogenous VarType = "x"
	// VarEndogenous is an instrumented (endogenous) regressor.
	VarEndogenous VarType = "yend"
	// VarInstrument is an external instrument.
	VarInstrument VarType = "q"
	// VarSpatialLag is the spatially lagged dependent variable coefficient.
	VarSpatialLag VarType = "rho"
	// VarLambda is the spatial error coefficient.
	VarLambda VarType = "lambda"
	// VarConstant is the intercept.
	VarConstant VarType = "o"
	// VarSpatialLagX is a spatially lagged exogenous regressor.
	VarSpatialLagX VarType = "wx"
)

// String returns the string representation of the VarType.
func (t VarType) String() string {
	if t == "" {
		return tagUnknownStr
	}
	return string(t)
}

// IsValid returns true if this is a known variable type.
func (t VarType) IsValid() bool {
	switch t {
	case VarExogenous, VarEndogenous, VarInstrument, VarSpatialLag,
		VarLambda, VarConstant, VarSpatialLagX:
		return true
	default:
		return false
	}
}

// ConstantRegime controls how the intercept behaves across regimes.
type ConstantRegime string

// Constant regime constants.
const (
	// ConstantNone means no intercept was added by the regimes setup.
	ConstantNone ConstantRegime = ""
	// ConstantOne means one intercept shared by all regimes.
	ConstantOne ConstantRegime = "one"
	// ConstantMany means one intercept per regime.
	ConstantMany ConstantRegime = "many"
)

// IsValid returns true if this is a known constant setup, including ConstantNone.
func (c ConstantRegime) IsValid() bool {
	switch c {
	case ConstantNone, ConstantOne, ConstantMany:
		return true
	default:
		return false
	}
}
