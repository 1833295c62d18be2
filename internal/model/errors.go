package model

import "errors"

// Contract errors. These describe inputs whose shape makes a report
// impossible to compose; report generation aborts when one is returned.
var (
	// ErrNilModel is returned when no fitted model is supplied.
	ErrNilModel = errors.New("fitted model is nil")

	// ErrUnknownFamily is returned when an equation has no recognised model family.
	ErrUnknownFamily = errors.New("unknown model family")

	// ErrNoParameters is returned when an equation carries no parameter rows.
	ErrNoParameters = errors.New("equation has no parameters")

	// ErrDuplicateEquation is returned when two equations share an identifier.
	ErrDuplicateEquation = errors.New("duplicate equation id")

	// ErrDimensionMismatch is returned when a matrix or a name list does not
	// match the dimensions implied by the parameter vector.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMissingKernelWeights is returned when HAC standard errors are
	// requested but the equation carries no kernel weights name.
	ErrMissingKernelWeights = errors.New("HAC standard errors require a kernel weights name")

	// ErrMissingFitQuality is returned when an OLS or ML equation carries no
	// fit-quality statistics.
	ErrMissingFitQuality = errors.New("fit-quality statistics are required for this model family")

	// ErrMissingDiagnostics is returned when an OLS equation carries no
	// normality and heteroskedasticity diagnostics.
	ErrMissingDiagnostics = errors.New("regression diagnostics are required for OLS models")

	// ErrMissingSpatialPseudoR2 is returned when rho lies inside (-1, 1) but
	// no spatial pseudo R-squared was supplied.
	ErrMissingSpatialPseudoR2 = errors.New("spatial pseudo R-squared is required when |rho| < 1")

	// ErrMissingVarianceMatrix is returned when the variance matrix is
	// requested but the model carries none.
	ErrMissingVarianceMatrix = errors.New("variance matrix requested but not supplied")

	// ErrChowShape is returned when the Chow statistics do not line up with
	// the regime-interacted columns.
	ErrChowShape = errors.New("chow test rows do not match regime-interacted columns")

	// ErrInvalidRegimes is returned when regime metadata is inconsistent.
	ErrInvalidRegimes = errors.New("invalid regimes setup")
)
