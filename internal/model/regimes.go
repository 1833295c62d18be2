package model

// RegimeInfo describes the regimes setup of an equation.
type RegimeInfo struct {
	// Variable is the name of the variable partitioning the observations.
	Variable string `yaml:"variable"`

	// Count is the number of regimes (nr).
	Count int `yaml:"nr"`

	// Set lists the ordered regime tags. Only needed when parameter names
	// or regime ids are left for the regimes setup to derive.
	Set []string `yaml:"set,omitempty"`

	// Names are the variable names before regime interaction (name_x_r),
	// the constant first.
	Names []string `yaml:"name_x_r"`

	// Types are the variable types matching Names, used when deriving
	// parameter rows from the regimes setup.
	Types []VarType `yaml:"types,omitempty"`

	// Cols2Regi flags the columns of Names[1:] that vary by regime. An
	// empty list means every column varies.
	Cols2Regi []bool `yaml:"cols2regi,omitempty"`

	// Constant is the constant setup across regimes.
	Constant ConstantRegime `yaml:"constant_regi,omitempty"`

	// KR is the number of regime-varying variables, KF the number of
	// global ones and KRYD the number of regime-varying endogenous ones.
	KR   int `yaml:"kr"`
	KF   int `yaml:"kf,omitempty"`
	KRYD int `yaml:"kryd,omitempty"`

	// Chow holds precomputed Chow statistics. When nil they are derived
	// from the coefficients and the variance matrix.
	Chow *ChowTest `yaml:"chow,omitempty"`
}

// InteractedNames returns the regime-interacted variable names in Chow
// order: the constant when it varies by regime, then the interacted
// columns of Names[1:].
func (r *RegimeInfo) InteractedNames() []string {
	var names []string
	if r.Constant == ConstantMany {
		names = append(names, "CONSTANT")
	}
	if len(r.Names) < 2 {
		return names
	}
	rest := r.Names[1:]
	if len(r.Cols2Regi) == 0 {
		return append(names, rest...)
	}
	for i, name := range rest {
		if i < len(r.Cols2Regi) && r.Cols2Regi[i] {
			names = append(names, name)
		}
	}
	return names
}

// ChowTest holds the Chow test of coefficient stability across regimes.
type ChowTest struct {
	// Joint is the test that every coefficient is stable across regimes.
	Joint TestPair `yaml:"joint"`

	// Regi holds one test per regime-varying variable.
	Regi []TestPair `yaml:"regi"`
}
