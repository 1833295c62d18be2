package model

import "fmt"

// Validate checks the contract a fitted model must honour before a report
// can be composed. Absent optional sections are not errors; only shapes
// that make a mandatory section impossible are reported.
func (m *FittedModel) Validate() error {
	if m == nil {
		return ErrNilModel
	}
	if !m.IsMultiEquation() {
		return m.Equation.Validate()
	}

	seen := make(map[string]struct{}, len(m.Equations))
	for i, eq := range m.Equations {
		if eq == nil {
			return fmt.Errorf("equation #%d: %w", i+1, ErrNilModel)
		}
		if _, dup := seen[eq.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateEquation, eq.ID)
		}
		seen[eq.ID] = struct{}{}
		if err := eq.Validate(); err != nil {
			return fmt.Errorf("equation %s: %w", eq.ID, err)
		}
	}
	if m.Regimes != nil {
		if err := m.Regimes.validate(); err != nil {
			return fmt.Errorf("global regimes: %w", err)
		}
	}
	return validateSquare(m.VM)
}

// Validate checks the contract of a single equation.
func (e *Equation) Validate() error {
	if !e.Family.IsValid() {
		return ErrUnknownFamily
	}
	if len(e.Parameters) == 0 {
		return ErrNoParameters
	}
	if err := e.validateIndices(); err != nil {
		return err
	}

	switch e.Family {
	case FamilyOLS:
		if e.Fit == nil || e.Fit.FStat == nil {
			return ErrMissingFitQuality
		}
		if e.Diagnostics == nil {
			return ErrMissingDiagnostics
		}
	case FamilyML:
		if e.Fit == nil {
			return ErrMissingFitQuality
		}
	}

	if e.RhoInBounds() && e.SpatialPseudoR2 == nil {
		return ErrMissingSpatialPseudoR2
	}
	if e.Regimes != nil {
		if err := e.Regimes.validate(); err != nil {
			return err
		}
	}
	return validateSquare(e.VM)
}

// validateIndices rejects duplicate or out-of-range original indices.
func (e *Equation) validateIndices() error {
	seen := make(map[int]struct{}, len(e.Parameters))
	for i, p := range e.Parameters {
		pos := p.Position(i)
		if pos < 0 || pos >= len(e.Parameters) {
			return fmt.Errorf("%w: parameter %q has index %d outside [0, %d)",
				ErrDimensionMismatch, p.Name, pos, len(e.Parameters))
		}
		if _, dup := seen[pos]; dup {
			return fmt.Errorf("%w: duplicate parameter index %d", ErrDimensionMismatch, pos)
		}
		seen[pos] = struct{}{}
	}
	return nil
}

func (r *RegimeInfo) validate() error {
	if r.Count < 2 {
		return fmt.Errorf("%w: %d regimes", ErrInvalidRegimes, r.Count)
	}
	if !r.Constant.IsValid() {
		return fmt.Errorf("%w: constant_regi %q", ErrInvalidRegimes, r.Constant)
	}
	if len(r.Set) > 0 && len(r.Set) != r.Count {
		return fmt.Errorf("%w: %d regime tags for %d regimes", ErrInvalidRegimes, len(r.Set), r.Count)
	}
	if len(r.Cols2Regi) > 0 && len(r.Names) > 0 && len(r.Cols2Regi) != len(r.Names)-1 {
		return fmt.Errorf("%w: cols2regi has %d flags for %d columns",
			ErrInvalidRegimes, len(r.Cols2Regi), len(r.Names)-1)
	}
	return nil
}

func validateSquare(vm [][]float64) error {
	for i, row := range vm {
		if len(row) != len(vm) {
			return fmt.Errorf("%w: variance matrix row %d has %d columns, want %d",
				ErrDimensionMismatch, i, len(row), len(vm))
		}
	}
	return nil
}
