package regimes

import (
	"fmt"

	"github.com/nao1215/regreport/internal/model"
)

// GlobalRegime is the regime id of coefficients shared by every regime.
const GlobalRegime = "_Global"

// Column is one coefficient produced by a regimes setup.
type Column struct {
	Name   string
	Type   model.VarType
	Regime string
}

// SetNames lays out the coefficient columns of a regimes setup in the order
// of the estimate vector: the regime-varying variables repeated for every
// regime as "<regime>_<name>", then the global variables as
// "_Global_<name>". names, cols2regi and types are parallel.
func SetNames(names []string, cols2regi []bool, types []model.VarType, set []string) ([]Column, error) {
	if len(names) != len(cols2regi) {
		return nil, fmt.Errorf("%w: %d names for %d cols2regi flags",
			model.ErrDimensionMismatch, len(names), len(cols2regi))
	}
	if len(types) != 0 && len(types) != len(names) {
		return nil, fmt.Errorf("%w: %d types for %d names",
			model.ErrDimensionMismatch, len(types), len(names))
	}
	typeOf := func(i int) model.VarType {
		if len(types) == 0 {
			return model.VarExogenous
		}
		return types[i]
	}

	var cols []Column
	for _, regime := range set {
		for i, name := range names {
			if cols2regi[i] {
				cols = append(cols, Column{
					Name:   regime + "_" + name,
					Type:   typeOf(i),
					Regime: regime,
				})
			}
		}
	}
	for i, name := range names {
		if !cols2regi[i] {
			cols = append(cols, Column{
				Name:   GlobalRegime + "_" + name,
				Type:   typeOf(i),
				Regime: GlobalRegime,
			})
		}
	}
	return cols, nil
}

// ApplyNames fills the names, types and regime ids that an equation left
// for its regimes setup to derive. Equations without regime tags are left
// untouched.
func ApplyNames(eq *model.Equation) error {
	info := eq.Regimes
	if info == nil || len(info.Set) == 0 || len(info.Names) == 0 {
		return nil
	}

	cols2regi := make([]bool, len(info.Names))
	cols2regi[0] = info.Constant == model.ConstantMany
	for i := 1; i < len(info.Names); i++ {
		cols2regi[i] = len(info.Cols2Regi) == 0 || info.Cols2Regi[i-1]
	}
	types := info.Types
	if len(types) == 0 {
		types = make([]model.VarType, len(info.Names))
		for i := range types {
			types[i] = model.VarExogenous
		}
		if info.Constant != model.ConstantNone {
			types[0] = model.VarConstant
		}
	}

	cols, err := SetNames(info.Names, cols2regi, types, info.Set)
	if err != nil {
		return err
	}
	if len(cols) > len(eq.Parameters) {
		return fmt.Errorf("%w: regimes setup yields %d columns for %d parameters",
			model.ErrDimensionMismatch, len(cols), len(eq.Parameters))
	}

	// Trailing parameters (spatial terms) are outside the regimes layout.
	for i, col := range cols {
		p := &eq.Parameters[i]
		if p.Name == "" {
			p.Name = col.Name
		}
		if p.Type == "" {
			p.Type = col.Type
		}
		if p.Regime == "" {
			p.Regime = col.Regime
		}
	}
	return nil
}
