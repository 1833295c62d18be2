package report

import (
	"cmp"
	"slices"

	"github.com/nao1215/regreport/internal/model"
)

// buildRows turns the parameters of one equation into result rows keyed by
// (equation id, original index).
func buildRows(id string, eq *model.Equation) []model.ResultRow {
	rows := make([]model.ResultRow, 0, len(eq.Parameters))
	for i, p := range eq.Parameters {
		row := model.ResultRow{
			EquationID:  id,
			Regime:      p.Regime,
			Type:        p.Type,
			Index:       p.Position(i),
			Name:        p.Name,
			Coefficient: p.Coefficient,
		}
		if inf := p.Inference; inf != nil {
			stdErr, stat, pValue := inf.StdErr, inf.Statistic, inf.PValue
			row.StdErr, row.Statistic, row.PValue = &stdErr, &stat, &pValue
		}
		rows = append(rows, row)
	}
	return rows
}

// finalizeTable orders the rows by (equation id, regime id, original index)
// and keeps the visible columns only. The equation id of each row is
// returned alongside, or nil when no row belongs to a named equation.
func finalizeTable(rows []model.ResultRow) ([]model.OutputRow, []string) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.ResultRow) int {
		if c := compareKeys(a.EquationID, b.EquationID); c != 0 {
			return c
		}
		if c := compareKeys(a.Regime, b.Regime); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	out := make([]model.OutputRow, len(sorted))
	for i, row := range sorted {
		out[i] = row.Visible()
	}
	if !slices.ContainsFunc(sorted, func(r model.ResultRow) bool { return r.EquationID != "" }) {
		return out, nil
	}

	equations := make([]string, len(sorted))
	for i, row := range sorted {
		equations[i] = row.EquationID
	}
	return out, equations
}

// namesByIndex returns the row names in (equation, original index) order.
func namesByIndex(rows []model.ResultRow) []string {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.ResultRow) int {
		if c := compareKeys(a.EquationID, b.EquationID); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	names := make([]string, len(sorted))
	for i, row := range sorted {
		names[i] = row.Name
	}
	return names
}
