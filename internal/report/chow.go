package report

import (
	"fmt"
	"strings"

	"github.com/nao1215/regreport/internal/model"
	"github.com/nao1215/regreport/internal/regimes"
)

// chowTest returns the supplied Chow statistics, or derives them from the
// coefficients and the variance matrix. It returns nil when neither is
// available.
func chowTest(info *model.RegimeInfo, betas []float64, vm [][]float64) (*model.ChowTest, error) {
	if info.Chow != nil {
		return info.Chow, nil
	}
	if len(vm) == 0 {
		return nil, nil
	}
	test, err := regimes.Derive(info, betas, vm)
	if err != nil {
		return nil, fmt.Errorf("derive chow test: %w", err)
	}
	return test, nil
}

// buildChow lays out the Chow table: one row per regime-interacted column
// (the constant first when it varies by regime), a "lambda" row when more
// than one lambda term was estimated, and the "Global test" row.
func buildChow(id string, info *model.RegimeInfo, test *model.ChowTest, lambdaRows int) (*model.ChowResult, error) {
	names := info.InteractedNames()
	interacted := len(names)
	if lambdaRows > 1 {
		names = append(names, "lambda")
	}
	if len(test.Regi) != len(names) {
		return nil, fmt.Errorf("%w: %d statistics for %d variables",
			model.ErrChowShape, len(test.Regi), len(names))
	}

	df := info.Count - 1
	kr := info.KR
	if kr == 0 {
		kr = interacted
	}

	res := &model.ChowResult{
		EquationID: id,
		Variable:   info.Variable,
		Rows:       make([]model.ChowRow, 0, len(names)+1),
	}
	for i, name := range names {
		res.Rows = append(res.Rows, model.ChowRow{
			Name:   name,
			DF:     df,
			Value:  test.Regi[i].Value,
			PValue: test.Regi[i].PValue,
		})
	}
	res.Rows = append(res.Rows, model.ChowRow{
		Name:   model.ChowGlobalName,
		DF:     kr * df,
		Value:  test.Joint.Value,
		PValue: test.Joint.PValue,
	})
	return res, nil
}

func renderChow(c *model.ChowResult) string {
	var b strings.Builder
	b.WriteString("\nREGIMES DIAGNOSTICS - CHOW TEST")
	b.WriteString("\n                 VARIABLE        DF        VALUE           PROB\n")
	for _, row := range c.Rows {
		fmt.Fprintf(&b, "%25s        %2d    %12.3f        %9.4f\n",
			row.Name, row.DF, num(row.Value), num(row.PValue))
	}
	return b.String()
}
