package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/regreport/internal/model"
)

// robustBanner returns the line announcing the robust variance estimator.
func robustBanner(kind model.RobustKind, kernelWeights string) (string, error) {
	switch kind {
	case model.RobustNone:
		return "", nil
	case model.RobustWhite:
		return "White Standard Errors\n", nil
	case model.RobustHAC:
		if kernelWeights == "" {
			return "", model.ErrMissingKernelWeights
		}
		return "HAC Standard Errors; Kernel Weights: " + kernelWeights + "\n", nil
	case model.RobustOGMM:
		return "Optimal GMM used to estimate the coefficients and the variance-covariance matrix\n", nil
	default:
		return "", fmt.Errorf("unknown robust kind %q", string(kind))
	}
}

// renderCoefficients renders the coefficient table head and one line per
// parameter, ordered by regime then original index. The closing rule is
// left to the caller.
func renderCoefficients(rows []model.ResultRow, statLabel string) string {
	var b strings.Builder
	b.WriteString(tableRule)
	fmt.Fprintf(&b, "            Variable     Coefficient       Std.Error     %1s-Statistic     Probability\n", statLabel)
	b.WriteString(tableRule)

	for _, row := range sortedByRegime(rows) {
		if !row.HasInference() {
			fmt.Fprintf(&b, "%20s    %12.5f    \n", row.Name, num(row.Coefficient))
			continue
		}
		fmt.Fprintf(&b, "%20s    %12.5f    %12.5f    %12.5f    %12.5f\n",
			row.Name, num(row.Coefficient), num(*row.StdErr), num(*row.Statistic), num(*row.PValue))
	}
	return b.String()
}

func sortedByRegime(rows []model.ResultRow) []model.ResultRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.ResultRow) int {
		if c := compareKeys(a.Regime, b.Regime); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return sorted
}

// renderInstruments lists the instrumented variables and the instruments,
// each sorted and wrapped under its label.
func renderInstruments(eq *model.Equation) string {
	list := func(label string, names []string) string {
		sorted := slices.Clone(names)
		slices.Sort(sorted)
		return wrap(label+strings.Join(sorted, ", "), wrapWidth, wrapIndent) + "\n"
	}
	return list("Instrumented: ", eq.NameYend) + list("Instruments: ", eq.NameQ)
}
