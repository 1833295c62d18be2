package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/regreport/internal/model"
)

// renderHeader renders the equation header: title, dataset, dependent
// variable and sample summary, then the goodness-of-fit lines of the
// equation's family.
func renderHeader(eq *model.Equation, caps Capability) string {
	var b strings.Builder

	title := "\nSUMMARY OF OUTPUT: " + eq.Title + "\n"
	b.WriteString(title)
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(title)-2) + "\n")

	fmt.Fprintf(&b, "%-20s:%12s\n", "Data set", eq.DatasetName)
	if caps.Has(CapWeights) {
		fmt.Fprintf(&b, "%-20s:%12s\n", "Weights matrix", eq.WeightsName)
	}
	fmt.Fprintf(&b, "%-20s:%12s                %-22s:%12d\n",
		"Dependent Variable", eq.DependentName, "Number of Observations", eq.N)
	fmt.Fprintf(&b, "%-20s:%12.4f                %-22s:%12d\n",
		"Mean dependent var", num(eq.MeanY), "Number of Variables", eq.K)
	fmt.Fprintf(&b, "%-20s:%12.4f                %-22s:%12d\n",
		"S.D. dependent var", num(eq.StdY), "Degrees of Freedom", eq.N-eq.K)

	if eq.Family == model.FamilyOLS {
		fmt.Fprintf(&b, "%-20s:%12.4f\n%-20s:%12.4f\n",
			"R-squared", num(eq.R2), "Adjusted R-squared", num(eq.AdjR2))
	} else {
		fmt.Fprintf(&b, "%-20s:%12.4f\n", "Pseudo R-squared", num(eq.PseudoR2))
	}
	return b.String()
}

// renderSpatialPseudoR2 reports the spatial pseudo R-squared when rho lies
// inside (-1, 1) and an omission notice otherwise.
func renderSpatialPseudoR2(eq *model.Equation) (string, *float64, error) {
	if !eq.RhoInBounds() {
		return "Spatial Pseudo R-squared: omitted due to rho outside the boundary (-1, 1).\n", nil, nil
	}
	if eq.SpatialPseudoR2 == nil {
		return "", nil, model.ErrMissingSpatialPseudoR2
	}
	v := *eq.SpatialPseudoR2
	return fmt.Sprintf("%-20s:  %5.4f\n", "Spatial Pseudo R-squared", num(v)), &v, nil
}

// renderIterations reports the iteration count, the step 1c flag and the
// A1 estimator type, in that order on one line.
func renderIterations(it *model.IterationInfo) string {
	count, _ := it.Count()
	txt := fmt.Sprintf("%-20s:%12d\n", "N. of iterations", count)

	if it.Step1c != nil {
		step1c := "No"
		if *it.Step1c {
			step1c = "Yes"
		}
		txt = strings.TrimSuffix(txt, "\n") +
			fmt.Sprintf("                %-22s:%12s\n", "Step1c computed", step1c)
	}
	if it.A1 != "" {
		// The A1 label closes the line without a newline.
		txt = strings.TrimSuffix(txt, "\n") +
			fmt.Sprintf("                %-22s:%12s", "A1 type: ", it.A1)
	}
	return txt
}
