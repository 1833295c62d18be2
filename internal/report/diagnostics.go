package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/regreport/internal/model"
)

const (
	testHeader         = "TEST                             DF        VALUE           PROB\n"
	spatialHeader      = "TEST                              DF       VALUE           PROB\n"
	spatialMoranHeader = "TEST                           MI/DF       VALUE           PROB\n"

	testRow = "%-27s      %2d    %12.3f        %9.4f\n"
)

// renderFitQuality renders the goodness-of-fit block. OLS equations report
// the residual sum of squares and the F test; other families report the
// maximum-likelihood variant.
func renderFitQuality(family model.ModelFamily, fit *model.FitQuality) (string, error) {
	var b strings.Builder
	if family != model.FamilyOLS {
		fmt.Fprintf(&b, "%-20s:%12.4f\n", "Log likelihood", num(fit.LogLikelihood))
		fmt.Fprintf(&b, "%-20s:%12.4f                %-22s:%12.3f\n",
			"Sigma-square ML", num(fit.Sig2), "Akaike info criterion", num(fit.AIC))
		fmt.Fprintf(&b, "%-20s:%12.4f                %-22s:%12.3f\n",
			"S.E of regression", num(math.Sqrt(fit.Sig2)), "Schwarz criterion", num(fit.Schwarz))
		return b.String(), nil
	}

	if fit.FStat == nil {
		return "", model.ErrMissingFitQuality
	}
	fmt.Fprintf(&b, "%-20s:%12.6g                %-22s:%12.4f\n",
		"Sum squared residual", num(fit.UTU), "F-statistic", num(fit.FStat.Value))
	fmt.Fprintf(&b, "%-20s:%12.3f                %-22s:%12.4g\n",
		"Sigma-square", num(fit.Sig2), "Prob(F-statistic)", num(fit.FStat.PValue))
	fmt.Fprintf(&b, "%-20s:%12.3f                %-22s:%12.3f\n",
		"S.E. of regression", num(math.Sqrt(fit.Sig2)), "Log likelihood", num(fit.LogLikelihood))
	fmt.Fprintf(&b, "%-20s:%12.3f                %-22s:%12.3f\n",
		"Sigma-square ML", num(fit.Sig2N), "Akaike info criterion", num(fit.AIC))
	fmt.Fprintf(&b, "%-20s:%12.4f                %-22s:%12.3f\n",
		"S.E of regression ML", num(math.Sqrt(fit.Sig2N)), "Schwarz criterion", num(fit.Schwarz))
	return b.String(), nil
}

// renderRegressionDiagnostics renders the normality and heteroskedasticity
// tests, with the White test when present.
func renderRegressionDiagnostics(d *model.RegressionDiagnostics) string {
	var b strings.Builder
	b.WriteString("\nREGRESSION DIAGNOSTICS\n")
	if d.ConditionNumber != nil && *d.ConditionNumber != 0 {
		fmt.Fprintf(&b, "MULTICOLLINEARITY CONDITION NUMBER %16.3f\n\n", num(*d.ConditionNumber))
	}

	b.WriteString("TEST ON NORMALITY OF ERRORS\n")
	b.WriteString(testHeader)
	fmt.Fprintf(&b, "%-27s      %2d  %14.3f        %9.4f\n\n",
		"Jarque-Bera", d.JarqueBera.DF, num(d.JarqueBera.Value), num(d.JarqueBera.PValue))

	b.WriteString("DIAGNOSTICS FOR HETEROSKEDASTICITY\n")
	b.WriteString("RANDOM COEFFICIENTS\n")
	b.WriteString(testHeader)
	writeRecord(&b, "Breusch-Pagan test", d.BreuschPagan)
	writeRecord(&b, "Koenker-Bassett test", d.KoenkerBassett)

	if d.White != nil {
		b.WriteString("\nSPECIFICATION ROBUST TEST\n")
		if d.White.Text != "" {
			b.WriteString(d.White.Text + "\n")
		} else {
			b.WriteString(testHeader)
			writeRecord(&b, "White", d.White.TestRecord)
		}
	}
	return b.String()
}

// renderSpatialDiagnostics renders the spatial dependence tests: the
// Anselin-Kelejian test for instrumented equations, otherwise Moran's I
// when available followed by the LM family.
func renderSpatialDiagnostics(s *model.SpatialDiagnostics) string {
	var b strings.Builder
	b.WriteString("\nDIAGNOSTICS FOR SPATIAL DEPENDENCE\n")

	moran := s.AnselinKelejian == nil && s.Moran != nil
	if moran {
		b.WriteString(spatialMoranHeader)
	} else {
		b.WriteString(spatialHeader)
	}

	if ak := s.AnselinKelejian; ak != nil {
		writePair(&b, "Anselin-Kelejian Test", 1, *ak)
		return b.String()
	}

	if moran {
		fmt.Fprintf(&b, "%-27s  %8.4f     %9.3f        %9.4f\n",
			"Moran's I (error)", num(s.Moran.I), num(s.Moran.Z), num(s.Moran.PValue))
	}
	lm := s.LM
	writePair(&b, "Lagrange Multiplier (lag)", 1, lm.Lag)
	writePair(&b, "Robust LM (lag)", 1, lm.RobustLag)
	writePair(&b, "Lagrange Multiplier (error)", 1, lm.Error)
	writePair(&b, "Robust LM (error)", 1, lm.RobustError)
	writePair(&b, "Lagrange Multiplier (SARMA)", 2, lm.SARMA)
	b.WriteString("\n")
	return b.String()
}

func writeRecord(b *strings.Builder, name string, r model.TestRecord) {
	fmt.Fprintf(b, testRow, name, r.DF, num(r.Value), num(r.PValue))
}

func writePair(b *strings.Builder, name string, df int, p model.TestPair) {
	fmt.Fprintf(b, testRow, name, df, num(p.Value), num(p.PValue))
}
