package report

import (
	"strings"

	"github.com/nao1215/regreport/internal/model"
)

// Capability is a set of optional report sections that apply to an
// equation.
type Capability uint32

// Capability flags, one per optional section.
const (
	// CapWeights prints the weights matrix name in the header.
	CapWeights Capability = 1 << iota
	// CapSpatialPseudoR2 reports the spatial pseudo R-squared or its omission notice.
	CapSpatialPseudoR2
	// CapFitQuality reports the goodness-of-fit block.
	CapFitQuality
	// CapIterations reports the iteration summary.
	CapIterations
	// CapOtherTop appends estimator text after the header.
	CapOtherTop
	// CapRobust prints the robust standard errors banner.
	CapRobust
	// CapInstruments lists instruments and instrumented variables.
	CapInstruments
	// CapRegimes prints the regimes variable.
	CapRegimes
	// CapChow prints the Chow test table.
	CapChow
	// CapWarning appends the equation warning.
	CapWarning
	// CapRegressionDiagnostics reports normality and heteroskedasticity tests.
	CapRegressionDiagnostics
	// CapWhite adds the specification robust White test.
	CapWhite
	// CapSpatialDiagnostics reports the spatial dependence tests.
	CapSpatialDiagnostics
	// CapMoran adds Moran's I to the spatial dependence tests.
	CapMoran
	// CapOtherMid appends estimator text after the diagnostics.
	CapOtherMid
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapWeights, "weights"},
	{CapSpatialPseudoR2, "spatial_pseudo_r2"},
	{CapFitQuality, "fit_quality"},
	{CapIterations, "iterations"},
	{CapOtherTop, "other_top"},
	{CapRobust, "robust"},
	{CapInstruments, "instruments"},
	{CapRegimes, "regimes"},
	{CapChow, "chow"},
	{CapWarning, "warning"},
	{CapRegressionDiagnostics, "regression_diagnostics"},
	{CapWhite, "white"},
	{CapSpatialDiagnostics, "spatial_diagnostics"},
	{CapMoran, "moran"},
	{CapOtherMid, "other_mid"},
}

// Has reports whether every flag of c2 is set.
func (c Capability) Has(c2 Capability) bool {
	return c&c2 == c2
}

// Names returns the section names of the set flags in report order.
func (c Capability) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, cn := range capabilityNames {
		if c.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return names
}

// String returns the set flags joined by "|".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// Resolve decides once which optional sections apply to an equation,
// from the presence of its optional fields alone. A Chow table is
// resolvable when statistics were supplied or can be derived from the
// variance matrix.
func Resolve(eq *model.Equation, robust model.RobustKind) Capability {
	var c Capability
	if eq.WeightsName != "" {
		c |= CapWeights
	}
	if eq.Rho != nil {
		c |= CapSpatialPseudoR2
	}
	if eq.Fit != nil {
		c |= CapFitQuality
	}
	if _, ok := eq.Iterations.Count(); ok {
		c |= CapIterations
	}
	if eq.OtherTop != "" {
		c |= CapOtherTop
	}
	if robust != model.RobustNone {
		c |= CapRobust
	}
	if eq.HasInstruments() {
		c |= CapInstruments
	}
	if eq.Regimes != nil {
		c |= CapRegimes
		if eq.Regimes.Chow != nil || len(eq.VM) > 0 {
			c |= CapChow
		}
	}
	if eq.Warning != "" {
		c |= CapWarning
	}
	if d := eq.Diagnostics; d != nil {
		c |= CapRegressionDiagnostics
		if d.White != nil {
			c |= CapWhite
		}
	}
	if s := eq.Spatial; s != nil && (s.AnselinKelejian != nil || s.LM != nil) {
		c |= CapSpatialDiagnostics
		if s.AnselinKelejian == nil && s.Moran != nil {
			c |= CapMoran
		}
	}
	if eq.OtherMid != "" {
		c |= CapOtherMid
	}
	return c
}
