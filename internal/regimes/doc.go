// Package regimes implements the regime helpers of the report engine: the
// Chow test of coefficient stability across regimes, computed as Wald
// tests on the coefficient vector, and the naming of regime-interacted
// coefficients.
package regimes
