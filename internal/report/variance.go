package report

import (
	"fmt"
	"strings"

	"github.com/nao1215/regreport/internal/model"
)

// renderVarianceMatrix renders the full coefficient variance matrix under
// a row of parameter names. Every cell is printed; nothing is truncated.
func renderVarianceMatrix(names []string, vm [][]float64) (string, error) {
	if len(vm) == 0 {
		return "", model.ErrMissingVarianceMatrix
	}
	cols := len(vm[0])
	for i, row := range vm {
		if len(row) != cols {
			return "", fmt.Errorf("%w: variance matrix row %d has %d columns, want %d",
				model.ErrDimensionMismatch, i, len(row), cols)
		}
	}
	if len(names) != cols {
		return "", fmt.Errorf("%w: %d names for a %dx%d variance matrix",
			model.ErrDimensionMismatch, len(names), len(vm), cols)
	}

	var b strings.Builder
	b.WriteString("\nCOEFFICIENTS VARIANCE MATRIX\n")
	b.WriteString("----------------------------\n")
	for _, name := range names {
		fmt.Fprintf(&b, "%12s", name)
	}
	b.WriteString("\n")
	for _, row := range vm {
		for _, cell := range row {
			fmt.Fprintf(&b, "%12.6f", num(cell))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
