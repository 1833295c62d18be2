package regimes

import (
	"fmt"

	"github.com/nao1215/regreport/internal/model"
	"gonum.org/v1/gonum/mat"
)

// Chow runs the Chow test of coefficient stability across nr regimes: one
// Wald test per regime-varying variable and a joint test on every
// restriction at once.
//
// When betas is longer than the variance matrix, the extra coefficients are
// dropped first: from the global tail when kf > 0, otherwise the trailing
// column of every regime block.
func Chow(kr, kf, kryd, nr int, betas []float64, vm [][]float64) (*model.ChowTest, error) {
	if kr <= 0 || nr < 2 {
		return nil, fmt.Errorf("%w: kr=%d nr=%d", model.ErrInvalidRegimes, kr, nr)
	}
	v, err := dense(vm)
	if err != nil {
		return nil, err
	}
	k, _ := v.Dims()

	if len(betas) != k {
		if kf > 0 {
			kf -= len(betas) - k
			if len(betas) > k {
				betas = betas[:k]
			}
		} else {
			betas = trimRegimeBlocks(betas, kr, nr)
		}
	}
	if len(betas) != kr*nr+kf {
		return nil, fmt.Errorf("%w: %d coefficients for kr=%d kf=%d nr=%d",
			model.ErrDimensionMismatch, len(betas), kr, kf, nr)
	}

	out := &model.ChowTest{Regi: make([]model.TestPair, 0, kr)}
	parts := make([]*mat.Dense, 0, kr)
	for vari := range kr {
		r := BuildR1Var(vari, kr, kf, kryd, nr)
		parts = append(parts, r)
		res, err := WaldTest(betas, r, v)
		if err != nil {
			return nil, fmt.Errorf("chow test for variable %d: %w", vari, err)
		}
		out.Regi = append(out.Regi, res)
	}

	joint, err := WaldTest(betas, stack(parts), v)
	if err != nil {
		return nil, fmt.Errorf("joint chow test: %w", err)
	}
	out.Joint = joint
	return out, nil
}

// Derive computes the Chow test of a regimes setup from its coefficients
// and variance matrix.
func Derive(info *model.RegimeInfo, betas []float64, vm [][]float64) (*model.ChowTest, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: no regimes", model.ErrInvalidRegimes)
	}
	if len(vm) == 0 {
		return nil, fmt.Errorf("%w: no variance matrix", model.ErrDimensionMismatch)
	}
	kr := info.KR
	if kr == 0 {
		kr = len(info.InteractedNames())
	}
	return Chow(kr, info.KF, info.KRYD, info.Count, betas, vm)
}

func trimRegimeBlocks(betas []float64, kr, nr int) []float64 {
	kept := make([]float64, 0, kr*nr)
	for i := range nr {
		for j := i * (kr + 1); j < i*(kr+1)+kr && j < len(betas); j++ {
			kept = append(kept, betas[j])
		}
	}
	return kept
}

func dense(vm [][]float64) (*mat.Dense, error) {
	n := len(vm)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty variance matrix", model.ErrDimensionMismatch)
	}
	data := make([]float64, 0, n*n)
	for i, row := range vm {
		if len(row) != n {
			return nil, fmt.Errorf("%w: variance matrix row %d has %d columns, want %d",
				model.ErrDimensionMismatch, i, len(row), n)
		}
		data = append(data, row...)
	}
	return mat.NewDense(n, n, data), nil
}
