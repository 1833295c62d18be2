package regimes

import (
	"errors"
	"fmt"
	"math"

	"github.com/nao1215/regreport/internal/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrSingular is returned when R V R' cannot be inverted.
var ErrSingular = errors.New("restriction covariance matrix is singular")

// WaldTest computes the chi-square Wald statistic for the restrictions
// R b = 0, with rows(R) degrees of freedom.
func WaldTest(betas []float64, r, vm mat.Matrix) (model.TestPair, error) {
	rows, cols := r.Dims()
	if cols != len(betas) {
		return model.TestPair{}, fmt.Errorf("%w: restriction matrix has %d columns for %d coefficients",
			model.ErrDimensionMismatch, cols, len(betas))
	}
	if vr, vc := vm.Dims(); vr != cols || vc != cols {
		return model.TestPair{}, fmt.Errorf("%w: variance matrix is %dx%d, want %dx%d",
			model.ErrDimensionMismatch, vr, vc, cols, cols)
	}

	b := mat.NewVecDense(len(betas), betas)
	var rb mat.VecDense
	rb.MulVec(r, b)

	var rv, rvr mat.Dense
	rv.Mul(r, vm)
	rvr.Mul(&rv, r.T())

	var inv mat.Dense
	if err := inv.Inverse(&rvr); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return model.TestPair{}, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	var tmp mat.VecDense
	tmp.MulVec(&inv, &rb)
	w := mat.Dot(&rb, &tmp)

	chi := distuv.ChiSquared{K: float64(rows)}
	return model.TestPair{Value: w, PValue: chi.Survival(w)}, nil
}

// BuildR1Var builds the restriction matrix testing that variable vari has
// the same coefficient in every regime. Coefficients are laid out as kr
// regime-varying columns per regime (exogenous first, then kryd endogenous
// ones) followed by kf global columns.
func BuildR1Var(vari, kr, kf, kryd, nr int) *mat.Dense {
	ncols := kr*nr + kf
	nrows := nr - 1
	r := mat.NewDense(nrows, ncols, nil)

	krexog := kr - kryd
	krj, cbeg := krexog, vari
	if vari >= krexog {
		krj = kryd
		cbeg = krexog*(nr-1) + vari
	}
	for j := range nrows {
		r.Set(j, cbeg, 1)
		r.Set(j, krj+cbeg+j*krj, -1)
	}
	return r
}

// BuildR stacks BuildR1Var for every regime-varying exogenous variable.
func BuildR(kr, kf, nr int) *mat.Dense {
	parts := make([]*mat.Dense, 0, kr)
	for vari := range kr {
		parts = append(parts, BuildR1Var(vari, kr, kf, 0, nr))
	}
	return stack(parts)
}

func stack(parts []*mat.Dense) *mat.Dense {
	if len(parts) == 0 {
		return nil
	}
	_, cols := parts[0].Dims()
	total := 0
	for _, p := range parts {
		r, _ := p.Dims()
		total += r
	}
	out := mat.NewDense(total, cols, nil)
	row := 0
	for _, p := range parts {
		r, _ := p.Dims()
		out.Slice(row, row+r, 0, cols).(*mat.Dense).Copy(p)
		row += r
	}
	return out
}
