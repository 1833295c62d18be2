package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEquation(t *testing.T) {
	t.Parallel()

	t.Run("Betas follow the original index", func(t *testing.T) {
		t.Parallel()

		eq := &Equation{Parameters: []Parameter{
			{Name: "b", Index: intPtr(2), Coefficient: 3},
			{Name: "c", Index: intPtr(0), Coefficient: 1},
			{Name: "a", Index: intPtr(1), Coefficient: 2},
		}}
		if diff := cmp.Diff([]float64{1, 2, 3}, eq.Betas()); diff != "" {
			t.Errorf("Betas() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Position falls back to storage order", func(t *testing.T) {
		t.Parallel()

		if got := (Parameter{}).Position(4); got != 4 {
			t.Errorf("Position() = %d, want 4", got)
		}
		if got := (Parameter{Index: intPtr(1)}).Position(4); got != 1 {
			t.Errorf("Position() = %d, want 1", got)
		}
	})

	t.Run("RhoInBounds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			rho  *float64
			want bool
		}{
			{rho: nil, want: false},
			{rho: floatPtr(0.99), want: true},
			{rho: floatPtr(-0.5), want: true},
			{rho: floatPtr(1), want: false},
			{rho: floatPtr(-1.02), want: false},
		}
		for _, tt := range tests {
			if got := (&Equation{Rho: tt.rho}).RhoInBounds(); got != tt.want {
				t.Errorf("RhoInBounds(%v) = %v, want %v", tt.rho, got, tt.want)
			}
		}
	})

	t.Run("HasInstruments needs both lists", func(t *testing.T) {
		t.Parallel()

		if (&Equation{NameQ: []string{"z"}}).HasInstruments() {
			t.Error("expected false without instrumented names")
		}
		if !(&Equation{NameQ: []string{"z"}, NameYend: []string{"y"}}).HasInstruments() {
			t.Error("expected true with both lists")
		}
	})

	t.Run("VarianceNames prefer name_z", func(t *testing.T) {
		t.Parallel()

		eq := &Equation{NameX: []string{"x"}, NameZ: []string{"x", "yend"}}
		if diff := cmp.Diff([]string{"x", "yend"}, eq.VarianceNames()); diff != "" {
			t.Errorf("VarianceNames() mismatch (-want +got):\n%s", diff)
		}
		eq.NameZ = nil
		if diff := cmp.Diff([]string{"x"}, eq.VarianceNames()); diff != "" {
			t.Errorf("VarianceNames() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFittedModel(t *testing.T) {
	t.Parallel()

	lambda := func(id string, n int) *Equation {
		eq := &Equation{ID: id, Title: "eq " + id, DatasetName: "ds " + id}
		for range n {
			eq.Parameters = append(eq.Parameters, Parameter{Type: VarLambda})
		}
		return eq
	}

	t.Run("LambdaCount spans equations", func(t *testing.T) {
		t.Parallel()

		m := &FittedModel{Equations: []*Equation{lambda("1", 1), lambda("2", 2)}}
		if got := m.LambdaCount(); got != 3 {
			t.Errorf("LambdaCount() = %d, want 3", got)
		}
	})

	t.Run("title and dataset fall back to the first equation", func(t *testing.T) {
		t.Parallel()

		m := &FittedModel{Equations: []*Equation{lambda("1", 0), lambda("2", 0)}}
		if got := m.ReportTitle(); got != "eq 1" {
			t.Errorf("ReportTitle() = %q, want %q", got, "eq 1")
		}
		if got := m.ReportDataset(); got != "ds 1" {
			t.Errorf("ReportDataset() = %q, want %q", got, "ds 1")
		}

		m.Title = "SUR"
		if got := m.ReportTitle(); got != "SUR" {
			t.Errorf("ReportTitle() = %q, want %q", got, "SUR")
		}
	})

	t.Run("ReportableEquations keys multi-equation models", func(t *testing.T) {
		t.Parallel()

		single := &FittedModel{Equation: Equation{Title: "one"}}
		eqs := single.ReportableEquations()
		if len(eqs) != 1 {
			t.Fatalf("expected 1 equation, got %d", len(eqs))
		}
		if _, keyed := eqs[0].Key(); keyed {
			t.Error("expected standalone equation to be unkeyed")
		}
		if eqs[0].Equation() != &single.Equation {
			t.Error("expected standalone equation to be the embedded one")
		}

		multi := &FittedModel{Equations: []*Equation{lambda("b", 0), lambda("a", 0)}}
		var ids []string
		for _, re := range multi.ReportableEquations() {
			id, keyed := re.Key()
			if !keyed {
				t.Errorf("expected equation %s to be keyed", id)
			}
			ids = append(ids, id)
		}
		if diff := cmp.Diff([]string{"b", "a"}, ids); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRegimeInfoInteractedNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info RegimeInfo
		want []string
	}{
		{
			name: "every column varies",
			info: RegimeInfo{Names: []string{"CONSTANT", "x1", "x2"}},
			want: []string{"x1", "x2"},
		},
		{
			name: "constant per regime",
			info: RegimeInfo{Names: []string{"CONSTANT", "x1", "x2"}, Constant: ConstantMany},
			want: []string{"CONSTANT", "x1", "x2"},
		},
		{
			name: "filtered by cols2regi",
			info: RegimeInfo{Names: []string{"CONSTANT", "x1", "x2"}, Cols2Regi: []bool{false, true}, Constant: ConstantOne},
			want: []string{"x2"},
		},
		{
			name: "constant only",
			info: RegimeInfo{Names: []string{"CONSTANT"}, Constant: ConstantMany},
			want: []string{"CONSTANT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.info.InteractedNames()); diff != "" {
				t.Errorf("InteractedNames() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResultChowTables(t *testing.T) {
	t.Parallel()

	eqChow := &ChowResult{EquationID: "1"}
	global := &ChowResult{Rows: []ChowRow{{Name: "x"}, {Name: ChowGlobalName, DF: 4}}}
	r := &Result{
		Equations:  []EquationSummary{{ID: "1", Chow: eqChow}, {ID: "2"}},
		GlobalChow: global,
	}

	tables := r.ChowTables()
	if len(tables) != 2 || tables[0] != eqChow || tables[1] != global {
		t.Errorf("unexpected chow tables: %+v", tables)
	}
	if got := global.Global().DF; got != 4 {
		t.Errorf("Global().DF = %d, want 4", got)
	}
	if got := (*ChowResult)(nil).Global(); got != (ChowRow{}) {
		t.Errorf("expected zero row for nil table, got %+v", got)
	}
}
