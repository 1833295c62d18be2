package model

// ReportableEquation is an equation as seen by the report composer. A
// standalone model yields exactly one unkeyed equation; a multi-equation
// model yields one keyed equation per equation id.
type ReportableEquation interface {
	// Key returns the equation id and whether the equation is keyed.
	Key() (string, bool)

	// Equation returns the fitted equation.
	Equation() *Equation
}

type standaloneEquation struct {
	eq *Equation
}

func (s standaloneEquation) Key() (string, bool) { return "", false }
func (s standaloneEquation) Equation() *Equation { return s.eq }

type keyedEquation struct {
	id string
	eq *Equation
}

func (k keyedEquation) Key() (string, bool) { return k.id, true }
func (k keyedEquation) Equation() *Equation { return k.eq }

// ReportableEquations returns the equations of the model in document order.
func (m *FittedModel) ReportableEquations() []ReportableEquation {
	if !m.IsMultiEquation() {
		return []ReportableEquation{standaloneEquation{eq: &m.Equation}}
	}
	eqs := make([]ReportableEquation, 0, len(m.Equations))
	for _, eq := range m.Equations {
		eqs = append(eqs, keyedEquation{id: eq.ID, eq: eq})
	}
	return eqs
}
