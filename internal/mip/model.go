// Package mip builds and solves the mixed-integer program described in
// spec §4.5: the decision variables, linear/linearized constraints,
// and four-term objective that turn a feasibility-checked request into
// a per-day facility/patient assignment.
package mip

// VarKind distinguishes continuous from integer (including binary)
// decision variables for branch-and-bound.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

// Variable is one decision variable in the model, with the bounds
// branch-and-bound tightens as it explores the search tree.
type Variable struct {
	Name string
	Kind VarKind
	LB   float64
	UB   float64
}

// Sense is the relational operator of a linear constraint.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Constraint is one row of the model: a sparse linear combination of
// variables related to a right-hand side.
type Constraint struct {
	Name   string
	Coeffs map[int]float64 // variable index -> coefficient
	Sense  Sense
	RHS    float64
}

// Model is the full MIP: variables, constraints, and a minimization
// objective, built in the deterministic order spec §5 requires
// (providers, facilities, days in index order; pair variables in
// (f1,f2) lexicographic order).
type Model struct {
	Vars        []Variable
	Constraints []Constraint
	Objective   map[int]float64 // variable index -> coefficient, minimize
}

// NewModel returns an empty model ready for variable/constraint
// registration.
func NewModel() *Model {
	return &Model{Objective: make(map[int]float64)}
}

// AddVar registers a new variable and returns its index.
func (m *Model) AddVar(name string, kind VarKind, lb, ub float64) int {
	m.Vars = append(m.Vars, Variable{Name: name, Kind: kind, LB: lb, UB: ub})
	return len(m.Vars) - 1
}

// AddConstraint registers a new constraint row.
func (m *Model) AddConstraint(name string, coeffs map[int]float64, sense Sense, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs})
}

// AddObjective adds coeff*var[idx] to the minimization objective.
func (m *Model) AddObjective(idx int, coeff float64) {
	if coeff == 0 {
		return
	}
	m.Objective[idx] += coeff
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int { return len(m.Vars) }

// NumConstraints returns the number of constraint rows.
func (m *Model) NumConstraints() int { return len(m.Constraints) }
