// Package lp provides a small linear-programming layer: callers declare
// continuous variables with bounds and objective coefficients, add linear
// constraints, and solve for an optimal assignment. The simplex itself is
// delegated to gonum after conversion to standard form.
package lp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Direction selects whether the objective is maximized or minimized.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// Op is the comparison operator of a linear constraint.
type Op int

const (
	LE Op = iota
	EQ
	GE
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	default:
		return "Unknown"
	}
}

var (
	// ErrInfeasible is returned when no assignment satisfies every constraint.
	ErrInfeasible = errors.New("Infeasible")
	// ErrUnbounded is returned when the objective can improve without limit.
	ErrUnbounded = errors.New("Unbounded")
)

// Variable is a handle to one decision variable. Handles are only valid for
// the Problem that created them.
type Variable int

// Bounds restricts the range a variable may take.
type Bounds struct {
	lower float64
}

// NonNegative bounds a variable to [0, +inf).
func NonNegative() Bounds { return Bounds{lower: 0} }

// Free leaves a variable unbounded in both directions.
func Free() Bounds { return Bounds{lower: math.Inf(-1)} }

func (b Bounds) free() bool { return math.IsInf(b.lower, -1) }

// Term is one coefficient*variable entry of a linear expression.
type Term struct {
	Variable    Variable
	Coefficient float64
}

type constraint struct {
	terms []Term
	op    Op
	rhs   float64
}

// Problem accumulates variables and constraints for a single solve.
// Construction order is preserved through the standard-form conversion, so a
// caller that adds variables and constraints in a fixed order gets a
// reproducible simplex tableau.
type Problem struct {
	direction   Direction
	objective   []float64
	bounds      []Bounds
	constraints []constraint
}

// New creates an empty problem optimizing in the given direction.
func New(direction Direction) *Problem {
	return &Problem{direction: direction}
}

// AddVariable declares a continuous variable with the given objective
// coefficient and bounds, returning its handle.
func (p *Problem) AddVariable(objCoefficient float64, bounds Bounds) Variable {
	p.objective = append(p.objective, objCoefficient)
	p.bounds = append(p.bounds, bounds)
	return Variable(len(p.objective) - 1)
}

// AddConstraint adds the linear constraint sum(terms) op rhs. The terms slice
// is copied; callers may reuse it.
func (p *Problem) AddConstraint(terms []Term, op Op, rhs float64) {
	c := constraint{terms: make([]Term, len(terms)), op: op, rhs: rhs}
	copy(c.terms, terms)
	p.constraints = append(p.constraints, c)
}

// NumVariables returns the number of declared variables.
func (p *Problem) NumVariables() int { return len(p.objective) }

// NumConstraints returns the number of added constraints.
func (p *Problem) NumConstraints() int { return len(p.constraints) }

// Solution holds the optimal assignment of one solved Problem.
type Solution struct {
	values    []float64
	objective float64
}

// Value returns the solved value of a variable.
func (s *Solution) Value(v Variable) float64 { return s.values[v] }

// Objective returns the optimal objective value in the problem's direction.
func (s *Solution) Objective() float64 { return s.objective }

// standardForm is the problem rewritten as minimize c*x, A*x = b, x >= 0.
// Free variables are split into positive and negative parts; inequality rows
// gain a slack or surplus column.
type standardForm struct {
	c []float64
	a []float64 // row-major, rows x cols
	b []float64

	rows, cols int

	// posCol[i] and negCol[i] are the standard-form columns holding the
	// positive and negative parts of variable i. negCol is -1 for
	// variables that are non-negative natively.
	posCol []int
	negCol []int
}

func (p *Problem) toStandardForm() *standardForm {
	sf := &standardForm{
		posCol: make([]int, len(p.bounds)),
		negCol: make([]int, len(p.bounds)),
	}

	for i, b := range p.bounds {
		sf.posCol[i] = sf.cols
		sf.cols++
		if b.free() {
			sf.negCol[i] = sf.cols
			sf.cols++
		} else {
			sf.negCol[i] = -1
		}
	}
	varCols := sf.cols
	for _, c := range p.constraints {
		if c.op != EQ {
			sf.cols++ // slack or surplus column
		}
	}

	sign := 1.0
	if p.direction == Maximize {
		sign = -1.0 // gonum minimizes
	}
	sf.c = make([]float64, sf.cols)
	for i, coeff := range p.objective {
		sf.c[sf.posCol[i]] = sign * coeff
		if sf.negCol[i] >= 0 {
			sf.c[sf.negCol[i]] = -sign * coeff
		}
	}

	sf.rows = len(p.constraints)
	sf.a = make([]float64, sf.rows*sf.cols)
	sf.b = make([]float64, sf.rows)

	extra := 0
	for row, c := range p.constraints {
		base := row * sf.cols
		for _, t := range c.terms {
			sf.a[base+sf.posCol[t.Variable]] += t.Coefficient
			if neg := sf.negCol[t.Variable]; neg >= 0 {
				sf.a[base+neg] -= t.Coefficient
			}
		}
		switch c.op {
		case LE:
			sf.a[base+varCols+extra] = 1
			extra++
		case GE:
			sf.a[base+varCols+extra] = -1
			extra++
		case EQ:
		}
		sf.b[row] = c.rhs
	}

	// Simplex phase 1 expects b >= 0; equalities negate freely and the
	// slack columns were already folded into the rows above.
	for row := range sf.b {
		if sf.b[row] < 0 {
			sf.b[row] = -sf.b[row]
			base := row * sf.cols
			for col := 0; col < sf.cols; col++ {
				sf.a[base+col] = -sf.a[base+col]
			}
		}
	}

	return sf
}

const presolveTol = 1e-9

// dropDependentRows removes rows that are scalar multiples of an earlier row,
// which gonum's simplex would otherwise reject as a singular system. A
// multiple with a matching right-hand side is redundant; a mismatched one has
// no solution. Only equality rows can collide this way: every inequality row
// owns its slack or surplus column.
func (sf *standardForm) dropDependentRows() error {
	kept := 0
	for row := 0; row < sf.rows; row++ {
		r := sf.a[row*sf.cols : (row+1)*sf.cols]

		if rowIsZero(r) {
			if math.Abs(sf.b[row]) > presolveTol {
				return ErrInfeasible
			}
			continue
		}

		redundant := false
		for prev := 0; prev < kept; prev++ {
			base := sf.a[prev*sf.cols : (prev+1)*sf.cols]
			factor, ok := rowFactor(base, r)
			if !ok {
				continue
			}
			if math.Abs(sf.b[row]-factor*sf.b[prev]) > presolveTol {
				return ErrInfeasible
			}
			redundant = true
			break
		}
		if redundant {
			continue
		}

		if kept != row {
			copy(sf.a[kept*sf.cols:(kept+1)*sf.cols], r)
			sf.b[kept] = sf.b[row]
		}
		kept++
	}

	sf.rows = kept
	sf.a = sf.a[:kept*sf.cols]
	sf.b = sf.b[:kept]
	return nil
}

func rowIsZero(row []float64) bool {
	for _, v := range row {
		if math.Abs(v) > presolveTol {
			return false
		}
	}
	return true
}

// rowFactor reports the scalar f with candidate == f*base, if one exists.
func rowFactor(base, candidate []float64) (float64, bool) {
	var factor float64
	haveFactor := false
	for col := range base {
		bv, cv := base[col], candidate[col]
		switch {
		case math.Abs(bv) <= presolveTol && math.Abs(cv) <= presolveTol:
			continue
		case math.Abs(bv) <= presolveTol || math.Abs(cv) <= presolveTol:
			return 0, false
		}
		f := cv / bv
		if !haveFactor {
			factor = f
			haveFactor = true
			continue
		}
		if math.Abs(f-factor) > presolveTol*math.Max(1, math.Abs(factor)) {
			return 0, false
		}
	}
	return factor, haveFactor
}

// Solve finds an optimal assignment, or reports ErrInfeasible or ErrUnbounded.
func (p *Problem) Solve() (*Solution, error) {
	sf := p.toStandardForm()
	if err := sf.dropDependentRows(); err != nil {
		return nil, err
	}

	// A column that appears in no constraint cannot be handed to the
	// simplex. Its variable either drives the objective to infinity or
	// sits at zero. The unbounded verdict waits until the rest of the
	// system is known feasible: an infeasible program stays infeasible no
	// matter how far a free column can run.
	unbounded := false
	keep := make([]int, 0, sf.cols)
	colUsed := make([]bool, sf.cols)
	for row := 0; row < sf.rows; row++ {
		base := row * sf.cols
		for col := 0; col < sf.cols; col++ {
			if sf.a[base+col] != 0 {
				colUsed[col] = true
			}
		}
	}
	for col := 0; col < sf.cols; col++ {
		if !colUsed[col] {
			if sf.c[col] < 0 {
				unbounded = true
			}
			continue
		}
		keep = append(keep, col)
	}

	values := make([]float64, sf.cols)
	var objective float64

	if sf.rows > 0 && len(keep) > 0 {
		c := make([]float64, len(keep))
		data := make([]float64, sf.rows*len(keep))
		for j, col := range keep {
			c[j] = sf.c[col]
			for row := 0; row < sf.rows; row++ {
				data[row*len(keep)+j] = sf.a[row*sf.cols+col]
			}
		}
		a := mat.NewDense(sf.rows, len(keep), data)

		_, optX, err := lp.Simplex(c, a, sf.b, 0, nil)
		if err != nil {
			switch {
			case errors.Is(err, lp.ErrInfeasible):
				return nil, ErrInfeasible
			case errors.Is(err, lp.ErrUnbounded):
				return nil, ErrUnbounded
			default:
				return nil, fmt.Errorf("simplex failed: %w", err)
			}
		}
		for j, col := range keep {
			values[col] = optX[j]
		}
	} else if sf.rows > 0 {
		// Constraints remain but every column vanished: each row is
		// satisfiable only with a zero right-hand side.
		for _, rhs := range sf.b {
			if rhs != 0 {
				return nil, ErrInfeasible
			}
		}
	}

	if unbounded {
		return nil, ErrUnbounded
	}

	sol := &Solution{values: make([]float64, len(p.objective))}
	for i := range p.objective {
		v := values[sf.posCol[i]]
		if neg := sf.negCol[i]; neg >= 0 {
			v -= values[neg]
		}
		sol.values[i] = v
		objective += p.objective[i] * v
	}
	sol.objective = objective

	return sol, nil
}
