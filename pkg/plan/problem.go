package plan

import "fmt"

// ConstraintOp is the kind of bound a rule places on a variable.
type ConstraintOp int

const (
	Unconstrained ConstraintOp = iota
	Less
	Equal
	Greater
)

func (op ConstraintOp) String() string {
	switch op {
	case Unconstrained:
		return "Unconstrained"
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Unknown"
	}
}

// Constraint is a single scalar bound on one variable's solved value.
type Constraint struct {
	Op        ConstraintOp
	Threshold float64
}

// LessThan bounds a variable to at most threshold.
func LessThan(threshold float64) Constraint {
	return Constraint{Op: Less, Threshold: threshold}
}

// EqualTo pins a variable to exactly threshold.
func EqualTo(threshold float64) Constraint {
	return Constraint{Op: Equal, Threshold: threshold}
}

// GreaterThan bounds a variable to at least threshold.
func GreaterThan(threshold float64) Constraint {
	return Constraint{Op: Greater, Threshold: threshold}
}

// NoConstraint emits no bound, but still marks the variable as explicitly
// ruled: a resource carrying it is exempt from default balance and may run a
// free surplus or deficit.
func NoConstraint() Constraint {
	return Constraint{Op: Unconstrained}
}

func (c Constraint) String() string {
	if c.Op == Unconstrained {
		return "Unconstrained"
	}
	return fmt.Sprintf("%s(%g)", c.Op, c.Threshold)
}

// Rule applies one constraint to one variable.
type Rule struct {
	Variable   VariableID
	Constraint Constraint
}

// RuleList is an ordered set of rules, as composed by a caller or loaded from
// a rule-list document.
type RuleList struct {
	Rules []Rule
}

// Optimization weights one variable in the objective.
type Optimization struct {
	Variable    VariableID
	Coefficient float64
}

// Problem is the input to one solve: the rules to satisfy and the sparse
// objective to maximize. Variables absent from Optimizations have
// coefficient 0.
type Problem struct {
	Rules         []Rule
	Optimizations []Optimization
}
