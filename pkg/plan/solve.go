package plan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/chainplan/pkg/lp"
)

// solutionPrecision is the number of decimal places kept in solved recipe
// throughputs.
const solutionPrecision = 6

// Solve translates the problem into a linear program over the world, solves
// it, and extracts the recipe throughputs as a Factory.
//
// The program has one free variable per resource (its net flow) and one
// variable per recipe (its throughput, bounded at 0). Constraints are added
// in a fixed order so that solver tie-breaking is reproducible:
// conservation equalities, then user rules in input order, then default
// balance for every resource neither a rule nor the objective mentions.
//
// Infeasible and unbounded programs surface as lp.ErrInfeasible and
// lp.ErrUnbounded.
func (p *Problem) Solve(world *World) (*Factory, error) {
	prob := lp.New(lp.Maximize)

	// Sparse objective: rules and optimizations address variables by id,
	// everything else gets coefficient 0. A variable listed twice keeps
	// the last coefficient.
	// A resource the caller addresses directly, by rule or by objective,
	// keeps a free net flow; everything else is balanced to zero below.
	balanceByDefault := make([]bool, len(world.Resources))
	for i := range balanceByDefault {
		balanceByDefault[i] = true
	}

	resourceCoefficients := make([]float64, len(world.Resources))
	recipeCoefficients := make([]float64, len(world.Recipes))
	for _, opt := range p.Optimizations {
		switch opt.Variable.Kind {
		case VariableResource:
			resourceCoefficients[opt.Variable.Resource] = opt.Coefficient
			balanceByDefault[opt.Variable.Resource] = false
		case VariableRecipe:
			recipeCoefficients[opt.Variable.Recipe] = opt.Coefficient
		default:
			panic(fmt.Sprintf("plan: unknown variable kind %d", opt.Variable.Kind))
		}
	}

	resourceVariables := make([]lp.Variable, len(world.Resources))
	for i, coefficient := range resourceCoefficients {
		resourceVariables[i] = prob.AddVariable(coefficient, lp.Free())
	}

	recipeVariables := make([]lp.Variable, len(world.Recipes))
	for i, coefficient := range recipeCoefficients {
		recipeVariables[i] = prob.AddVariable(coefficient, lp.NonNegative())
	}

	// Conservation: a resource's net flow is the sum of every recipe that
	// touches it, weighted by throughput.
	conservation := make([][]lp.Term, len(world.Resources))
	for recipeIndex, recipe := range world.Recipes {
		for _, entry := range recipe.Rates {
			conservation[entry.Resource] = append(conservation[entry.Resource], lp.Term{
				Variable:    recipeVariables[recipeIndex],
				Coefficient: entry.Rate,
			})
		}
	}
	for resourceIndex := range world.Resources {
		terms := append(conservation[resourceIndex], lp.Term{
			Variable:    resourceVariables[resourceIndex],
			Coefficient: -1,
		})
		prob.AddConstraint(terms, lp.EQ, 0)
	}

	// User rules. Any rule naming a resource, including an unconstrained
	// one, exempts that resource from default balance.
	for _, rule := range p.Rules {
		if rule.Variable.Kind == VariableResource {
			balanceByDefault[rule.Variable.Resource] = false
		}

		var op lp.Op
		switch rule.Constraint.Op {
		case Less:
			op = lp.LE
		case Equal:
			op = lp.EQ
		case Greater:
			op = lp.GE
		case Unconstrained:
			continue
		default:
			panic(fmt.Sprintf("plan: unknown constraint op %d", rule.Constraint.Op))
		}

		var variable lp.Variable
		switch rule.Variable.Kind {
		case VariableResource:
			variable = resourceVariables[rule.Variable.Resource]
		case VariableRecipe:
			variable = recipeVariables[rule.Variable.Recipe]
		default:
			panic(fmt.Sprintf("plan: unknown variable kind %d", rule.Variable.Kind))
		}

		prob.AddConstraint([]lp.Term{{Variable: variable, Coefficient: 1}}, op, rule.Constraint.Threshold)
	}

	// Default balance: every remaining resource may not accumulate a
	// surplus or run a deficit.
	for resourceIndex, balance := range balanceByDefault {
		if !balance {
			continue
		}
		prob.AddConstraint([]lp.Term{{
			Variable:    resourceVariables[resourceIndex],
			Coefficient: 1,
		}}, lp.EQ, 0)
	}

	solution, err := prob.Solve()
	if err != nil {
		return nil, err
	}

	factory := &Factory{}
	for recipeIndex, variable := range recipeVariables {
		// Keep throughputs to six decimal places; anything that rounds
		// to zero is treated as an inactive recipe and omitted.
		rounded := decimal.NewFromFloat(solution.Value(variable)).Round(solutionPrecision)
		if rounded.IsZero() {
			continue
		}
		rate, _ := rounded.Float64()
		factory.Recipes = append(factory.Recipes, RecipeRate{
			Recipe: RecipeID(recipeIndex),
			Rate:   rate,
		})
	}

	return factory, nil
}
