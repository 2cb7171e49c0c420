package algorithms

import (
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// Survival is the outcome of comparing one offspring against its parents.
type Survival struct {
	// Feasible is false when the problem rejected the offspring.
	Feasible bool
	// Admitted reports whether the offspring enters the candidate pool.
	Admitted bool
	// Parents are the positions of the parents carried over unchanged.
	Parents []int
}

// SelectSurvivors decides whether child replaces any of its parents in gen.
// An infeasible child is dropped and all its parents survive. Otherwise every
// parent the child does not dominate survives, and the child is admitted only
// if it dominates at least one parent. With a single objective dominance is
// plain "less than", so a lineage never gets worse.
func SelectSurvivors(problem framework.Problem, child *framework.EvaluatedOffspring, gen *framework.Generation) Survival {
	parents := child.Parents()
	if !problem.IsFeasible(child.Individual) {
		return Survival{Parents: parents}
	}

	s := Survival{Feasible: true}
	for _, idx := range parents {
		if child.ParetoDominates(gen.At(idx).EvaluatedIndividual) {
			s.Admitted = true
			continue
		}
		s.Parents = append(s.Parents, idx)
	}
	return s
}
