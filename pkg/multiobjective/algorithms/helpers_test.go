package algorithms

import (
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// funcProblem is a configurable oracle for tests.
type funcProblem struct {
	numVars  int
	fitness  func(*framework.Individual) ([]float64, error)
	feasible func(*framework.Individual) bool
}

func (p *funcProblem) Name() string { return "func" }

func (p *funcProblem) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	return p.fitness(ind)
}

func (p *funcProblem) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, framework.UniformBounds(p.numVars, -1, 1))
}

func (p *funcProblem) IsFeasible(ind *framework.Individual) bool {
	if p.feasible == nil {
		return true
	}
	return p.feasible(ind)
}

func sumOfSquares(ind *framework.Individual) ([]float64, error) {
	sum := 0.0
	for i := 0; i < ind.Len(); i++ {
		sum += ind.Gene(i) * ind.Gene(i)
	}
	return []float64{sum}, nil
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// generationOf ranks the given fitness vectors; genes are the vector index.
func generationOf(points ...framework.ObjectiveSpacePoint) *framework.Generation {
	pop := make([]*framework.EvaluatedIndividual, len(points))
	for i, p := range points {
		pop[i] = framework.NewIndividual(float64(i)).Evaluate(p)
	}
	return framework.NewGeneration(framework.NonDominatedSort(pop))
}
