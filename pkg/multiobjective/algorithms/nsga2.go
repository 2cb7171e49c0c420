package algorithms

import (
	"errors"
	"math"
	"math/rand/v2"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	NSGAIIName = "NSGA-II"

	DefaultCrossoverRate  = 0.9
	DefaultTournamentSize = 2

	nsgaMinPopulationSize = 2
)

// NSGAIIParameters configures NSGA-II style breeding.
type NSGAIIParameters struct {
	OptimizationParameters
	// CrossoverRate is the probability of SBX crossover.
	CrossoverRate float64
	// MutationRate is the per-gene probability of polynomial mutation.
	// 0 means 1/n for n genes.
	MutationRate float64
	// TournamentSize is the number of contestants per mate selection.
	TournamentSize int
}

// NewNSGAIIParameters returns parameters with the usual NSGA-II defaults.
func NewNSGAIIParameters(populationSize int, criteria ...framework.TerminationCriterion) NSGAIIParameters {
	return NSGAIIParameters{
		OptimizationParameters: OptimizationParameters{
			PopulationSize:      populationSize,
			TerminationCriteria: criteria,
		},
		CrossoverRate:  DefaultCrossoverRate,
		TournamentSize: DefaultTournamentSize,
	}
}

// Validate checks the parameters.
func (p *NSGAIIParameters) Validate() error {
	path := field.NewPath("parameters")
	errs := p.OptimizationParameters.validate(path, nsgaMinPopulationSize)
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		errs = append(errs, field.Invalid(path.Child("crossoverRate"), p.CrossoverRate, "must be in [0, 1]"))
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		errs = append(errs, field.Invalid(path.Child("mutationRate"), p.MutationRate, "must be in [0, 1]"))
	}
	if p.TournamentSize < 1 {
		errs = append(errs, field.Invalid(path.Child("tournamentSize"), p.TournamentSize, "must be at least 1"))
	}
	return errs.ToAggregate()
}

// NSGAIIBreeder mates every individual with a partner picked by crowded
// tournament, using SBX crossover and polynomial mutation inside the
// problem bounds.
type NSGAIIBreeder struct {
	bounds         []framework.Bounds
	crossoverRate  float64
	mutationRate   float64
	tournamentSize int
	rng            *rand.Rand
}

var _ Breeder = &NSGAIIBreeder{}

// NewNSGAII creates a generational loop breeding NSGA-II style.
func NewNSGAII(problem framework.BoundedProblem, params NSGAIIParameters, rng *rand.Rand, seeds ...*framework.Individual) (*EvolutionaryAlgorithm, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, errors.New("problem must not be nil")
	}
	bounds := problem.Bounds()
	if len(bounds) == 0 {
		return nil, errors.New("NSGA-II needs a problem with bounds")
	}

	mutationRate := params.MutationRate
	if mutationRate == 0 {
		mutationRate = 1.0 / float64(len(bounds))
	}
	breeder := &NSGAIIBreeder{
		bounds:         bounds,
		crossoverRate:  params.CrossoverRate,
		mutationRate:   mutationRate,
		tournamentSize: params.TournamentSize,
		rng:            rng,
	}
	return New(problem, breeder, params.OptimizationParameters, rng, seeds...)
}

func (n *NSGAIIBreeder) Name() string {
	return NSGAIIName
}

func (n *NSGAIIBreeder) MinPopulationSize() int {
	return nsgaMinPopulationSize
}

// SelectParents takes the whole population; every member breeds once.
func (n *NSGAIIBreeder) SelectParents(gen *framework.Generation) []int {
	parents := make([]int, gen.Len())
	for i := range parents {
		parents[i] = i
	}
	return parents
}

// CreateOffspring produces one child per parent. The mate is chosen by
// tournament among the parents, so a parent is never lost without a child
// taking its place.
func (n *NSGAIIBreeder) CreateOffspring(gen *framework.Generation, parents []int) ([]*framework.Offspring, error) {
	if len(parents) < nsgaMinPopulationSize {
		return nil, errors.New("NSGA-II needs at least 2 parents")
	}

	pool := make([]*framework.ParetoEvaluatedIndividual, len(parents))
	for i, idx := range parents {
		pool[i] = gen.At(idx)
	}
	distances := framework.CrowdingDistancesByRank(pool)

	offspring := make([]*framework.Offspring, len(parents))
	for k, xIdx := range parents {
		mate := n.tournamentSelect(pool, distances)
		genes := n.crossover(pool[k], pool[mate])
		n.mutate(genes)

		if parents[mate] == xIdx {
			offspring[k] = framework.NewOffspring(genes, xIdx)
		} else {
			offspring[k] = framework.NewOffspring(genes, xIdx, parents[mate])
		}
	}
	return offspring, nil
}

// tournamentSelect prefers lower rank, then larger crowding distance.
func (n *NSGAIIBreeder) tournamentSelect(pool []*framework.ParetoEvaluatedIndividual, distances []float64) int {
	best := n.rng.IntN(len(pool))

	for i := 1; i < n.tournamentSize; i++ {
		contestant := n.rng.IntN(len(pool))
		if pool[contestant].Rank() < pool[best].Rank() ||
			(pool[contestant].Rank() == pool[best].Rank() && distances[contestant] > distances[best]) {
			best = contestant
		}
	}

	return best
}

// crossover performs SBX (Simulated Binary Crossover) and returns the first
// child.
func (n *NSGAIIBreeder) crossover(parent1, parent2 *framework.ParetoEvaluatedIndividual) []float64 {
	child := make([]float64, parent1.Len())

	if n.rng.Float64() < n.crossoverRate {
		for i := range child {
			beta := 0.0
			if n.rng.Float64() <= 0.5 {
				beta = math.Pow(2*n.rng.Float64(), 1.0/3.0)
			} else {
				beta = math.Pow(1.0/(2*(1.0-n.rng.Float64())), 1.0/3.0)
			}

			child[i] = 0.5 * ((1+beta)*parent1.Gene(i) + (1-beta)*parent2.Gene(i))

			// Bound checking
			child[i] = n.bounds[i].Clamp(child[i])
		}
	} else {
		for i := range child {
			child[i] = parent1.Gene(i)
		}
	}

	return child
}

// mutate performs polynomial mutation.
func (n *NSGAIIBreeder) mutate(genes []float64) {
	for i := range genes {
		if n.rng.Float64() < n.mutationRate {
			delta := 0.0
			if n.rng.Float64() <= 0.5 {
				delta = math.Pow(2*n.rng.Float64(), 1.0/3.0) - 1
			} else {
				delta = 1 - math.Pow(2*(1-n.rng.Float64()), 1.0/3.0)
			}

			genes[i] += delta * (n.bounds[i].H - n.bounds[i].L)
			genes[i] = n.bounds[i].Clamp(genes[i])
		}
	}
}
