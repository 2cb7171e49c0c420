package benchmarks

import (
	"fmt"
	"math"
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	DTLZ2Name = "dtlz2"
)

// DTLZ2 has a spherical Pareto front
// It's scalable to any number of objectives and has no local fronts.
type DTLZ2 struct {
	numVars       int
	numObjectives int
}

func NewDTLZ2(numVars, numObjectives int) (*DTLZ2, error) {
	// Recommended: numVars = numObjectives + k - 1, where k = 10 for DTLZ2
	if numObjectives < 2 {
		return nil, fmt.Errorf("%s needs at least 2 objectives, got %d", DTLZ2Name, numObjectives)
	}
	if numVars < numObjectives {
		return nil, fmt.Errorf("%s needs at least as many variables as objectives, got %d < %d", DTLZ2Name, numVars, numObjectives)
	}
	return &DTLZ2{
		numVars:       numVars,
		numObjectives: numObjectives,
	}, nil
}

func (p *DTLZ2) Name() string {
	return DTLZ2Name
}

func (p *DTLZ2) g(ind *framework.Individual) float64 {
	sum := 0.0
	for i := p.numObjectives - 1; i < p.numVars; i++ {
		d := ind.Gene(i) - 0.5
		sum += d * d
	}
	return sum
}

func (p *DTLZ2) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	g := p.g(ind)
	objectives := make([]float64, p.numObjectives)

	for m := 0; m < p.numObjectives; m++ {
		f := 1 + g

		// Product of cos terms
		for i := 0; i < p.numObjectives-m-1; i++ {
			f *= math.Cos(ind.Gene(i) * math.Pi / 2)
		}

		// Last term is sin for all objectives except the first
		if m > 0 {
			f *= math.Sin(ind.Gene(p.numObjectives-m-1) * math.Pi / 2)
		}

		objectives[m] = f
	}
	return objectives, nil
}

func (p *DTLZ2) Bounds() []framework.Bounds {
	return framework.UniformBounds(p.numVars, 0, 1)
}

func (p *DTLZ2) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

func (p *DTLZ2) IsFeasible(ind *framework.Individual) bool {
	return framework.WithinBounds(ind, p.Bounds())
}

// TrueParetoFront is only known in closed form here for two objectives,
// where it is the quarter unit circle.
func (p *DTLZ2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	if p.numObjectives != 2 {
		return nil
	}
	return sampleFront(numPoints, func(x float64) float64 { return math.Sqrt(1 - x*x) })
}
