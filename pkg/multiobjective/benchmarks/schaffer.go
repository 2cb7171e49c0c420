package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	SchafferName = "schaffer"

	// MinimumSchafferA is the smallest allowed search half-width.
	MinimumSchafferA = 10.0
)

// Schaffer is Schaffer's function N. 1: f1 = x^2, f2 = (x-2)^2, with the
// Pareto set x in [0, 2]. The second gene is carried but unused.
type Schaffer struct {
	a float64
}

func NewSchaffer(a float64) (*Schaffer, error) {
	if a < MinimumSchafferA {
		return nil, fmt.Errorf("%s needs a >= %v, got %v", SchafferName, MinimumSchafferA, a)
	}
	return &Schaffer{a: a}, nil
}

func (p *Schaffer) Name() string {
	return SchafferName
}

func (p *Schaffer) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	x := ind.Gene(0)
	return []float64{x * x, (x - 2) * (x - 2)}, nil
}

func (p *Schaffer) Bounds() []framework.Bounds {
	return framework.UniformBounds(2, -p.a, p.a)
}

func (p *Schaffer) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

// IsFeasible requires -a <= x <= a.
func (p *Schaffer) IsFeasible(ind *framework.Individual) bool {
	return ind.Gene(0) >= -p.a && ind.Gene(0) <= p.a
}

func (p *Schaffer) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	if numPoints < 2 {
		numPoints = 2
	}
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := 2 * float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{x * x, (x - 2) * (x - 2)}
	}
	return points
}
