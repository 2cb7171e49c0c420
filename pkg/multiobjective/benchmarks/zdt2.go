package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	ZDT2Name = "zdt2"
)

// ZDT2 is ZDT1 with h = 1 - (f1/g)^2, which makes the front concave.
type ZDT2 struct {
	numVars int
}

func NewZDT2(numVars int) (*ZDT2, error) {
	if numVars < 2 {
		return nil, fmt.Errorf("%s needs at least 2 variables, got %d", ZDT2Name, numVars)
	}
	return &ZDT2{numVars}, nil
}

func (p *ZDT2) Name() string {
	return ZDT2Name
}

func (p *ZDT2) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	f1 := ind.Gene(0)
	g := zdtG(ind)
	r := f1 / g
	return []float64{f1, g * (1.0 - r*r)}, nil
}

func (p *ZDT2) Bounds() []framework.Bounds {
	return framework.UniformBounds(p.numVars, 0, 1)
}

func (p *ZDT2) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

func (p *ZDT2) IsFeasible(ind *framework.Individual) bool {
	return framework.WithinBounds(ind, p.Bounds())
}

func (p *ZDT2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return sampleFront(numPoints, func(x float64) float64 { return 1.0 - x*x })
}
