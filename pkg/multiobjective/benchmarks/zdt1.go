package benchmarks

import (
	"fmt"
	"math"
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	ZDT1Name = "zdt1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
//
// The Pareto optimal solutions have x_i = 0 for i >= 1 and x_0 in [0, 1],
// giving a convex front f2 = 1 - sqrt(f1).
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) (*ZDT1, error) {
	if numVars < 2 {
		return nil, fmt.Errorf("%s needs at least 2 variables, got %d", ZDT1Name, numVars)
	}
	return &ZDT1{numVars}, nil
}

func (p *ZDT1) Name() string {
	return ZDT1Name
}

func (p *ZDT1) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	f1 := ind.Gene(0)
	g := zdtG(ind)
	return []float64{f1, g * (1.0 - math.Sqrt(f1/g))}, nil
}

func (p *ZDT1) Bounds() []framework.Bounds {
	return framework.UniformBounds(p.numVars, 0, 1)
}

func (p *ZDT1) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

// IsFeasible requires every variable in [0, 1].
func (p *ZDT1) IsFeasible(ind *framework.Individual) bool {
	return framework.WithinBounds(ind, p.Bounds())
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	return sampleFront(numPoints, func(x float64) float64 { return 1.0 - math.Sqrt(x) })
}

// zdtG is g(x) = 1 + 9 * sum(x_i for i >= 1) / (n-1)
func zdtG(ind *framework.Individual) float64 {
	sum := 0.0
	for i := 1; i < ind.Len(); i++ {
		sum += ind.Gene(i)
	}
	return 1.0 + 9.0*sum/float64(ind.Len()-1)
}

func sampleFront(numPoints int, f func(float64) float64) []framework.ObjectiveSpacePoint {
	if numPoints < 2 {
		numPoints = 2
	}
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{x, f(x)}
	}
	return points
}
