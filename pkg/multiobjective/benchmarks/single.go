package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// Single-objective test functions, see
// https://en.wikipedia.org/wiki/Test_functions_for_optimization#Test_functions_for_single-objective_optimization

const (
	SphereName     = "sphere"
	BoothName      = "booth"
	RosenbrockName = "rosenbrock"
)

// Sphere minimizes the sum of squared genes. Minimum 0 at the origin.
type Sphere struct {
	framework.Unconstrained
	numVars int
}

func NewSphere(numVars int) (*Sphere, error) {
	if numVars < 1 {
		return nil, fmt.Errorf("%s needs at least 1 variable, got %d", SphereName, numVars)
	}
	return &Sphere{numVars: numVars}, nil
}

func (p *Sphere) Name() string {
	return SphereName
}

func (p *Sphere) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	sum := 0.0
	for i := 0; i < ind.Len(); i++ {
		sum += ind.Gene(i) * ind.Gene(i)
	}
	return []float64{sum}, nil
}

func (p *Sphere) Bounds() []framework.Bounds {
	return framework.UniformBounds(p.numVars, -5, 5)
}

func (p *Sphere) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

// Booth has its global minimum 0 at (1, 3).
type Booth struct {
	searchRange float64
}

func NewBooth(searchRange float64) (*Booth, error) {
	if !(searchRange > 0) {
		return nil, fmt.Errorf("%s needs a positive search range, got %v", BoothName, searchRange)
	}
	return &Booth{searchRange: searchRange}, nil
}

func (p *Booth) Name() string {
	return BoothName
}

func (p *Booth) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	x, y := ind.Gene(0), ind.Gene(1)
	a := x + 2*y - 7
	b := 2*x + y - 5
	return []float64{a*a + b*b}, nil
}

func (p *Booth) Bounds() []framework.Bounds {
	return framework.UniformBounds(2, -p.searchRange, p.searchRange)
}

func (p *Booth) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}

// IsFeasible restricts the search to x >= -1 and y <= 10.
func (p *Booth) IsFeasible(ind *framework.Individual) bool {
	return ind.Gene(0) >= -1 && ind.Gene(1) <= 10
}

// Rosenbrock is the banana valley with its minimum 0 at (a, a^2, ...).
type Rosenbrock struct {
	framework.Unconstrained
	numVars int
	a       float64
	b       float64
}

func NewRosenbrock(numVars int, a, b float64) (*Rosenbrock, error) {
	if numVars < 2 {
		return nil, fmt.Errorf("%s needs at least 2 variables, got %d", RosenbrockName, numVars)
	}
	return &Rosenbrock{numVars: numVars, a: a, b: b}, nil
}

func (p *Rosenbrock) Name() string {
	return RosenbrockName
}

func (p *Rosenbrock) CalculateFitnessValues(ind *framework.Individual) ([]float64, error) {
	sum := 0.0
	for i := 0; i < p.numVars-1; i++ {
		xi, next := ind.Gene(i), ind.Gene(i+1)
		sum += p.b*(next-xi*xi)*(next-xi*xi) + (p.a-xi)*(p.a-xi)
	}
	return []float64{sum}, nil
}

func (p *Rosenbrock) Bounds() []framework.Bounds {
	return framework.UniformBounds(p.numVars, -2, 2)
}

func (p *Rosenbrock) CreateRandomIndividual(rng *rand.Rand) *framework.Individual {
	return framework.RandomIndividual(rng, p.Bounds())
}
