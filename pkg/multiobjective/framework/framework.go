package framework

import (
	"math"
	"math/rand/v2"
)

// Problem describes the contract a specific optimization problem needs to
// implement. The engine treats it as a black-box oracle.
type Problem interface {
	Name() string

	// CalculateFitnessValues evaluates an individual. Every call within one
	// run must return the same number of objectives. An error aborts the run.
	CalculateFitnessValues(*Individual) ([]float64, error)

	// CreateRandomIndividual samples a new individual using rng. The engine
	// owns rng; implementations must not retain it.
	CreateRandomIndividual(rng *rand.Rand) *Individual

	// IsFeasible reports whether an offspring may enter the population.
	IsFeasible(*Individual) bool
}

// Unconstrained can be embedded by problems without feasibility rules.
type Unconstrained struct{}

// IsFeasible always returns true.
func (Unconstrained) IsFeasible(*Individual) bool {
	return true
}

// BoundedProblem is implemented by problems with a box-shaped search space.
type BoundedProblem interface {
	Problem
	Bounds() []Bounds
}

// ParetoFrontProvider is optional due to the difficulty of finding the true
// front in some types of problems.
type ParetoFrontProvider interface {
	TrueParetoFront(numPoints int) []ObjectiveSpacePoint
}

// Bounds is the closed interval [L, H] of a single gene.
type Bounds struct {
	L float64
	H float64
}

// Clamp limits v to the interval.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.L, math.Min(b.H, v))
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.L && v <= b.H
}

// Sample draws a uniform value from the interval.
func (b Bounds) Sample(rng *rand.Rand) float64 {
	return b.L + rng.Float64()*(b.H-b.L)
}

// UniformBounds returns n copies of [l, h].
func UniformBounds(n int, l, h float64) []Bounds {
	b := make([]Bounds, n)
	for i := range b {
		b[i] = Bounds{L: l, H: h}
	}
	return b
}

// RandomIndividual samples every gene uniformly from its bounds.
func RandomIndividual(rng *rand.Rand, bounds []Bounds) *Individual {
	genes := make([]float64, len(bounds))
	for i, b := range bounds {
		genes[i] = b.Sample(rng)
	}
	return NewIndividual(genes...)
}

// WithinBounds reports whether every gene of ind lies inside its bounds.
func WithinBounds(ind *Individual, bounds []Bounds) bool {
	for i, b := range bounds {
		if !b.Contains(ind.Gene(i)) {
			return false
		}
	}
	return true
}
