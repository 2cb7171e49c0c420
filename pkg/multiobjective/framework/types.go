package framework

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Individual is a candidate solution: a fixed-length vector of real genes.
// It is never modified after construction. Identity is the pointer, two
// individuals with equal genes are still distinct.
type Individual struct {
	genes []float64
}

// NewIndividual copies genes into a new Individual.
func NewIndividual(genes ...float64) *Individual {
	g := make([]float64, len(genes))
	copy(g, genes)
	return &Individual{genes: g}
}

// Len returns the number of genes.
func (ind *Individual) Len() int {
	return len(ind.genes)
}

// Gene returns the i-th gene.
func (ind *Individual) Gene(i int) float64 {
	return ind.genes[i]
}

// Genes returns a copy of the gene vector.
func (ind *Individual) Genes() []float64 {
	g := make([]float64, len(ind.genes))
	copy(g, ind.genes)
	return g
}

// Evaluate attaches fitness values to the individual.
func (ind *Individual) Evaluate(fitness []float64) *EvaluatedIndividual {
	f := make(ObjectiveSpacePoint, len(fitness))
	copy(f, fitness)
	return &EvaluatedIndividual{Individual: ind, fitness: f}
}

func (ind *Individual) String() string {
	return "[" + joinFloats(ind.genes) + "]"
}

// EvaluatedIndividual is an Individual together with its fitness vector.
// Fitness is computed exactly once and never changes.
type EvaluatedIndividual struct {
	*Individual
	fitness ObjectiveSpacePoint
}

// NumObjectives returns the length of the fitness vector.
func (e *EvaluatedIndividual) NumObjectives() int {
	return len(e.fitness)
}

// Objective returns the m-th fitness value.
func (e *EvaluatedIndividual) Objective(m int) float64 {
	return e.fitness[m]
}

// Fitness returns a copy of the fitness vector.
func (e *EvaluatedIndividual) Fitness() ObjectiveSpacePoint {
	f := make(ObjectiveSpacePoint, len(e.fitness))
	copy(f, e.fitness)
	return f
}

// WithRank returns a new ParetoEvaluatedIndividual sharing this individual.
func (e *EvaluatedIndividual) WithRank(rank int) *ParetoEvaluatedIndividual {
	return &ParetoEvaluatedIndividual{EvaluatedIndividual: e, rank: rank}
}

// ParetoDominates reports whether e dominates other.
func (e *EvaluatedIndividual) ParetoDominates(other *EvaluatedIndividual) bool {
	return Dominates(e.fitness, other.fitness)
}

func (e *EvaluatedIndividual) String() string {
	return fmt.Sprintf("%s --> %s", e.Individual, joinFloats(e.fitness))
}

// ParetoEvaluatedIndividual carries the Pareto rank assigned to an
// EvaluatedIndividual within one population. Rank 0 is the non-dominated
// front. A new value is produced every time a population is re-ranked.
type ParetoEvaluatedIndividual struct {
	*EvaluatedIndividual
	rank int
}

// Rank returns the Pareto rank.
func (p *ParetoEvaluatedIndividual) Rank() int {
	return p.rank
}

func (p *ParetoEvaluatedIndividual) String() string {
	return fmt.Sprintf("%s (%d)", p.EvaluatedIndividual, p.rank)
}

// Offspring is a candidate individual plus the positions of its parents in
// the generation it was bred from. The positions are non-owning handles that
// are only valid against that generation.
type Offspring struct {
	*Individual
	parents []int
}

// NewOffspring creates an Offspring from genes and at least one parent index.
func NewOffspring(genes []float64, parents ...int) *Offspring {
	if len(parents) == 0 {
		panic("framework: offspring needs at least one parent")
	}
	p := make([]int, len(parents))
	copy(p, parents)
	return &Offspring{Individual: NewIndividual(genes...), parents: p}
}

// Parents returns the parent indices.
func (o *Offspring) Parents() []int {
	p := make([]int, len(o.parents))
	copy(p, o.parents)
	return p
}

// Evaluate attaches fitness values to the offspring.
func (o *Offspring) Evaluate(fitness []float64) *EvaluatedOffspring {
	return &EvaluatedOffspring{
		EvaluatedIndividual: o.Individual.Evaluate(fitness),
		parents:             o.parents,
	}
}

// EvaluatedOffspring is an Offspring whose fitness is known. It only lives
// for the duration of survivor selection.
type EvaluatedOffspring struct {
	*EvaluatedIndividual
	parents []int
}

// Parents returns the parent indices.
func (o *EvaluatedOffspring) Parents() []int {
	p := make([]int, len(o.parents))
	copy(p, o.parents)
	return p
}

// Generation is an immutable snapshot of a ranked population.
type Generation struct {
	population []*ParetoEvaluatedIndividual
}

// NewGeneration builds a Generation from a ranked population.
func NewGeneration(population []*ParetoEvaluatedIndividual) *Generation {
	p := make([]*ParetoEvaluatedIndividual, len(population))
	copy(p, population)
	return &Generation{population: p}
}

// Len returns the population size.
func (g *Generation) Len() int {
	return len(g.population)
}

// At returns the i-th member.
func (g *Generation) At(i int) *ParetoEvaluatedIndividual {
	return g.population[i]
}

// Population returns a copy of the member slice.
func (g *Generation) Population() []*ParetoEvaluatedIndividual {
	p := make([]*ParetoEvaluatedIndividual, len(g.population))
	copy(p, g.population)
	return p
}

// NumObjectives returns the fitness vector length of the members, or 0 for an
// empty generation.
func (g *Generation) NumObjectives() int {
	if len(g.population) == 0 {
		return 0
	}
	return g.population[0].NumObjectives()
}

// Front returns the members with the given rank, in population order.
func (g *Generation) Front(rank int) []*ParetoEvaluatedIndividual {
	var front []*ParetoEvaluatedIndividual
	for _, ind := range g.population {
		if ind.rank == rank {
			front = append(front, ind)
		}
	}
	return front
}

// ObjectivePoints returns the fitness vectors of the given individuals.
func ObjectivePoints(individuals []*ParetoEvaluatedIndividual) []ObjectiveSpacePoint {
	points := make([]ObjectiveSpacePoint, len(individuals))
	for i, ind := range individuals {
		points[i] = ind.Fitness()
	}
	return points
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ";")
}
