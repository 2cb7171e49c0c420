package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

var (
	ErrAlreadyInitialized     = errors.New("algorithm already initialized")
	ErrNotInitialized         = errors.New("algorithm not initialized")
	ErrTerminated             = errors.New("algorithm terminated")
	ErrNoObjectives           = errors.New("problem returned no fitness values")
	ErrObjectiveCountMismatch = errors.New("number of fitness values changed during the run")
)

// Breeder is the strategy plugged into the generational loop.
type Breeder interface {
	Name() string

	// MinPopulationSize is the smallest population the strategy can breed from.
	MinPopulationSize() int

	// SelectParents returns the positions in gen that take part in breeding.
	SelectParents(gen *framework.Generation) []int

	// CreateOffspring breeds candidates from the selected parents. Every
	// offspring refers to its parents by their position in gen.
	CreateOffspring(gen *framework.Generation, parents []int) ([]*framework.Offspring, error)
}

// State of the generational loop.
type State int

const (
	Uninitialized State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GenerationListener is invoked synchronously after every bred generation.
// Panics are not recovered.
type GenerationListener func(*EvolutionaryAlgorithm)

// Stats are cumulative counters of a run.
type Stats struct {
	// Evaluations is the number of fitness evaluations, generation 0 included.
	Evaluations int
	// Admitted is the number of offspring that entered a candidate pool.
	Admitted int
	// RejectedInfeasible is the number of offspring discarded as infeasible.
	RejectedInfeasible int
}

// EvolutionaryAlgorithm drives the generational loop:
// select parents, breed, evaluate, select survivors, rank, truncate.
//
// Only one goroutine may call Initialize, Step and Optimize. Generations,
// Stats and State may be read from any goroutine.
type EvolutionaryAlgorithm struct {
	problem framework.Problem
	breeder Breeder
	params  OptimizationParameters
	rng     *rand.Rand
	seeds   []*framework.Individual

	state         atomic.Int32
	err           error
	numObjectives int
	snapshot      atomic.Pointer[snapshot]
	listeners     []GenerationListener
}

// snapshot pairs the published generations with the counters that produced
// them. It is replaced as a whole and never modified.
type snapshot struct {
	generations []*framework.Generation
	stats       Stats
}

var _ framework.AlgorithmState = &EvolutionaryAlgorithm{}

// New creates a generational loop around breeder. rng is used to sample the
// first generation and must be owned by the caller; a fixed seed reproduces a
// run exactly. Seeds are placed in generation 0 before random individuals and
// trimmed to the population size.
func New(problem framework.Problem, breeder Breeder, params OptimizationParameters, rng *rand.Rand, seeds ...*framework.Individual) (*EvolutionaryAlgorithm, error) {
	var errs field.ErrorList
	if problem == nil {
		errs = append(errs, field.Required(field.NewPath("problem"), ""))
	}
	if breeder == nil {
		errs = append(errs, field.Required(field.NewPath("breeder"), ""))
	}
	if rng == nil {
		errs = append(errs, field.Required(field.NewPath("rng"), "random source must be supplied by the caller"))
	}
	if len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	if errs := params.validate(field.NewPath("parameters"), breeder.MinPopulationSize()); len(errs) > 0 {
		return nil, errs.ToAggregate()
	}

	if len(seeds) > params.PopulationSize {
		seeds = seeds[:params.PopulationSize]
	}
	a := &EvolutionaryAlgorithm{
		problem: problem,
		breeder: breeder,
		params:  params,
		rng:     rng,
		seeds:   append([]*framework.Individual(nil), seeds...),
	}
	a.snapshot.Store(&snapshot{})
	return a, nil
}

// Name returns the breeding strategy name.
func (a *EvolutionaryAlgorithm) Name() string {
	return a.breeder.Name()
}

// Problem returns the optimized problem.
func (a *EvolutionaryAlgorithm) Problem() framework.Problem {
	return a.problem
}

// Generations returns the generations produced so far. The returned slice is
// a snapshot and is never modified afterwards.
func (a *EvolutionaryAlgorithm) Generations() []*framework.Generation {
	return a.snapshot.Load().generations
}

// LastGeneration returns the newest generation or nil before initialization.
func (a *EvolutionaryAlgorithm) LastGeneration() *framework.Generation {
	gens := a.Generations()
	if len(gens) == 0 {
		return nil
	}
	return gens[len(gens)-1]
}

// State returns the current state of the loop.
func (a *EvolutionaryAlgorithm) State() State {
	return State(a.state.Load())
}

// Stats returns a copy of the cumulative counters.
func (a *EvolutionaryAlgorithm) Stats() Stats {
	return a.snapshot.Load().stats
}

// Progress returns the generations together with the counters as of the same
// generation. Use it instead of Generations and Stats when reading from
// another goroutine while the run is in progress.
func (a *EvolutionaryAlgorithm) Progress() ([]*framework.Generation, Stats) {
	s := a.snapshot.Load()
	return s.generations, s.stats
}

// Err returns the error that aborted the run, if any.
func (a *EvolutionaryAlgorithm) Err() error {
	return a.err
}

// OnGenerationFinished registers a listener. Register listeners before the
// run starts.
func (a *EvolutionaryAlgorithm) OnGenerationFinished(l GenerationListener) {
	a.listeners = append(a.listeners, l)
}

// Optimize initializes the run if needed and steps until the termination
// criteria allow it to stop.
func (a *EvolutionaryAlgorithm) Optimize(ctx context.Context) error {
	logger := klog.FromContext(ctx)

	if a.State() == Uninitialized {
		if err := a.Initialize(ctx); err != nil {
			return err
		}
	}
	for a.State() == Running {
		if err := a.Step(ctx); err != nil {
			return err
		}
	}
	if a.err != nil {
		return a.err
	}

	stats := a.Stats()
	logger.V(2).Info("Optimization finished", "algorithm", a.Name(), "problem", a.problem.Name(),
		"generations", len(a.Generations()), "evaluations", stats.Evaluations,
		"admitted", stats.Admitted, "rejectedInfeasible", stats.RejectedInfeasible)
	return nil
}

// Initialize builds generation 0 from the seed individuals and random
// individuals sampled from the problem. Generation 0 is not checked for
// feasibility.
func (a *EvolutionaryAlgorithm) Initialize(ctx context.Context) error {
	if a.State() != Uninitialized {
		return ErrAlreadyInitialized
	}
	logger := klog.FromContext(ctx)

	individuals := make([]*framework.Individual, 0, a.params.PopulationSize)
	individuals = append(individuals, a.seeds...)
	for len(individuals) < a.params.PopulationSize {
		individuals = append(individuals, a.problem.CreateRandomIndividual(a.rng))
	}

	values, err := a.calculateFitness(individuals)
	if err != nil {
		return a.fail(fmt.Errorf("initializing first generation: %w", err))
	}
	evaluated := make([]*framework.EvaluatedIndividual, len(individuals))
	for i, ind := range individuals {
		evaluated[i] = ind.Evaluate(values[i])
	}

	a.publish(framework.NewGeneration(framework.NonDominatedSort(evaluated)), Stats{Evaluations: len(individuals)})
	a.state.Store(int32(Running))

	logger.V(2).Info("Initialized first generation", "algorithm", a.Name(), "problem", a.problem.Name(),
		"populationSize", a.params.PopulationSize, "seeds", len(a.seeds), "objectives", a.numObjectives)

	a.updateState()
	return nil
}

// Step breeds one generation.
func (a *EvolutionaryAlgorithm) Step(ctx context.Context) error {
	switch a.State() {
	case Uninitialized:
		return ErrNotInitialized
	case Terminated:
		if a.err != nil {
			return a.err
		}
		return ErrTerminated
	}
	logger := klog.FromContext(ctx)

	current := a.LastGeneration()
	parents := a.breeder.SelectParents(current)
	offspring, err := a.breeder.CreateOffspring(current, parents)
	if err != nil {
		return a.fail(fmt.Errorf("creating offspring: %w", err))
	}

	individuals := make([]*framework.Individual, len(offspring))
	for i, o := range offspring {
		individuals[i] = o.Individual
	}
	values, err := a.calculateFitness(individuals)
	if err != nil {
		return a.fail(fmt.Errorf("evaluating offspring: %w", err))
	}

	stats := a.Stats()
	stats.Evaluations += len(offspring)

	pool := make([]*framework.EvaluatedIndividual, 0, current.Len()+len(offspring))
	carried := make([]bool, current.Len())
	for i, o := range offspring {
		child := o.Evaluate(values[i])
		survival := SelectSurvivors(a.problem, child, current)
		if !survival.Feasible {
			stats.RejectedInfeasible++
		}
		if survival.Admitted {
			stats.Admitted++
			pool = append(pool, child.EvaluatedIndividual)
		}
		for _, idx := range survival.Parents {
			if carried[idx] {
				continue
			}
			carried[idx] = true
			pool = append(pool, current.At(idx).EvaluatedIndividual)
		}
	}

	next := Truncate(framework.NonDominatedSort(pool), a.params.PopulationSize)
	gen := framework.NewGeneration(next)
	a.publish(gen, stats)

	if loggerV := logger.V(4); loggerV.Enabled() {
		best := a.GetBestIndividuals(gen)
		kv := []interface{}{"generation", len(a.Generations()) - 1, "candidates", len(pool), "population", gen.Len(), "best", len(best)}
		if len(best) > 0 {
			kv = append(kv, "bestFitness", best[0].Fitness())
		}
		loggerV.Info("Generation finished", kv...)
	}

	for _, l := range a.listeners {
		l(a)
	}

	a.updateState()
	return nil
}

// ShouldContinue consults the termination criteria.
func (a *EvolutionaryAlgorithm) ShouldContinue() bool {
	criteria := a.params.TerminationCriteria
	if len(criteria) == 0 {
		return false
	}
	if a.params.TerminationPolicy == TerminateWhenAny {
		for _, c := range criteria {
			if c.ShouldTerminate(a) {
				return false
			}
		}
		return true
	}
	for _, c := range criteria {
		if !c.ShouldTerminate(a) {
			return true
		}
	}
	return false
}

// GetBestIndividuals returns the single fittest individual for one objective,
// or the whole lowest-ranked front otherwise.
func (a *EvolutionaryAlgorithm) GetBestIndividuals(gen *framework.Generation) []*framework.ParetoEvaluatedIndividual {
	if gen == nil || gen.Len() == 0 {
		return nil
	}

	if gen.NumObjectives() == 1 {
		best := gen.At(0)
		for i := 1; i < gen.Len(); i++ {
			if ind := gen.At(i); ind.Objective(0) < best.Objective(0) {
				best = ind
			}
		}
		return []*framework.ParetoEvaluatedIndividual{best}
	}

	lowest := gen.At(0).Rank()
	for i := 1; i < gen.Len(); i++ {
		lowest = min(lowest, gen.At(i).Rank())
	}
	return gen.Front(lowest)
}

func (a *EvolutionaryAlgorithm) updateState() {
	if !a.ShouldContinue() {
		a.state.Store(int32(Terminated))
	}
}

func (a *EvolutionaryAlgorithm) fail(err error) error {
	a.err = err
	a.state.Store(int32(Terminated))
	return err
}

func (a *EvolutionaryAlgorithm) publish(gen *framework.Generation, stats Stats) {
	old := a.snapshot.Load().generations
	gens := make([]*framework.Generation, len(old), len(old)+1)
	copy(gens, old)
	gens = append(gens, gen)
	a.snapshot.Store(&snapshot{generations: gens, stats: stats})
}

// calculateFitness evaluates the individuals, concurrently when Parallelism
// allows it. Results are aligned with the input.
func (a *EvolutionaryAlgorithm) calculateFitness(individuals []*framework.Individual) ([][]float64, error) {
	values := make([][]float64, len(individuals))

	if a.params.Parallelism <= 1 {
		for i, ind := range individuals {
			v, err := a.problem.CalculateFitnessValues(ind)
			if err != nil {
				return nil, fmt.Errorf("calculating fitness of %s: %w", ind, err)
			}
			values[i] = v
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.params.Parallelism)
		for i, ind := range individuals {
			g.Go(func() error {
				v, err := a.problem.CalculateFitnessValues(ind)
				if err != nil {
					return fmt.Errorf("calculating fitness of %s: %w", ind, err)
				}
				values[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for _, v := range values {
		if len(v) == 0 {
			return nil, ErrNoObjectives
		}
		if a.numObjectives == 0 {
			a.numObjectives = len(v)
		}
		if len(v) != a.numObjectives {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrObjectiveCountMismatch, len(v), a.numObjectives)
		}
	}
	return values, nil
}
