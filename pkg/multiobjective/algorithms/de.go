package algorithms

import (
	"fmt"
	"math/rand/v2"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

const (
	DEName = "DE"

	DefaultCR = 0.5
	DefaultF  = 1.0

	// deMinPopulationSize covers the parent plus three distinct donors.
	deMinPopulationSize = 4
)

// DEParameters configures differential evolution.
type DEParameters struct {
	OptimizationParameters
	// CR is the crossover rate in [0, 1].
	CR float64
	// F is the differential weight, must be positive.
	F float64
}

// NewDEParameters returns parameters with the default CR and F.
func NewDEParameters(populationSize int, criteria ...framework.TerminationCriterion) DEParameters {
	return DEParameters{
		OptimizationParameters: OptimizationParameters{
			PopulationSize:      populationSize,
			TerminationCriteria: criteria,
		},
		CR: DefaultCR,
		F:  DefaultF,
	}
}

// Validate checks the parameters.
func (p *DEParameters) Validate() error {
	path := field.NewPath("parameters")
	errs := p.OptimizationParameters.validate(path, deMinPopulationSize)
	errs = append(errs, validateDEFactors(path, p.CR, p.F)...)
	return errs.ToAggregate()
}

func validateDEFactors(path *field.Path, cr, f float64) field.ErrorList {
	var errs field.ErrorList
	if cr < 0 || cr > 1 {
		errs = append(errs, field.Invalid(path.Child("cr"), cr, "must be in [0, 1]"))
	}
	if !(f > 0) {
		errs = append(errs, field.Invalid(path.Child("f"), f, "must be positive"))
	}
	return errs
}

// DEBreeder implements classic DE/rand/1/bin breeding. See
// https://en.wikipedia.org/wiki/Differential_evolution
type DEBreeder struct {
	cr  float64
	f   float64
	rng *rand.Rand
}

var _ Breeder = &DEBreeder{}

// NewDEBreeder creates a DE breeder drawing from rng.
func NewDEBreeder(cr, f float64, rng *rand.Rand) (*DEBreeder, error) {
	errs := validateDEFactors(field.NewPath("parameters"), cr, f)
	if rng == nil {
		errs = append(errs, field.Required(field.NewPath("rng"), "random source must be supplied by the caller"))
	}
	if len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	return &DEBreeder{cr: cr, f: f, rng: rng}, nil
}

// NewDifferentialEvolution creates a generational loop breeding with DE.
// rng drives both sampling and breeding.
func NewDifferentialEvolution(problem framework.Problem, params DEParameters, rng *rand.Rand, seeds ...*framework.Individual) (*EvolutionaryAlgorithm, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	breeder, err := NewDEBreeder(params.CR, params.F, rng)
	if err != nil {
		return nil, err
	}
	return New(problem, breeder, params.OptimizationParameters, rng, seeds...)
}

func (d *DEBreeder) Name() string {
	return DEName
}

func (d *DEBreeder) MinPopulationSize() int {
	return deMinPopulationSize
}

// SelectParents takes the whole population.
func (d *DEBreeder) SelectParents(gen *framework.Generation) []int {
	parents := make([]int, gen.Len())
	for i := range parents {
		parents[i] = i
	}
	return parents
}

// CreateOffspring produces one trial vector per parent x:
// trial[i] = a[i] + F*(b[i]-c[i]) where a, b, c are distinct parents other
// than x, applied at a random forced index and wherever a uniform draw is
// below CR; other genes are copied from x.
func (d *DEBreeder) CreateOffspring(gen *framework.Generation, parents []int) ([]*framework.Offspring, error) {
	if len(parents) < deMinPopulationSize {
		return nil, fmt.Errorf("differential evolution needs at least %d parents, got %d", deMinPopulationSize, len(parents))
	}

	offspring := make([]*framework.Offspring, len(parents))
	for k, xIdx := range parents {
		x := gen.At(xIdx)
		ia, ib, ic := d.pickDonors(len(parents), k)
		a, b, c := gen.At(parents[ia]), gen.At(parents[ib]), gen.At(parents[ic])

		n := x.Len()
		forced := d.rng.IntN(n)
		trial := make([]float64, n)
		for i := 0; i < n; i++ {
			if d.rng.Float64() < d.cr || i == forced {
				trial[i] = a.Gene(i) + d.f*(b.Gene(i)-c.Gene(i))
			} else {
				trial[i] = x.Gene(i)
			}
		}
		offspring[k] = framework.NewOffspring(trial, xIdx)
	}
	return offspring, nil
}

// pickDonors draws three distinct positions in [0, n) different from self,
// uniformly without replacement.
func (d *DEBreeder) pickDonors(n, self int) (int, int, int) {
	a := d.rng.IntN(n)
	for a == self {
		a = d.rng.IntN(n)
	}
	b := d.rng.IntN(n)
	for b == self || b == a {
		b = d.rng.IntN(n)
	}
	c := d.rng.IntN(n)
	for c == self || c == a || c == b {
		c = d.rng.IntN(n)
	}
	return a, b, c
}
