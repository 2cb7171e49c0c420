package algorithms

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// TerminationPolicy decides how the answers of several termination criteria
// are combined.
type TerminationPolicy int

const (
	// TerminateWhenAll stops only when every criterion agrees. Adding a
	// criterion can therefore only prolong a run.
	TerminateWhenAll TerminationPolicy = iota
	// TerminateWhenAny stops as soon as one criterion fires.
	TerminateWhenAny
)

func (p TerminationPolicy) String() string {
	switch p {
	case TerminateWhenAll:
		return "All"
	case TerminateWhenAny:
		return "Any"
	default:
		return fmt.Sprintf("TerminationPolicy(%d)", int(p))
	}
}

// OptimizationParameters are shared by every breeding strategy.
type OptimizationParameters struct {
	// PopulationSize is the number of individuals kept per generation.
	PopulationSize int
	// TerminationCriteria are consulted after every generation. With no
	// criteria the run ends right after generation 0.
	TerminationCriteria []framework.TerminationCriterion
	// TerminationPolicy combines the criteria, TerminateWhenAll by default.
	TerminationPolicy TerminationPolicy
	// Parallelism bounds concurrent fitness evaluations. 0 and 1 both
	// evaluate sequentially.
	Parallelism int
}

func (p *OptimizationParameters) validate(path *field.Path, minPopulationSize int) field.ErrorList {
	var errs field.ErrorList
	if p.PopulationSize < minPopulationSize {
		errs = append(errs, field.Invalid(path.Child("populationSize"), p.PopulationSize,
			fmt.Sprintf("must be at least %d", minPopulationSize)))
	}
	if p.Parallelism < 0 {
		errs = append(errs, field.Invalid(path.Child("parallelism"), p.Parallelism, "must not be negative"))
	}
	if p.TerminationPolicy != TerminateWhenAll && p.TerminationPolicy != TerminateWhenAny {
		errs = append(errs, field.NotSupported(path.Child("terminationPolicy"), p.TerminationPolicy.String(),
			[]string{TerminateWhenAll.String(), TerminateWhenAny.String()}))
	}
	for i, c := range p.TerminationCriteria {
		if c == nil {
			errs = append(errs, field.Required(path.Child("terminationCriteria").Index(i), "criterion must not be nil"))
		}
	}
	return errs
}
