package benchmarks

import (
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// Options carries the knobs of every registered problem. Zero values select
// the problem's default.
type Options struct {
	// Dimensions is the number of genes.
	Dimensions int
	// Objectives is the number of objectives for scalable problems.
	Objectives int
	// Range is the search half-width for Booth and Schaffer.
	Range float64
	// A and B parametrize Rosenbrock.
	A, B float64
}

type entry struct {
	description string
	aliases     []string
	factory     func(Options) (framework.Problem, error)
}

var registry = map[string]entry{
	SphereName: {
		description: "Sphere - minimize the sum of squared variables",
		aliases:     []string{"sphere-problem"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewSphere(orDefault(o.Dimensions, 2)))
		},
	},
	BoothName: {
		description: "Booth - global minimum at (1,3) with value 0",
		aliases:     []string{"booth-function"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewBooth(orDefaultFloat(o.Range, 10)))
		},
	},
	RosenbrockName: {
		description: "Rosenbrock - banana valley with global minimum at (1,1)",
		aliases:     []string{"banana", "rosenbrock-valley"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewRosenbrock(orDefault(o.Dimensions, 2), orDefaultFloat(o.A, 1), orDefaultFloat(o.B, 100)))
		},
	},
	SchafferName: {
		description: "Schaffer N.1 - two objectives x^2 and (x-2)^2",
		aliases:     []string{"schaffer-function"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewSchaffer(orDefaultFloat(o.Range, MinimumSchafferA)))
		},
	},
	ZDT1Name: {
		description: "ZDT1 - two objectives with a convex Pareto front",
		aliases:     []string{"zdt-1"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewZDT1(orDefault(o.Dimensions, 30)))
		},
	},
	ZDT2Name: {
		description: "ZDT2 - two objectives with a concave Pareto front",
		aliases:     []string{"zdt-2"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewZDT2(orDefault(o.Dimensions, 30)))
		},
	},
	DTLZ2Name: {
		description: "DTLZ2 - scalable objectives with a spherical Pareto front",
		aliases:     []string{"dtlz-2"},
		factory: func(o Options) (framework.Problem, error) {
			return asProblem(NewDTLZ2(orDefault(o.Dimensions, 12), orDefault(o.Objectives, 3)))
		},
	},
}

// Names returns the registered problem names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line description and the aliases of a problem.
func Describe(name string) (string, []string, bool) {
	e, ok := registry[resolve(name)]
	if !ok {
		return "", nil, false
	}
	return e.description, e.aliases, true
}

// New creates a registered problem by name or alias, case-insensitively.
func New(name string, opts Options) (framework.Problem, error) {
	e, ok := registry[resolve(name)]
	if !ok {
		return nil, fmt.Errorf("problem %q not found, known problems: %s", name, strings.Join(Names(), ", "))
	}
	return e.factory(opts)
}

func resolve(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := registry[name]; ok {
		return name
	}
	for canonical, e := range registry {
		for _, alias := range e.aliases {
			if alias == name {
				return canonical
			}
		}
	}
	return name
}

// asProblem avoids returning a typed nil inside a non-nil interface.
func asProblem[P framework.Problem](p P, err error) (framework.Problem, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
