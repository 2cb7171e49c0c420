/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Algorithm names a breeding strategy.
type Algorithm string

const (
	// AlgorithmDE is DE/rand/1/bin differential evolution
	AlgorithmDE Algorithm = "DE"

	// AlgorithmNSGAII is NSGA-II style breeding with SBX crossover and polynomial mutation
	AlgorithmNSGAII Algorithm = "NSGA-II"
)

// TerminationPolicy names how termination criteria are combined.
type TerminationPolicy string

const (
	// TerminationPolicyAll stops once every criterion agrees
	TerminationPolicyAll TerminationPolicy = "All"

	// TerminationPolicyAny stops as soon as one criterion fires
	TerminationPolicyAny TerminationPolicy = "Any"
)

// OptimizationArgs configures a single optimization run
type OptimizationArgs struct {
	metav1.TypeMeta `json:",inline"`

	// Problem is the name or alias of a registered benchmark problem
	Problem string `json:"problem"`

	// ProblemOptions parametrize the problem. Zero values select its defaults
	ProblemOptions ProblemOptions `json:"problemOptions,omitempty"`

	// Algorithm is the breeding strategy
	// +kubebuilder:validation:Enum=DE;NSGA-II
	Algorithm Algorithm `json:"algorithm,omitempty"`

	// PopulationSize is the number of individuals kept per generation
	PopulationSize int32 `json:"populationSize,omitempty"`

	// MaxGenerations is the number of generations, the first one included
	MaxGenerations int32 `json:"maxGenerations,omitempty"`

	// TimeLimit bounds the wall time of the run. Combined with MaxGenerations
	// through TerminationPolicy
	TimeLimit *metav1.Duration `json:"timeLimit,omitempty"`

	// TerminationPolicy decides how MaxGenerations and TimeLimit are combined
	// +kubebuilder:validation:Enum=All;Any
	TerminationPolicy TerminationPolicy `json:"terminationPolicy,omitempty"`

	// Seed of the random source. The same seed reproduces a run exactly
	Seed *uint64 `json:"seed,omitempty"`

	// Parallelism bounds concurrent fitness evaluations
	Parallelism int32 `json:"parallelism,omitempty"`

	// FitnessCacheTTL enables memoization of fitness values. 0 keeps values
	// for the whole run
	FitnessCacheTTL *metav1.Duration `json:"fitnessCacheTTL,omitempty"`

	// DE holds the differential evolution factors
	DE *DEArgs `json:"de,omitempty"`

	// NSGAII holds the NSGA-II operator settings
	NSGAII *NSGAIIArgs `json:"nsgaII,omitempty"`

	// Output controls where the results are written
	Output OutputArgs `json:"output,omitempty"`
}

// ProblemOptions are the knobs of the registered problems
type ProblemOptions struct {
	// Dimensions is the number of genes
	Dimensions int32 `json:"dimensions,omitempty"`

	// Objectives is the number of objectives of scalable problems
	Objectives int32 `json:"objectives,omitempty"`

	// Range is the search half-width for Booth and Schaffer
	Range float64 `json:"range,omitempty"`

	// A and B parametrize Rosenbrock
	A float64 `json:"a,omitempty"`
	B float64 `json:"b,omitempty"`
}

// DEArgs configures differential evolution
type DEArgs struct {
	// CR is the crossover rate in [0, 1]
	CR *float64 `json:"cr,omitempty"`

	// F is the differential weight
	F *float64 `json:"f,omitempty"`
}

// NSGAIIArgs configures NSGA-II breeding
type NSGAIIArgs struct {
	// CrossoverRate is the probability of SBX crossover
	CrossoverRate *float64 `json:"crossoverRate,omitempty"`

	// MutationRate is the per-gene mutation probability. Unset means 1/n
	MutationRate *float64 `json:"mutationRate,omitempty"`

	// TournamentSize is the number of contestants per mate selection
	TournamentSize int32 `json:"tournamentSize,omitempty"`
}

// OutputArgs controls the artifacts of a run
type OutputArgs struct {
	// ReportPath receives the OptimizationReport. "-" writes to stdout
	ReportPath string `json:"reportPath,omitempty"`

	// PlotDir receives an HTML scatter plot for two-objective problems
	PlotDir string `json:"plotDir,omitempty"`

	// MetricsTextfile receives the run metrics in Prometheus text format
	MetricsTextfile string `json:"metricsTextfile,omitempty"`
}

// OptimizationReport is the outcome of a run
type OptimizationReport struct {
	metav1.TypeMeta `json:",inline"`

	// RunID identifies the run
	RunID string `json:"runID"`

	// GeneratedAt indicates when the report was generated
	GeneratedAt metav1.Time `json:"generatedAt"`

	// Problem is the canonical name of the optimized problem
	Problem string `json:"problem"`

	// Algorithm is the breeding strategy used
	Algorithm Algorithm `json:"algorithm"`

	// Seed of the random source
	Seed uint64 `json:"seed"`

	// Generations is the number of generations produced, the first one included
	Generations int `json:"generations"`

	// Evaluations is the number of fitness evaluations
	Evaluations int `json:"evaluations"`

	// Admitted is the number of offspring that entered a candidate pool
	Admitted int `json:"admitted"`

	// RejectedInfeasible is the number of offspring discarded as infeasible
	RejectedInfeasible int `json:"rejectedInfeasible"`

	// Duration is the wall time of the run
	Duration metav1.Duration `json:"duration"`

	// Summary describes every objective over the final population
	Summary []ObjectiveSummary `json:"summary,omitempty"`

	// GenerationalDistance is the mean distance from the solutions to the true
	// Pareto front, set only for problems whose front is known
	GenerationalDistance *float64 `json:"generationalDistance,omitempty"`

	// Solutions are the best individuals of the final generation
	Solutions []OptimizationSolution `json:"solutions"`
}

// ObjectiveSummary describes one objective over a population
type ObjectiveSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// OptimizationSolution represents a single solution from the optimization
type OptimizationSolution struct {
	// Rank is the solution rank in the Pareto sort (0 = best)
	Rank int `json:"rank"`

	// Genes are the decision variables
	Genes []float64 `json:"genes"`

	// Objectives contains the objective values
	Objectives []float64 `json:"objectives"`

	// CrowdingDistance within the solution's front. Unset for boundary
	// solutions, whose distance is infinite
	CrowdingDistance *float64 `json:"crowdingDistance,omitempty"`
}
