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

package validation

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"sigs.k8s.io/evolutionary-algorithms/apis/config/v1alpha1"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/benchmarks"
)

var (
	validAlgorithms = []string{
		string(v1alpha1.AlgorithmDE),
		string(v1alpha1.AlgorithmNSGAII),
	}
	validTerminationPolicies = []string{
		string(v1alpha1.TerminationPolicyAll),
		string(v1alpha1.TerminationPolicyAny),
	}
	minPopulationSize = map[v1alpha1.Algorithm]int32{
		v1alpha1.AlgorithmDE:     4,
		v1alpha1.AlgorithmNSGAII: 2,
	}
)

// ValidateOptimizationArgs validates defaulted OptimizationArgs.
func ValidateOptimizationArgs(path *field.Path, args *v1alpha1.OptimizationArgs) field.ErrorList {
	var allErrs field.ErrorList

	if args.Problem == "" {
		allErrs = append(allErrs, field.Required(path.Child("problem"), "a problem name is required"))
	} else if _, _, ok := benchmarks.Describe(args.Problem); !ok {
		allErrs = append(allErrs, field.NotSupported(path.Child("problem"), args.Problem, benchmarks.Names()))
	}
	allErrs = append(allErrs, validateProblemOptions(path.Child("problemOptions"), args.ProblemOptions)...)

	minPop, ok := minPopulationSize[args.Algorithm]
	if !ok {
		allErrs = append(allErrs, field.NotSupported(path.Child("algorithm"), args.Algorithm, validAlgorithms))
	} else if args.PopulationSize < minPop {
		allErrs = append(allErrs, field.Invalid(path.Child("populationSize"), args.PopulationSize,
			fmt.Sprintf("must be at least %d for %s", minPop, args.Algorithm)))
	}

	if args.MaxGenerations < 1 {
		allErrs = append(allErrs, field.Invalid(path.Child("maxGenerations"), args.MaxGenerations, "must be at least 1"))
	}
	if args.TimeLimit != nil && args.TimeLimit.Duration < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("timeLimit"), args.TimeLimit.Duration.String(), "must not be negative"))
	}
	if args.TerminationPolicy != v1alpha1.TerminationPolicyAll && args.TerminationPolicy != v1alpha1.TerminationPolicyAny {
		allErrs = append(allErrs, field.NotSupported(path.Child("terminationPolicy"), args.TerminationPolicy, validTerminationPolicies))
	}
	if args.Parallelism < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("parallelism"), args.Parallelism, "must not be negative"))
	}
	if args.FitnessCacheTTL != nil && args.FitnessCacheTTL.Duration < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("fitnessCacheTTL"), args.FitnessCacheTTL.Duration.String(), "must not be negative"))
	}

	if args.DE != nil {
		allErrs = append(allErrs, validateDEArgs(path.Child("de"), args.DE)...)
	}
	if args.NSGAII != nil {
		allErrs = append(allErrs, validateNSGAIIArgs(path.Child("nsgaII"), args.NSGAII)...)
	}

	return allErrs
}

func validateProblemOptions(path *field.Path, opts v1alpha1.ProblemOptions) field.ErrorList {
	var allErrs field.ErrorList
	if opts.Dimensions < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("dimensions"), opts.Dimensions, "must not be negative"))
	}
	if opts.Objectives < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("objectives"), opts.Objectives, "must not be negative"))
	}
	if opts.Range < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("range"), opts.Range, "must not be negative"))
	}
	return allErrs
}

func validateDEArgs(path *field.Path, args *v1alpha1.DEArgs) field.ErrorList {
	var allErrs field.ErrorList
	if args.CR != nil {
		allErrs = append(allErrs, validateProbability(path.Child("cr"), *args.CR)...)
	}
	if args.F != nil && !(*args.F > 0) {
		allErrs = append(allErrs, field.Invalid(path.Child("f"), *args.F, "must be positive"))
	}
	return allErrs
}

func validateNSGAIIArgs(path *field.Path, args *v1alpha1.NSGAIIArgs) field.ErrorList {
	var allErrs field.ErrorList
	if args.CrossoverRate != nil {
		allErrs = append(allErrs, validateProbability(path.Child("crossoverRate"), *args.CrossoverRate)...)
	}
	if args.MutationRate != nil {
		allErrs = append(allErrs, validateProbability(path.Child("mutationRate"), *args.MutationRate)...)
	}
	if args.TournamentSize < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("tournamentSize"), args.TournamentSize, "must not be negative"))
	}
	return allErrs
}

func validateProbability(path *field.Path, v float64) field.ErrorList {
	if v < 0 || v > 1 {
		return field.ErrorList{field.Invalid(path, v, "must be in [0, 1]")}
	}
	return nil
}
