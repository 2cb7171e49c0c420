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
	"k8s.io/utils/ptr"
)

var (
	DefaultAlgorithm         = AlgorithmDE
	DefaultPopulationSize    = int32(100)
	DefaultMaxGenerations    = int32(100)
	DefaultTerminationPolicy = TerminationPolicyAll
	DefaultSeed              = uint64(0)

	DefaultCR = 0.5
	DefaultF  = 1.0

	DefaultCrossoverRate  = 0.9
	DefaultTournamentSize = int32(2)
)

// SetDefaults_OptimizationArgs sets the default parameters for an
// optimization run.
func SetDefaults_OptimizationArgs(obj *OptimizationArgs) {
	if obj.APIVersion == "" {
		obj.APIVersion = GroupVersion
	}
	if obj.Kind == "" {
		obj.Kind = OptimizationArgsKind
	}
	if obj.Algorithm == "" {
		obj.Algorithm = DefaultAlgorithm
	}
	if obj.PopulationSize == 0 {
		obj.PopulationSize = DefaultPopulationSize
	}
	if obj.MaxGenerations == 0 {
		obj.MaxGenerations = DefaultMaxGenerations
	}
	if obj.TerminationPolicy == "" {
		obj.TerminationPolicy = DefaultTerminationPolicy
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(DefaultSeed)
	}

	switch obj.Algorithm {
	case AlgorithmDE:
		if obj.DE == nil {
			obj.DE = &DEArgs{}
		}
		if obj.DE.CR == nil {
			obj.DE.CR = ptr.To(DefaultCR)
		}
		if obj.DE.F == nil {
			obj.DE.F = ptr.To(DefaultF)
		}
	case AlgorithmNSGAII:
		if obj.NSGAII == nil {
			obj.NSGAII = &NSGAIIArgs{}
		}
		if obj.NSGAII.CrossoverRate == nil {
			obj.NSGAII.CrossoverRate = ptr.To(DefaultCrossoverRate)
		}
		if obj.NSGAII.TournamentSize == 0 {
			obj.NSGAII.TournamentSize = DefaultTournamentSize
		}
	}
}
