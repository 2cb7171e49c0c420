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

package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"sigs.k8s.io/evolutionary-algorithms/apis/config/v1alpha1"
	"sigs.k8s.io/evolutionary-algorithms/apis/config/validation"
)

// Options holds the flags of the run command. Flags that were set on the
// command line override the values of the config file.
type Options struct {
	ConfigFile string

	Problem           string
	Dimensions        int32
	Objectives        int32
	Algorithm         string
	PopulationSize    int32
	MaxGenerations    int32
	TimeLimit         time.Duration
	TerminationPolicy string
	Seed              uint64
	Parallelism       int32
	FitnessCacheTTL   time.Duration

	CR             float64
	F              float64
	CrossoverRate  float64
	MutationRate   float64
	TournamentSize int32

	ReportPath      string
	PlotDir         string
	MetricsTextfile string
	ProgressEvery   int
}

// NewOptions returns options with the flag defaults.
func NewOptions() *Options {
	return &Options{
		Algorithm:         string(v1alpha1.DefaultAlgorithm),
		PopulationSize:    v1alpha1.DefaultPopulationSize,
		MaxGenerations:    v1alpha1.DefaultMaxGenerations,
		TerminationPolicy: string(v1alpha1.DefaultTerminationPolicy),
		Seed:              v1alpha1.DefaultSeed,
		CR:                v1alpha1.DefaultCR,
		F:                 v1alpha1.DefaultF,
		CrossoverRate:     v1alpha1.DefaultCrossoverRate,
		TournamentSize:    v1alpha1.DefaultTournamentSize,
		ProgressEvery:     10,
	}
}

// AddFlags adds flags for the run command to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to an OptimizationArgs file. Flags set on the command line take precedence.")

	fs.StringVar(&o.Problem, "problem", o.Problem, "Name or alias of the benchmark problem, see list-problems.")
	fs.Int32Var(&o.Dimensions, "dimensions", o.Dimensions, "Number of genes. 0 selects the problem default.")
	fs.Int32Var(&o.Objectives, "objectives", o.Objectives, "Number of objectives of scalable problems. 0 selects the problem default.")
	fs.StringVar(&o.Algorithm, "algorithm", o.Algorithm, "Breeding strategy, one of DE or NSGA-II.")
	fs.Int32Var(&o.PopulationSize, "population-size", o.PopulationSize, "Number of individuals kept per generation.")
	fs.Int32Var(&o.MaxGenerations, "max-generations", o.MaxGenerations, "Number of generations, the first one included.")
	fs.DurationVar(&o.TimeLimit, "time-limit", o.TimeLimit, "Wall time limit of the run. 0 disables it.")
	fs.StringVar(&o.TerminationPolicy, "termination-policy", o.TerminationPolicy, "How the generation count and time limit combine, All or Any.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Seed of the random source.")
	fs.Int32Var(&o.Parallelism, "parallelism", o.Parallelism, "Maximum concurrent fitness evaluations. 0 or 1 evaluates sequentially.")
	fs.DurationVar(&o.FitnessCacheTTL, "fitness-cache-ttl", o.FitnessCacheTTL, "Memoize fitness values for this long. 0 keeps them for the whole run. Unset disables the cache.")

	fs.Float64Var(&o.CR, "cr", o.CR, "DE crossover rate in [0, 1].")
	fs.Float64Var(&o.F, "factor", o.F, "DE differential weight.")
	fs.Float64Var(&o.CrossoverRate, "crossover-rate", o.CrossoverRate, "NSGA-II SBX crossover probability.")
	fs.Float64Var(&o.MutationRate, "mutation-rate", o.MutationRate, "NSGA-II per-gene mutation probability. Unset means 1/n.")
	fs.Int32Var(&o.TournamentSize, "tournament-size", o.TournamentSize, "NSGA-II tournament size.")

	fs.StringVarP(&o.ReportPath, "output", "o", o.ReportPath, "Write the YAML report to this file, - for stdout.")
	fs.StringVar(&o.PlotDir, "plot-dir", o.PlotDir, "Write an HTML plot of the best front into this directory (two objectives only).")
	fs.StringVar(&o.MetricsTextfile, "metrics-textfile", o.MetricsTextfile, "Write run metrics in Prometheus text format to this file.")
	fs.IntVar(&o.ProgressEvery, "progress-every", o.ProgressEvery, "Log progress every N generations at verbosity 4.")
}

// Config loads the config file, applies the flags that were set, defaults
// and validates the result.
func (o *Options) Config(fs *pflag.FlagSet) (*v1alpha1.OptimizationArgs, error) {
	args := &v1alpha1.OptimizationArgs{}
	if o.ConfigFile != "" {
		data, err := os.ReadFile(o.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, args); err != nil {
			return nil, fmt.Errorf("decoding config %s: %w", o.ConfigFile, err)
		}
	}

	o.applyTo(args, fs)
	v1alpha1.SetDefaults_OptimizationArgs(args)

	if errs := validation.ValidateOptimizationArgs(field.NewPath("args"), args); len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	return args, nil
}

func (o *Options) applyTo(args *v1alpha1.OptimizationArgs, fs *pflag.FlagSet) {
	set := func(name string) bool {
		return fs.Changed(name)
	}

	// The problem has no default, so an unset flag still fills a missing value.
	if set("problem") || args.Problem == "" {
		args.Problem = o.Problem
	}
	if set("dimensions") {
		args.ProblemOptions.Dimensions = o.Dimensions
	}
	if set("objectives") {
		args.ProblemOptions.Objectives = o.Objectives
	}
	if set("algorithm") {
		args.Algorithm = v1alpha1.Algorithm(o.Algorithm)
	}
	if set("population-size") {
		args.PopulationSize = o.PopulationSize
	}
	if set("max-generations") {
		args.MaxGenerations = o.MaxGenerations
	}
	if set("time-limit") {
		args.TimeLimit = &metav1.Duration{Duration: o.TimeLimit}
	}
	if set("termination-policy") {
		args.TerminationPolicy = v1alpha1.TerminationPolicy(o.TerminationPolicy)
	}
	if set("seed") {
		args.Seed = ptr.To(o.Seed)
	}
	if set("parallelism") {
		args.Parallelism = o.Parallelism
	}
	if set("fitness-cache-ttl") {
		args.FitnessCacheTTL = &metav1.Duration{Duration: o.FitnessCacheTTL}
	}

	if set("cr") || set("factor") {
		if args.DE == nil {
			args.DE = &v1alpha1.DEArgs{}
		}
		if set("cr") {
			args.DE.CR = ptr.To(o.CR)
		}
		if set("factor") {
			args.DE.F = ptr.To(o.F)
		}
	}
	if set("crossover-rate") || set("mutation-rate") || set("tournament-size") {
		if args.NSGAII == nil {
			args.NSGAII = &v1alpha1.NSGAIIArgs{}
		}
		if set("crossover-rate") {
			args.NSGAII.CrossoverRate = ptr.To(o.CrossoverRate)
		}
		if set("mutation-rate") {
			args.NSGAII.MutationRate = ptr.To(o.MutationRate)
		}
		if set("tournament-size") {
			args.NSGAII.TournamentSize = o.TournamentSize
		}
	}

	if set("output") {
		args.Output.ReportPath = o.ReportPath
	}
	if set("plot-dir") {
		args.Output.PlotDir = o.PlotDir
	}
	if set("metrics-textfile") {
		args.Output.MetricsTextfile = o.MetricsTextfile
	}
}
