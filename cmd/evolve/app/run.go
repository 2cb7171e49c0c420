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
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"sigs.k8s.io/evolutionary-algorithms/apis/config/v1alpha1"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/algorithms"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/benchmarks"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/metrics"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/util"
)

// Runner executes one configured optimization.
type Runner struct {
	Args          *v1alpha1.OptimizationArgs
	Clock         clock.Clock
	Out           io.Writer
	ProgressEvery int
}

// Run optimizes the configured problem, prints a summary to Out and writes
// the requested artifacts. The returned report is also what gets written to
// Args.Output.ReportPath.
func (r *Runner) Run(ctx context.Context) (*v1alpha1.OptimizationReport, error) {
	logger := klog.FromContext(ctx)
	args := r.Args

	problem, err := benchmarks.New(args.Problem, benchmarks.Options{
		Dimensions: int(args.ProblemOptions.Dimensions),
		Objectives: int(args.ProblemOptions.Objectives),
		Range:      args.ProblemOptions.Range,
		A:          args.ProblemOptions.A,
		B:          args.ProblemOptions.B,
	})
	if err != nil {
		return nil, err
	}
	oracle := problem
	if args.FitnessCacheTTL != nil {
		oracle = framework.NewCachedProblem(problem, args.FitnessCacheTTL.Duration)
	}

	seed := ptr.Deref(args.Seed, v1alpha1.DefaultSeed)
	rng := rand.New(rand.NewPCG(seed, seed))
	start := r.Clock.Now()

	alg, err := r.newAlgorithm(oracle, rng)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder(r.Clock)
	recorder.Start(alg)
	defer recorder.Forget(alg)
	alg.OnGenerationFinished(recorder.Observe)
	alg.OnGenerationFinished(metrics.LogProgress(logger, r.ProgressEvery))

	logger.V(2).Info("Starting optimization", "problem", problem.Name(), "algorithm", alg.Name(),
		"populationSize", args.PopulationSize, "maxGenerations", args.MaxGenerations, "seed", seed)

	if err := alg.Initialize(ctx); err != nil {
		return nil, err
	}
	for alg.State() == algorithms.Running {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("optimization interrupted after %d generations: %w", len(alg.Generations()), err)
		}
		if err := alg.Step(ctx); err != nil {
			return nil, err
		}
	}
	elapsed := r.Clock.Since(start)

	report := buildReport(alg, problem, args.Algorithm, seed, elapsed, r.Clock.Now())
	printSummary(r.Out, report)

	if err := writeReport(args.Output.ReportPath, report, r.Out); err != nil {
		return nil, err
	}
	if dir := args.Output.PlotDir; dir != "" {
		if alg.LastGeneration().NumObjectives() != 2 {
			logger.Info("Skipping plot, only two objectives can be plotted", "objectives", alg.LastGeneration().NumObjectives())
		} else {
			best := alg.GetBestIndividuals(alg.LastGeneration())
			path, err := util.PlotResults(framework.ObjectivePoints(best), problem, alg.Name(), dir)
			if err != nil {
				return nil, fmt.Errorf("plotting results: %w", err)
			}
			logger.V(2).Info("Wrote plot", "path", path)
		}
	}
	if path := args.Output.MetricsTextfile; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			return nil, fmt.Errorf("writing metrics: %w", err)
		}
	}
	return report, nil
}

func (r *Runner) newAlgorithm(problem framework.Problem, rng *rand.Rand) (*algorithms.EvolutionaryAlgorithm, error) {
	args := r.Args
	base := algorithms.OptimizationParameters{
		PopulationSize:      int(args.PopulationSize),
		TerminationCriteria: []framework.TerminationCriterion{framework.GenerationCount(int(args.MaxGenerations))},
		Parallelism:         int(args.Parallelism),
	}
	if args.TimeLimit != nil && args.TimeLimit.Duration > 0 {
		base.TerminationCriteria = append(base.TerminationCriteria, framework.NewTimeLimit(r.Clock, args.TimeLimit.Duration))
	}
	if args.TerminationPolicy == v1alpha1.TerminationPolicyAny {
		base.TerminationPolicy = algorithms.TerminateWhenAny
	}

	switch args.Algorithm {
	case v1alpha1.AlgorithmDE:
		params := algorithms.DEParameters{OptimizationParameters: base, CR: algorithms.DefaultCR, F: algorithms.DefaultF}
		if args.DE != nil {
			params.CR = ptr.Deref(args.DE.CR, params.CR)
			params.F = ptr.Deref(args.DE.F, params.F)
		}
		return algorithms.NewDifferentialEvolution(problem, params, rng)
	case v1alpha1.AlgorithmNSGAII:
		bounded, ok := problem.(framework.BoundedProblem)
		if !ok {
			return nil, fmt.Errorf("%s needs a problem with bounds, %s has none", algorithms.NSGAIIName, problem.Name())
		}
		params := algorithms.NSGAIIParameters{
			OptimizationParameters: base,
			CrossoverRate:          algorithms.DefaultCrossoverRate,
			TournamentSize:         algorithms.DefaultTournamentSize,
		}
		if args.NSGAII != nil {
			params.CrossoverRate = ptr.Deref(args.NSGAII.CrossoverRate, params.CrossoverRate)
			params.MutationRate = ptr.Deref(args.NSGAII.MutationRate, params.MutationRate)
			if args.NSGAII.TournamentSize > 0 {
				params.TournamentSize = int(args.NSGAII.TournamentSize)
			}
		}
		return algorithms.NewNSGAII(bounded, params, rng)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", args.Algorithm)
	}
}

func buildReport(alg *algorithms.EvolutionaryAlgorithm, problem framework.Problem, algorithm v1alpha1.Algorithm, seed uint64, elapsed time.Duration, now time.Time) *v1alpha1.OptimizationReport {
	last := alg.LastGeneration()
	stats := alg.Stats()
	best := alg.GetBestIndividuals(last)
	distances := framework.CrowdingDistances(best)

	report := &v1alpha1.OptimizationReport{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.GroupVersion,
			Kind:       v1alpha1.OptimizationReportKind,
		},
		RunID:              uuid.NewString(),
		GeneratedAt:        metav1.NewTime(now),
		Problem:            alg.Problem().Name(),
		Algorithm:          algorithm,
		Seed:               seed,
		Generations:        len(alg.Generations()),
		Evaluations:        stats.Evaluations,
		Admitted:           stats.Admitted,
		RejectedInfeasible: stats.RejectedInfeasible,
		Duration:           metav1.Duration{Duration: elapsed},
		Solutions:          make([]v1alpha1.OptimizationSolution, len(best)),
	}
	for _, s := range util.SummarizeObjectives(framework.ObjectivePoints(last.Population())) {
		report.Summary = append(report.Summary, v1alpha1.ObjectiveSummary(s))
	}
	if d, ok := util.FrontDistance(framework.ObjectivePoints(best), problem); ok {
		report.GenerationalDistance = &d
	}
	for i, ind := range best {
		solution := v1alpha1.OptimizationSolution{
			Rank:       ind.Rank(),
			Genes:      ind.Genes(),
			Objectives: ind.Fitness(),
		}
		if !math.IsInf(distances[i], 1) {
			d := distances[i]
			solution.CrowdingDistance = &d
		}
		report.Solutions[i] = solution
	}
	return report
}

func printSummary(out io.Writer, report *v1alpha1.OptimizationReport) {
	fmt.Fprintf(out, "%s on %s: %s generations, %s evaluations in %s\n",
		report.Algorithm, report.Problem,
		humanize.Comma(int64(report.Generations)), humanize.Comma(int64(report.Evaluations)),
		report.Duration.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "offspring admitted: %s, rejected as infeasible: %s\n",
		humanize.Comma(int64(report.Admitted)), humanize.Comma(int64(report.RejectedInfeasible)))

	if len(report.Solutions) == 1 {
		s := report.Solutions[0]
		fmt.Fprintf(out, "best: %s at %s\n", formatFloats(s.Objectives), formatFloats(s.Genes))
		return
	}
	fmt.Fprintf(out, "best front: %d solutions\n", len(report.Solutions))
	if report.GenerationalDistance != nil {
		fmt.Fprintf(out, "distance to true front: %s\n", humanize.FtoaWithDigits(*report.GenerationalDistance, 6))
	}
	for m, s := range report.Summary {
		fmt.Fprintf(out, "  f%d: min %s, mean %s, max %s\n", m+1,
			humanize.FtoaWithDigits(s.Min, 6), humanize.FtoaWithDigits(s.Mean, 6), humanize.FtoaWithDigits(s.Max, 6))
	}
}

func writeReport(path string, report *v1alpha1.OptimizationReport, stdout io.Writer) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport decodes a report written by Run.
func ReadReport(path string) (*v1alpha1.OptimizationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	report := &v1alpha1.OptimizationReport{}
	if err := yaml.Unmarshal(data, report); err != nil {
		return nil, err
	}
	if report.Kind != v1alpha1.OptimizationReportKind {
		return nil, fmt.Errorf("%s is not an %s", path, v1alpha1.OptimizationReportKind)
	}
	return report, nil
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = humanize.FtoaWithDigits(v, 6)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
