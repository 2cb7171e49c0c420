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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	testingclock "k8s.io/utils/clock/testing"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/evolutionary-algorithms/apis/config/v1alpha1"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/util"
)

func parseOptions(t *testing.T, args ...string) (*Options, *pflag.FlagSet) {
	t.Helper()
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return opts, fs
}

func TestOptionsConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
apiVersion: evolve.x-k8s.io/v1alpha1
kind: OptimizationArgs
problem: zdt1
algorithm: NSGA-II
populationSize: 40
maxGenerations: 50
timeLimit: 1m
nsgaII:
  mutationRate: 0.2
`), 0o644))

	opts, fs := parseOptions(t, "--config", config, "--max-generations", "7", "--seed", "9", "--tournament-size", "3")
	args, err := opts.Config(fs)
	require.NoError(t, err)

	assert.Equal(t, "zdt1", args.Problem)
	assert.Equal(t, v1alpha1.AlgorithmNSGAII, args.Algorithm)
	assert.Equal(t, int32(40), args.PopulationSize)
	assert.Equal(t, int32(7), args.MaxGenerations)
	assert.Equal(t, &metav1.Duration{Duration: time.Minute}, args.TimeLimit)
	assert.Equal(t, ptr.To[uint64](9), args.Seed)
	assert.Equal(t, &v1alpha1.NSGAIIArgs{
		CrossoverRate:  ptr.To(v1alpha1.DefaultCrossoverRate),
		MutationRate:   ptr.To(0.2),
		TournamentSize: 3,
	}, args.NSGAII)
	assert.Nil(t, args.DE)
}

func TestOptionsConfigErrors(t *testing.T) {
	opts, fs := parseOptions(t)
	_, err := opts.Config(fs)
	assert.ErrorContains(t, err, "args.problem")

	opts, fs = parseOptions(t, "--problem", "sphere", "--population-size", "3")
	_, err = opts.Config(fs)
	assert.ErrorContains(t, err, "args.populationSize")

	config := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(config, []byte("problem: sphere\nunknownField: 1\n"), 0o644))
	opts, fs = parseOptions(t, "--config", config)
	_, err = opts.Config(fs)
	assert.ErrorContains(t, err, "decoding config")
}

func newRunner(t *testing.T, modify func(*v1alpha1.OptimizationArgs)) (*Runner, *bytes.Buffer) {
	t.Helper()
	args := &v1alpha1.OptimizationArgs{
		Problem:        "sphere",
		PopulationSize: 20,
		MaxGenerations: 30,
	}
	modify(args)
	v1alpha1.SetDefaults_OptimizationArgs(args)

	out := &bytes.Buffer{}
	return &Runner{
		Args:          args,
		Clock:         testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Out:           out,
		ProgressEvery: 10,
	}, out
}

func TestRunnerSingleObjective(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.yaml")
	runner, out := newRunner(t, func(a *v1alpha1.OptimizationArgs) {
		a.Output.ReportPath = reportPath
	})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "DE on sphere: 30 generations, 600 evaluations")
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 30, report.Generations)
	require.Len(t, report.Solutions, 1)
	assert.Nil(t, report.Solutions[0].CrowdingDistance)
	require.Len(t, report.Summary, 1)
	assert.Nil(t, report.GenerationalDistance)
	assert.LessOrEqual(t, report.Summary[0].Min, report.Summary[0].Mean)

	read, err := ReadReport(reportPath)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, read.RunID)
	assert.Equal(t, report.Solutions, read.Solutions)
}

func TestRunnerIsReproducible(t *testing.T) {
	first, _ := newRunner(t, func(a *v1alpha1.OptimizationArgs) { a.Seed = ptr.To[uint64](3) })
	second, _ := newRunner(t, func(a *v1alpha1.OptimizationArgs) {
		a.Seed = ptr.To[uint64](3)
		a.Parallelism = 4
		a.FitnessCacheTTL = &metav1.Duration{}
	})

	r1, err := first.Run(context.Background())
	require.NoError(t, err)
	r2, err := second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r1.Solutions, r2.Solutions)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestRunnerMultiObjectiveArtifacts(t *testing.T) {
	dir := t.TempDir()
	runner, out := newRunner(t, func(a *v1alpha1.OptimizationArgs) {
		a.Problem = "zdt1"
		a.ProblemOptions.Dimensions = 5
		a.Algorithm = v1alpha1.AlgorithmNSGAII
		a.MaxGenerations = 10
		a.FitnessCacheTTL = &metav1.Duration{Duration: time.Minute}
		a.Output.PlotDir = dir
		a.Output.MetricsTextfile = filepath.Join(dir, "metrics.prom")
	})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "best front:")
	assert.Contains(t, out.String(), "distance to true front:")
	require.NotNil(t, report.GenerationalDistance)
	assert.Positive(t, *report.GenerationalDistance)
	assert.NotEmpty(t, report.Solutions)
	assert.Len(t, report.Summary, 2)
	for _, s := range report.Solutions {
		assert.Equal(t, 0, s.Rank)
		assert.Len(t, s.Objectives, 2)
	}
	assert.FileExists(t, filepath.Join(dir, util.PlotFileName("zdt1", "NSGA-II")))

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `evolve_optimization_generations_total{algorithm="NSGA-II",problem="zdt1"} 9`)
}

func TestRunnerInterrupted(t *testing.T) {
	runner, _ := newRunner(t, func(*v1alpha1.OptimizationArgs) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerNSGAIISingleObjective(t *testing.T) {
	runner, _ := newRunner(t, func(a *v1alpha1.OptimizationArgs) {
		a.Problem = "booth"
		a.Algorithm = v1alpha1.AlgorithmNSGAII
	})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Solutions, 1)
}

func TestRunCommand(t *testing.T) {
	cmd := NewEvolveCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"run", "--problem", "schaffer", "--population-size", "8", "--max-generations", "5", "-o", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "DE on schaffer")
	assert.Contains(t, out.String(), "kind: OptimizationReport")
}

func TestListProblems(t *testing.T) {
	cmd := NewEvolveCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"list-problems"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "NAME")
	for _, name := range []string{"sphere", "booth", "rosenbrock", "schaffer", "zdt1", "zdt2", "dtlz2"} {
		assert.Contains(t, out.String(), name)
	}
}
