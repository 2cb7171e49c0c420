package metrics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/algorithms"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/benchmarks"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

func newSphereRun(t *testing.T, generations int) *algorithms.EvolutionaryAlgorithm {
	t.Helper()
	sphere, err := benchmarks.NewSphere(2)
	require.NoError(t, err)
	a, err := algorithms.NewDifferentialEvolution(sphere,
		algorithms.NewDEParameters(10, framework.GenerationCount(generations)),
		rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	return a
}

func TestRecorder(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	r := NewRecorder(clk)
	a := newSphereRun(t, 4)

	r.Start(a)
	a.OnGenerationFinished(func(alg *algorithms.EvolutionaryAlgorithm) {
		clk.Step(time.Second)
		r.Observe(alg)
	})
	require.NoError(t, a.Optimize(context.Background()))

	stats := a.Stats()
	assert.Equal(t, 3.0, testutil.ToFloat64(r.generations.WithLabelValues(algorithms.DEName, benchmarks.SphereName)))
	assert.Equal(t, float64(stats.Evaluations), testutil.ToFloat64(r.evaluations.WithLabelValues(algorithms.DEName, benchmarks.SphereName)))
	assert.Equal(t, float64(stats.Admitted), testutil.ToFloat64(r.admitted.WithLabelValues(algorithms.DEName, benchmarks.SphereName)))
	assert.Zero(t, testutil.ToFloat64(r.rejected.WithLabelValues(algorithms.DEName, benchmarks.SphereName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.frontSize.WithLabelValues(algorithms.DEName, benchmarks.SphereName)))

	best := a.GetBestIndividuals(a.LastGeneration())
	assert.Equal(t, best[0].Objective(0), testutil.ToFloat64(r.bestFitness.WithLabelValues(algorithms.DEName, benchmarks.SphereName, "0")))

	expected := fmt.Sprintf(`
# HELP evolve_optimization_generations_total Number of bred generations
# TYPE evolve_optimization_generations_total counter
evolve_optimization_generations_total{algorithm="%s",problem="%s"} 3
`, algorithms.DEName, benchmarks.SphereName)
	assert.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "evolve_optimization_generations_total"))

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, r.WriteTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `evolve_optimization_generation_duration_seconds_sum{algorithm="DE",problem="sphere"} 3`)

	r.Forget(a)
	assert.Empty(t, r.runs)
}

func TestRecorderIgnoresUninitializedRun(t *testing.T) {
	r := NewRecorder(testingclock.NewFakeClock(time.Unix(0, 0)))
	r.Observe(newSphereRun(t, 2))
	assert.Zero(t, testutil.CollectAndCount(r.generations))
}

func TestLogProgress(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 4})

	a := newSphereRun(t, 7)
	a.OnGenerationFinished(LogProgress(logger, 2))
	require.NoError(t, a.Optimize(context.Background()))

	// Generations 2, 4 and 6.
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"generation"=2`)
	assert.Contains(t, lines[0], `"bestFitness"`)
	assert.Contains(t, lines[2], `"evaluations"="70"`)
}

func TestLogProgressNeedsV4(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 3})

	a := newSphereRun(t, 5)
	a.OnGenerationFinished(LogProgress(logger, 1))
	require.NoError(t, a.Optimize(context.Background()))

	assert.Empty(t, lines)
}
