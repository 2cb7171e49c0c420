package algorithms

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/benchmarks"
	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

func optimizeDE(t *testing.T, problem framework.Problem, popSize, generations int) *EvolutionaryAlgorithm {
	t.Helper()
	a, err := NewDifferentialEvolution(problem,
		NewDEParameters(popSize, framework.GenerationCount(generations)),
		rand.New(rand.NewPCG(0, 0)))
	require.NoError(t, err)
	require.NoError(t, a.Optimize(context.Background()))
	require.Len(t, a.Generations(), generations)
	return a
}

func TestDESphere(t *testing.T) {
	sphere, err := benchmarks.NewSphere(2)
	require.NoError(t, err)

	a := optimizeDE(t, sphere, 100, 100)

	best := a.GetBestIndividuals(a.LastGeneration())
	require.Len(t, best, 1)
	assert.InDeltaSlice(t, []float64{0, 0}, best[0].Genes(), 0.01)
	assert.InDelta(t, 0, best[0].Objective(0), 0.01)
}

func TestDEBooth(t *testing.T) {
	booth, err := benchmarks.NewBooth(10)
	require.NoError(t, err)

	a := optimizeDE(t, booth, 100, 100)

	best := a.GetBestIndividuals(a.LastGeneration())
	require.Len(t, best, 1)
	assert.InDeltaSlice(t, []float64{1, 3}, best[0].Genes(), 0.01)
	assert.InDelta(t, 0, best[0].Objective(0), 0.01)
	for _, ind := range a.LastGeneration().Population() {
		assert.True(t, booth.IsFeasible(ind.Individual), "infeasible survivor %s", ind)
	}
}

func TestDESchaffer(t *testing.T) {
	schaffer, err := benchmarks.NewSchaffer(benchmarks.MinimumSchafferA)
	require.NoError(t, err)

	a := optimizeDE(t, schaffer, 100, 100)

	front := a.LastGeneration().Front(0)
	assert.GreaterOrEqual(t, len(front), 50)
	for _, ind := range front {
		if ind.Objective(0) > 1 {
			assert.Less(t, ind.Objective(1), 1.0, "%s is not a trade-off", ind)
		}
		if ind.Objective(1) > 1 {
			assert.Less(t, ind.Objective(0), 1.0, "%s is not a trade-off", ind)
		}
	}
	for i := range front {
		for j := range front {
			assert.False(t, framework.Dominates(front[i].Fitness(), front[j].Fitness()))
		}
	}
}
