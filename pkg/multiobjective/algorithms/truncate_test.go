package algorithms

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

func genesOf(population []*framework.ParetoEvaluatedIndividual) []float64 {
	genes := make([]float64, len(population))
	for i, ind := range population {
		genes[i] = ind.Gene(0)
	}
	return genes
}

func TestTruncateSingleObjective(t *testing.T) {
	gen := generationOf(
		framework.ObjectiveSpacePoint{3},
		framework.ObjectiveSpacePoint{1},
		framework.ObjectiveSpacePoint{2},
		framework.ObjectiveSpacePoint{1},
		framework.ObjectiveSpacePoint{0},
	)

	got := Truncate(gen.Population(), 3)

	// Ties keep pool order.
	if diff := cmp.Diff([]float64{4, 1, 3}, genesOf(got)); diff != "" {
		t.Errorf("unexpected survivors (-want +got):\n%s", diff)
	}
}

func TestTruncateKeepsEverythingThatFits(t *testing.T) {
	gen := generationOf(
		framework.ObjectiveSpacePoint{1, 1},
		framework.ObjectiveSpacePoint{2, 2},
		framework.ObjectiveSpacePoint{3, 3},
	)

	got := Truncate(gen.Population(), 3)
	assert.ElementsMatch(t, gen.Population(), got)

	got = Truncate(gen.Population(), 10)
	assert.ElementsMatch(t, gen.Population(), got)
}

func TestTruncateWholeFrontsThenCrowding(t *testing.T) {
	gen := generationOf(
		// rank 0
		framework.ObjectiveSpacePoint{0, 5},
		framework.ObjectiveSpacePoint{5, 0},
		// rank 1
		framework.ObjectiveSpacePoint{1, 11},
		framework.ObjectiveSpacePoint{5, 6},
		framework.ObjectiveSpacePoint{5.5, 5.5},
		framework.ObjectiveSpacePoint{11, 1},
		// rank 2
		framework.ObjectiveSpacePoint{12, 12},
	)

	got := Truncate(gen.Population(), 5)

	require.Len(t, got, 5)
	assert.Equal(t, []float64{0, 1}, genesOf(got[:2]))
	// The two boundary members of rank 1 are kept, then the less crowded
	// of the two interior ones.
	assert.ElementsMatch(t, []float64{2, 5, 4}, genesOf(got[2:]))
	for _, ind := range got {
		assert.NotEqual(t, 2, ind.Rank())
	}
}

func TestTruncateNonLoss(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for round := 0; round < 30; round++ {
		points := make([]framework.ObjectiveSpacePoint, 1+rng.IntN(30))
		for i := range points {
			points[i] = framework.ObjectiveSpacePoint{rng.Float64(), rng.Float64()}
		}
		gen := generationOf(points...)

		got := Truncate(gen.Population(), len(points)+rng.IntN(5))
		assert.ElementsMatch(t, gen.Population(), got)
	}
}

func TestTruncateExactSize(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	points := make([]framework.ObjectiveSpacePoint, 80)
	for i := range points {
		points[i] = framework.ObjectiveSpacePoint{rng.Float64(), rng.Float64(), rng.Float64()}
	}
	gen := generationOf(points...)

	got := Truncate(gen.Population(), 50)
	require.Len(t, got, 50)

	// No kept member may be worse ranked than a dropped one, except within
	// the partially admitted front.
	maxKept := 0
	for _, ind := range got {
		maxKept = max(maxKept, ind.Rank())
	}
	kept := make(map[*framework.ParetoEvaluatedIndividual]bool)
	for _, ind := range got {
		kept[ind] = true
	}
	for _, ind := range gen.Population() {
		if !kept[ind] {
			assert.GreaterOrEqual(t, ind.Rank(), maxKept)
		}
	}
}

func TestTruncateEmpty(t *testing.T) {
	assert.Empty(t, Truncate(nil, 4))
}
