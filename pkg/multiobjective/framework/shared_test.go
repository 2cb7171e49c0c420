package framework

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func evaluated(points ...ObjectiveSpacePoint) []*EvaluatedIndividual {
	pop := make([]*EvaluatedIndividual, len(points))
	for i, p := range points {
		pop[i] = NewIndividual(float64(i)).Evaluate(p)
	}
	return pop
}

func TestDominates(t *testing.T) {
	tests := []struct {
		name string
		a, b ObjectiveSpacePoint
		want bool
	}{
		{"better in all", ObjectiveSpacePoint{1, 1}, ObjectiveSpacePoint{2, 2}, true},
		{"better in one, equal in other", ObjectiveSpacePoint{1, 2}, ObjectiveSpacePoint{2, 2}, true},
		{"equal", ObjectiveSpacePoint{1, 2}, ObjectiveSpacePoint{1, 2}, false},
		{"trade-off", ObjectiveSpacePoint{1, 3}, ObjectiveSpacePoint{2, 2}, false},
		{"worse", ObjectiveSpacePoint{3, 3}, ObjectiveSpacePoint{2, 2}, false},
		{"single objective less", ObjectiveSpacePoint{1}, ObjectiveSpacePoint{2}, true},
		{"single objective equal", ObjectiveSpacePoint{2}, ObjectiveSpacePoint{2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dominates(tt.a, tt.b))
		})
	}
}

func TestDominatesIsIrreflexiveAndAsymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		a := ObjectiveSpacePoint{float64(rng.IntN(4)), float64(rng.IntN(4)), float64(rng.IntN(4))}
		b := ObjectiveSpacePoint{float64(rng.IntN(4)), float64(rng.IntN(4)), float64(rng.IntN(4))}
		if Dominates(a, a) {
			t.Fatalf("%v dominates itself", a)
		}
		if Dominates(a, b) && Dominates(b, a) {
			t.Fatalf("%v and %v dominate each other", a, b)
		}
	}
}

func TestNonDominatedSortRanks(t *testing.T) {
	pop := evaluated(
		ObjectiveSpacePoint{1, 5},
		ObjectiveSpacePoint{2, 2},
		ObjectiveSpacePoint{5, 1},
		ObjectiveSpacePoint{3, 3},
		ObjectiveSpacePoint{4, 4},
		ObjectiveSpacePoint{6, 6},
		ObjectiveSpacePoint{2, 2},
	)

	ranked := NonDominatedSort(pop)
	got := make([]int, len(ranked))
	for i, r := range ranked {
		got[i] = r.Rank()
		if r.EvaluatedIndividual != pop[i] {
			t.Errorf("result %d does not wrap input %d", i, i)
		}
	}

	want := []int{0, 0, 0, 1, 2, 3, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected ranks (-want +got):\n%s", diff)
	}
}

func TestNonDominatedFronts(t *testing.T) {
	pop := evaluated(
		ObjectiveSpacePoint{3, 3},
		ObjectiveSpacePoint{1, 1},
		ObjectiveSpacePoint{2, 2},
		ObjectiveSpacePoint{1, 4},
	)

	fronts := NonDominatedFronts(pop)
	assert.Len(t, fronts, 3)
	assert.Len(t, fronts[0], 1)
	assert.Len(t, fronts[1], 2)
	assert.Len(t, fronts[2], 1)
	assert.Same(t, pop[1], fronts[0][0].EvaluatedIndividual)
	assert.Same(t, pop[2], fronts[1][0].EvaluatedIndividual)
	assert.Same(t, pop[3], fronts[1][1].EvaluatedIndividual)
	assert.Same(t, pop[0], fronts[2][0].EvaluatedIndividual)
}

func TestNonDominatedSortRankZeroMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for round := 0; round < 20; round++ {
		points := make([]ObjectiveSpacePoint, 60)
		for i := range points {
			points[i] = ObjectiveSpacePoint{rng.Float64(), rng.Float64(), float64(rng.IntN(5))}
		}
		pop := evaluated(points...)
		ranked := NonDominatedSort(pop)

		for i := range pop {
			count := 0
			for j := range pop {
				if i != j && Dominates(points[j], points[i]) {
					count++
				}
			}
			if (count == 0) != (ranked[i].Rank() == 0) {
				t.Fatalf("round %d: individual %d has %d dominators but rank %d", round, i, count, ranked[i].Rank())
			}
		}
	}
}

func TestNonDominatedSortEmpty(t *testing.T) {
	assert.Empty(t, NonDominatedSort(nil))
	assert.Empty(t, NonDominatedFronts(nil))
}

func TestDistance(t *testing.T) {
	a := ObjectiveSpacePoint{0, 0}
	b := ObjectiveSpacePoint{3, 4}
	assert.InDelta(t, 5.0, Distance(a, b), 1e-12)
	assert.InDelta(t, 25.0, SquaredDistance(a, b), 1e-12)

	c := ObjectiveSpacePoint{1, 2, 3}
	d := ObjectiveSpacePoint{4, 6, 3}
	assert.Equal(t, 25.0, SquaredDistance(c, d))
	assert.Equal(t, ObjectiveSpacePoint{1, 2, 3}, c)
}
