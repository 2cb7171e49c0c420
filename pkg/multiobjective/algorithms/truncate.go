package algorithms

import (
	"sort"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// Truncate caps a ranked candidate pool at populationSize.
//
// With one objective the pool is sorted by fitness and the best are kept.
// With several objectives a pool that already fits is kept whole; otherwise
// fronts are admitted in rank order while they fit, and the first front that
// does not fit is reduced to its least crowded members.
func Truncate(ranked []*framework.ParetoEvaluatedIndividual, populationSize int) []*framework.ParetoEvaluatedIndividual {
	if len(ranked) == 0 {
		return nil
	}

	if ranked[0].NumObjectives() == 1 {
		sorted := make([]*framework.ParetoEvaluatedIndividual, len(ranked))
		copy(sorted, ranked)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Objective(0) < sorted[j].Objective(0)
		})
		if len(sorted) > populationSize {
			sorted = sorted[:populationSize]
		}
		return sorted
	}

	if len(ranked) <= populationSize {
		kept := make([]*framework.ParetoEvaluatedIndividual, len(ranked))
		copy(kept, ranked)
		return kept
	}

	fronts := groupByRank(ranked)
	population := make([]*framework.ParetoEvaluatedIndividual, 0, populationSize)
	for _, front := range fronts {
		remaining := populationSize - len(population)
		if remaining <= 0 {
			break
		}
		if len(front) <= remaining {
			population = append(population, front...)
			continue
		}

		// Add remaining individuals based on crowding distance
		distances := framework.CrowdingDistances(front)
		order := make([]int, len(front))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return distances[order[i]] > distances[order[j]]
		})
		for _, idx := range order[:remaining] {
			population = append(population, front[idx])
		}
		break
	}

	return population
}

// groupByRank splits a ranked population into fronts ordered by rank. Empty
// ranks are skipped.
func groupByRank(ranked []*framework.ParetoEvaluatedIndividual) [][]*framework.ParetoEvaluatedIndividual {
	maxRank := 0
	for _, ind := range ranked {
		maxRank = max(maxRank, ind.Rank())
	}
	byRank := make([][]*framework.ParetoEvaluatedIndividual, maxRank+1)
	for _, ind := range ranked {
		byRank[ind.Rank()] = append(byRank[ind.Rank()], ind)
	}

	fronts := byRank[:0]
	for _, front := range byRank {
		if len(front) > 0 {
			fronts = append(fronts, front)
		}
	}
	return fronts
}
