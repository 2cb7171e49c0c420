package framework

import (
	"math"
	"sort"
)

// CrowdingDistances calculates the crowding distance of every member of a
// front. The result is aligned with front, which is left untouched. Boundary
// members of any objective get +Inf; objectives with zero range contribute
// nothing.
func CrowdingDistances(front []*ParetoEvaluatedIndividual) []float64 {
	distances := make([]float64, len(front))
	if len(front) <= 2 {
		for i := range distances {
			distances[i] = math.Inf(1)
		}
		return distances
	}

	order := make([]int, len(front))
	numObjectives := front[0].NumObjectives()
	for m := 0; m < numObjectives; m++ {
		for i := range order {
			order[i] = i
		}
		// Sort by each objective
		sort.SliceStable(order, func(i, j int) bool {
			return front[order[i]].fitness[m] < front[order[j]].fitness[m]
		})

		first, last := order[0], order[len(order)-1]
		distances[first] = math.Inf(1)
		distances[last] = math.Inf(1)

		objectiveRange := front[last].fitness[m] - front[first].fitness[m]
		if objectiveRange == 0 {
			continue
		}

		for k := 1; k < len(order)-1; k++ {
			idx := order[k]
			if math.IsInf(distances[idx], 1) {
				continue
			}
			distances[idx] += (front[order[k+1]].fitness[m] - front[order[k-1]].fitness[m]) / objectiveRange
		}
	}

	return distances
}

// CrowdingDistancesByRank calculates crowding distances separately inside
// each rank of the population. The result is aligned with population.
func CrowdingDistancesByRank(population []*ParetoEvaluatedIndividual) []float64 {
	groups := make(map[int][]int)
	for i, ind := range population {
		groups[ind.rank] = append(groups[ind.rank], i)
	}

	distances := make([]float64, len(population))
	for _, members := range groups {
		front := make([]*ParetoEvaluatedIndividual, len(members))
		for k, idx := range members {
			front[k] = population[idx]
		}
		for k, d := range CrowdingDistances(front) {
			distances[members[k]] = d
		}
	}
	return distances
}
