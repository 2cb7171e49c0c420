package framework

import (
	"gonum.org/v1/gonum/floats"
)

// Dominates checks if fitness vector a Pareto-dominates b under minimization:
// a is no worse in every objective and strictly better in at least one.
func Dominates(a, b ObjectiveSpacePoint) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort ranks the population with the fast non-dominated sort.
// The result is aligned with the input: result[i] wraps population[i].
func NonDominatedSort(population []*EvaluatedIndividual) []*ParetoEvaluatedIndividual {
	ranks, _ := nonDominatedRanks(population)
	ranked := make([]*ParetoEvaluatedIndividual, len(population))
	for i, ind := range population {
		ranked[i] = ind.WithRank(ranks[i])
	}
	return ranked
}

// NonDominatedFronts ranks the population and groups it into fronts, front 0
// first. Members of a front keep their population order.
func NonDominatedFronts(population []*EvaluatedIndividual) [][]*ParetoEvaluatedIndividual {
	ranks, numFronts := nonDominatedRanks(population)
	fronts := make([][]*ParetoEvaluatedIndividual, numFronts)
	for i, ind := range population {
		fronts[ranks[i]] = append(fronts[ranks[i]], ind.WithRank(ranks[i]))
	}
	return fronts
}

// nonDominatedRanks returns the front index of every individual and the
// number of fronts. Every unordered pair is compared once in each direction.
func nonDominatedRanks(population []*EvaluatedIndividual) ([]int, int) {
	n := len(population)
	dominated := make([][]int, n)
	domCount := make([]int, n)

	// Calculate domination for each pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if Dominates(population[i].fitness, population[j].fitness) {
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			} else if Dominates(population[j].fitness, population[i].fitness) {
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	ranks := make([]int, n)

	// Find first front
	var currentFront []int
	for i := 0; i < n; i++ {
		if domCount[i] == 0 {
			currentFront = append(currentFront, i)
		}
	}

	// Find subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		var nextFront []int
		for _, idx := range currentFront {
			ranks[idx] = frontIndex
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		frontIndex++
		currentFront = nextFront
	}

	return ranks, frontIndex
}

// Distance returns the Euclidean distance between two fitness vectors.
func Distance(a, b ObjectiveSpacePoint) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredDistance returns the squared Euclidean distance between two fitness
// vectors. Cheaper than Distance when only an ordering is needed.
func SquaredDistance(a, b ObjectiveSpacePoint) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}
