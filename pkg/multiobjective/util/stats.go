package util

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// ObjectiveSummary describes the spread of one objective over a set of
// solutions.
type ObjectiveSummary struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// SummarizeObjectives returns one summary per objective. All points must have
// the same dimension.
func SummarizeObjectives(points []framework.ObjectiveSpacePoint) []ObjectiveSummary {
	if len(points) == 0 {
		return nil
	}

	summaries := make([]ObjectiveSummary, len(points[0]))
	column := make([]float64, len(points))
	for m := range summaries {
		for i, p := range points {
			column[i] = p[m]
		}
		mean, std := stat.MeanStdDev(column, nil)
		summaries[m] = ObjectiveSummary{
			Min:    floats.Min(column),
			Max:    floats.Max(column),
			Mean:   mean,
			StdDev: std,
		}
	}
	return summaries
}

// GenerationalDistance is the mean Euclidean distance from every found point
// to its nearest point on the reference front. Smaller is better; 0 means
// every point lies on the reference.
func GenerationalDistance(found, reference []framework.ObjectiveSpacePoint) float64 {
	if len(found) == 0 || len(reference) == 0 {
		return 0
	}

	nearest := make([]float64, len(found))
	for i, p := range found {
		best := framework.SquaredDistance(p, reference[0])
		for _, r := range reference[1:] {
			best = min(best, framework.SquaredDistance(p, r))
		}
		nearest[i] = math.Sqrt(best)
	}
	return stat.Mean(nearest, nil)
}

// referenceFrontPoints is the resolution of the true front used as reference
// by FrontDistance.
const referenceFrontPoints = 1000

// FrontDistance returns the generational distance from points to the true
// Pareto front of problem. It returns false when the problem does not know its
// front.
func FrontDistance(points []framework.ObjectiveSpacePoint, problem framework.Problem) (float64, bool) {
	provider, ok := problem.(framework.ParetoFrontProvider)
	if !ok || len(points) == 0 {
		return 0, false
	}
	reference := provider.TrueParetoFront(referenceFrontPoints)
	if len(reference) == 0 {
		return 0, false
	}
	return GenerationalDistance(points, reference), true
}
