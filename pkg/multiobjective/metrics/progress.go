package metrics

import (
	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/algorithms"
)

// LogProgress returns a generation listener that logs a progress line at V(4)
// every `every` generations. every < 1 logs every generation.
func LogProgress(logger logr.Logger, every int) algorithms.GenerationListener {
	every = max(every, 1)
	return func(a *algorithms.EvolutionaryAlgorithm) {
		generation := len(a.Generations()) - 1
		if generation%every != 0 {
			return
		}
		gen := a.LastGeneration()
		stats := a.Stats()
		best := a.GetBestIndividuals(gen)

		kv := []interface{}{
			"algorithm", a.Name(),
			"problem", a.Problem().Name(),
			"generation", generation,
			"evaluations", humanize.Comma(int64(stats.Evaluations)),
			"bestFront", len(best),
		}
		if len(best) == 1 {
			kv = append(kv, "bestFitness", best[0].Fitness())
		}
		logger.V(4).Info("Optimization progress", kv...)
	}
}
