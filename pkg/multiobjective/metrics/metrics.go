package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"k8s.io/utils/clock"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/algorithms"
)

const (
	namespace = "evolve"
	subsystem = "optimization"
)

// Recorder exports the progress of runs as Prometheus metrics. Register
// Recorder.Observe as a generation listener.
type Recorder struct {
	registry *prometheus.Registry
	clock    clock.PassiveClock

	generations      *prometheus.CounterVec
	evaluations      *prometheus.CounterVec
	admitted         *prometheus.CounterVec
	rejected         *prometheus.CounterVec
	frontSize        *prometheus.GaugeVec
	bestFitness      *prometheus.GaugeVec
	generationLength *prometheus.HistogramVec

	mu   sync.Mutex
	runs map[*algorithms.EvolutionaryAlgorithm]*runState
}

type runState struct {
	stats algorithms.Stats
	last  time.Time
}

// NewRecorder creates a recorder with its own registry. clk measures the
// time between generations.
func NewRecorder(clk clock.PassiveClock) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"algorithm", "problem"}

	return &Recorder{
		registry: reg,
		clock:    clk,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "generations_total",
			Help:      "Number of bred generations",
		}, labels),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fitness_evaluations_total",
			Help:      "Number of fitness evaluations, first generation included",
		}, labels),
		admitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "offspring_admitted_total",
			Help:      "Number of offspring admitted to a candidate pool",
		}, labels),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "offspring_rejected_infeasible_total",
			Help:      "Number of offspring discarded as infeasible",
		}, labels),
		frontSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_front_size",
			Help:      "Number of individuals in the best front of the last generation",
		}, labels),
		bestFitness: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_fitness",
			Help:      "Lowest value of each objective in the last generation",
		}, append(labels, "objective")),
		generationLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "generation_duration_seconds",
			Help:      "Time between two finished generations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, labels),
		runs: make(map[*algorithms.EvolutionaryAlgorithm]*runState),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Start marks the beginning of a run, so the first generation duration is
// measured from here. Call it before Optimize.
func (r *Recorder) Start(a *algorithms.EvolutionaryAlgorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state(a).last = r.clock.Now()
}

// Observe records the newest generation of a.
func (r *Recorder) Observe(a *algorithms.EvolutionaryAlgorithm) {
	gen := a.LastGeneration()
	if gen == nil {
		return
	}
	algorithm, problem := a.Name(), a.Problem().Name()

	r.mu.Lock()
	state := r.state(a)
	stats := a.Stats()
	prev := state.stats
	state.stats = stats
	now := r.clock.Now()
	since := now.Sub(state.last)
	state.last = now
	r.mu.Unlock()

	r.generations.WithLabelValues(algorithm, problem).Inc()
	r.evaluations.WithLabelValues(algorithm, problem).Add(float64(stats.Evaluations - prev.Evaluations))
	r.admitted.WithLabelValues(algorithm, problem).Add(float64(stats.Admitted - prev.Admitted))
	r.rejected.WithLabelValues(algorithm, problem).Add(float64(stats.RejectedInfeasible - prev.RejectedInfeasible))
	r.generationLength.WithLabelValues(algorithm, problem).Observe(since.Seconds())

	best := a.GetBestIndividuals(gen)
	r.frontSize.WithLabelValues(algorithm, problem).Set(float64(len(best)))
	for m := 0; m < gen.NumObjectives(); m++ {
		lowest := gen.At(0).Objective(m)
		for i := 1; i < gen.Len(); i++ {
			lowest = min(lowest, gen.At(i).Objective(m))
		}
		r.bestFitness.WithLabelValues(algorithm, problem, strconv.Itoa(m)).Set(lowest)
	}
}

// Forget drops the bookkeeping of a finished run. Exported series are kept.
func (r *Recorder) Forget(a *algorithms.EvolutionaryAlgorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, a)
}

// WriteTextfile writes the current metrics in the text exposition format,
// for collection by the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) state(a *algorithms.EvolutionaryAlgorithm) *runState {
	s, ok := r.runs[a]
	if !ok {
		s = &runState{last: r.clock.Now()}
		r.runs[a] = s
	}
	return s
}
