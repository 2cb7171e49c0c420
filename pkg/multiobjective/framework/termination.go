package framework

import (
	"context"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"
)

// AlgorithmState is the read-only view of a run handed to termination
// criteria.
type AlgorithmState interface {
	// Generations returns the generations produced so far, oldest first.
	Generations() []*Generation
}

// TerminationCriterion is consulted once per generation.
type TerminationCriterion interface {
	ShouldTerminate(AlgorithmState) bool
}

// TerminationFunc adapts a plain function to TerminationCriterion.
type TerminationFunc func(AlgorithmState) bool

func (f TerminationFunc) ShouldTerminate(state AlgorithmState) bool {
	return f(state)
}

type generationCount struct {
	n int
}

// GenerationCount stops once at least n generations exist, generation 0
// included.
func GenerationCount(n int) TerminationCriterion {
	return &generationCount{n: n}
}

func (c *generationCount) ShouldTerminate(state AlgorithmState) bool {
	return len(state.Generations()) >= c.n
}

// TimeLimit stops once at least limit has elapsed since its creation.
type TimeLimit struct {
	clock clock.PassiveClock
	start time.Time
	limit time.Duration
}

// NewTimeLimit starts measuring from clk.Now().
func NewTimeLimit(clk clock.PassiveClock, limit time.Duration) *TimeLimit {
	return &TimeLimit{clock: clk, start: clk.Now(), limit: limit}
}

func (t *TimeLimit) ShouldTerminate(AlgorithmState) bool {
	return t.clock.Since(t.start) >= t.limit
}

// StopFlag lets another goroutine request the end of a run. The request is
// observed at the next generation boundary.
type StopFlag struct {
	stopped atomic.Bool
}

// Stop requests termination.
func (f *StopFlag) Stop() {
	f.stopped.Store(true)
}

func (f *StopFlag) ShouldTerminate(AlgorithmState) bool {
	return f.stopped.Load()
}

// ContextDone stops once ctx is cancelled or its deadline passes.
func ContextDone(ctx context.Context) TerminationCriterion {
	return TerminationFunc(func(AlgorithmState) bool {
		return ctx.Err() != nil
	})
}
