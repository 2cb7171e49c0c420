package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testingclock "k8s.io/utils/clock/testing"
)

type fakeState struct {
	generations []*Generation
}

func (s *fakeState) Generations() []*Generation {
	return s.generations
}

func stateWith(n int) *fakeState {
	s := &fakeState{}
	for i := 0; i < n; i++ {
		s.generations = append(s.generations, NewGeneration(nil))
	}
	return s
}

func TestGenerationCount(t *testing.T) {
	c := GenerationCount(3)
	assert.False(t, c.ShouldTerminate(stateWith(0)))
	assert.False(t, c.ShouldTerminate(stateWith(2)))
	assert.True(t, c.ShouldTerminate(stateWith(3)))
	assert.True(t, c.ShouldTerminate(stateWith(4)))
}

func TestTerminationFunc(t *testing.T) {
	var seen int
	c := TerminationFunc(func(s AlgorithmState) bool {
		seen = len(s.Generations())
		return seen > 1
	})
	assert.False(t, c.ShouldTerminate(stateWith(1)))
	assert.True(t, c.ShouldTerminate(stateWith(2)))
	assert.Equal(t, 2, seen)
}

func TestTimeLimit(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Unix(1000, 0))
	c := NewTimeLimit(clk, time.Minute)

	assert.False(t, c.ShouldTerminate(stateWith(1)))
	clk.SetTime(clk.Now().Add(59 * time.Second))
	assert.False(t, c.ShouldTerminate(stateWith(1)))
	clk.SetTime(clk.Now().Add(time.Second))
	assert.True(t, c.ShouldTerminate(stateWith(1)))
}

func TestStopFlag(t *testing.T) {
	var f StopFlag
	assert.False(t, f.ShouldTerminate(stateWith(1)))

	done := make(chan struct{})
	go func() {
		f.Stop()
		close(done)
	}()
	<-done
	assert.True(t, f.ShouldTerminate(stateWith(1)))
}

func TestContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := ContextDone(ctx)
	assert.False(t, c.ShouldTerminate(stateWith(1)))
	cancel()
	assert.True(t, c.ShouldTerminate(stateWith(1)))
}
