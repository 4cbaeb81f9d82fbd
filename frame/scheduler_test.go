package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRunsPhasesInOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	rec := func(name string) Hook {
		return func(Tick) { got = append(got, name) }
	}

	require.NoError(t, s.RegisterFinal("engine.late", Late, rec("engine.late")))
	require.NoError(t, s.Register("lipsync", Write, rec("lipsync")))
	require.NoError(t, s.Register("engine.early", Early, rec("engine.early")))
	require.NoError(t, s.Register("blink", Write, rec("blink")))
	require.NoError(t, s.Register("preview", Post, rec("preview")))

	s.Step(time.Millisecond)
	assert.Equal(t, []string{"engine.early", "lipsync", "blink", "engine.late", "preview"}, got)
}

func TestFinalHookSealsPhase(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register("a", Late, func(Tick) {}))
	require.NoError(t, s.RegisterFinal("engine", Late, func(Tick) {}))

	err := s.Register("late writer", Late, func(Tick) {})
	assert.ErrorIs(t, err, ErrAfterFinal)
	assert.Equal(t, []string{"a", "engine"}, s.Hooks(Late))

	assert.NoError(t, s.Register("writer", Write, func(Tick) {}))
}

func TestUnknownPhase(t *testing.T) {
	s := NewScheduler()
	assert.ErrorIs(t, s.Register("x", Phase(9), func(Tick) {}), ErrPhase)
}

func TestTickTiming(t *testing.T) {
	s := NewScheduler()
	t0 := s.Step(20 * time.Millisecond)
	t1 := s.Step(20 * time.Millisecond)
	t2 := s.Step(10 * time.Millisecond)

	assert.Equal(t, uint64(0), t0.Index)
	assert.Zero(t, t0.Time)
	assert.Equal(t, uint64(2), t2.Index)
	assert.Equal(t, 20*time.Millisecond, t1.Time)
	assert.Equal(t, 30*time.Millisecond, t2.Time)
	assert.Equal(t, 10*time.Millisecond, t2.Delta)
}

func TestRunStopsWithContext(t *testing.T) {
	s := NewScheduler()
	frames := make(chan struct{}, 100)
	require.NoError(t, s.Register("count", Write, func(Tick) {
		select {
		case frames <- struct{}{}:
		default:
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, 100)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotZero(t, len(frames))
	assert.Error(t, s.Run(context.Background(), 0))
}
