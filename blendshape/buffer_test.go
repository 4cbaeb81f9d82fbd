package blendshape

import (
	"testing"

	"github.com/dmisol/animface/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	frames []map[morph.Key]float64
}

func (s *recordingSink) Commit(w map[morph.Key]float64) {
	s.frames = append(s.frames, w)
}

var (
	_ Accumulator = (*Buffer)(nil)
	_ Discarder   = (*Buffer)(nil)
)

func TestAccumulateIsAdditive(t *testing.T) {
	b := NewBuffer(nil)
	b.Accumulate(morph.A, 0.25)
	b.Accumulate(morph.A, 0.5)
	b.Apply()

	assert.InDelta(t, 0.75, b.Weight(morph.A), 1e-9)
}

func TestApplyKeepsUntouchedKeys(t *testing.T) {
	s := &recordingSink{}
	b := NewBuffer(s)

	b.Accumulate(morph.Joy, 1)
	b.Accumulate(morph.A, 0.3)
	b.Apply()

	b.Accumulate(morph.A, 0.1)
	b.Apply()

	assert.Equal(t, 1.0, b.Weight(morph.Joy))
	assert.InDelta(t, 0.1, b.Weight(morph.A), 1e-9)

	require.Len(t, s.frames, 2)
	assert.Equal(t, map[morph.Key]float64{morph.A: 0.1}, s.frames[1])
}

func TestEmptyApplyDoesNotReachSink(t *testing.T) {
	s := &recordingSink{}
	b := NewBuffer(s)
	b.Apply()
	b.Apply()

	assert.Empty(t, s.frames)
	assert.Empty(t, b.Snapshot())
}

func TestDiscardDropsPending(t *testing.T) {
	b := NewBuffer(nil)
	b.Accumulate(morph.A, 0.4)
	b.Accumulate(morph.I, 0.2)
	b.Discard(morph.A)
	b.Apply()

	assert.Equal(t, map[morph.Key]float64{morph.I: 0.2}, b.Snapshot())
}
