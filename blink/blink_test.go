package blink

import (
	"testing"
	"time"

	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/frame"
	"github.com/dmisol/animface/morph"
	"github.com/stretchr/testify/assert"
)

func TestWeightTriangle(t *testing.T) {
	w := NewWriter(time.Second, 200*time.Millisecond)

	assert.Zero(t, w.Weight(0))
	assert.Zero(t, w.Weight(799*time.Millisecond))
	assert.InDelta(t, 0.5, w.Weight(850*time.Millisecond), 1e-9)
	assert.InDelta(t, 1, w.Weight(900*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.5, w.Weight(950*time.Millisecond), 1e-9)
	assert.Zero(t, w.Weight(time.Second))
	assert.InDelta(t, 1, w.Weight(1900*time.Millisecond), 1e-9)
}

func TestDefaults(t *testing.T) {
	w := NewWriter(0, time.Hour)
	assert.Equal(t, DefaultInterval, w.Interval)
	assert.Equal(t, DefaultDuration, w.Duration)
}

func TestWrite(t *testing.T) {
	w := NewWriter(time.Second, 200*time.Millisecond)
	b := blendshape.NewBuffer(nil)
	w.Write(b, frame.Tick{Time: 900 * time.Millisecond})
	b.Apply()

	assert.InDelta(t, 1, b.Weight(morph.Blink), 1e-9)
}
