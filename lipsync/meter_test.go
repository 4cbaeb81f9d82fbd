package lipsync

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pcm(n int, v int16) []byte {
	b := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

func TestMeterSilence(t *testing.T) {
	var levels []float64
	m := NewMeter(func(l float64) { levels = append(levels, l) })

	n, err := m.Write(pcm(3*meterWindow, 0))
	assert.NoError(t, err)
	assert.Equal(t, 6*meterWindow, n)
	assert.Equal(t, []float64{0, 0, 0}, levels)
}

func TestMeterRisesAndFalls(t *testing.T) {
	var level float64
	m := NewMeter(func(l float64) { level = l })
	m.Attack, m.Release = 1, 1

	m.Write(pcm(meterWindow, 16384))
	assert.InDelta(t, 1, level, 1e-9)

	m.Write(pcm(meterWindow, 0))
	assert.Zero(t, level)
}

func TestMeterSmoothing(t *testing.T) {
	var level float64
	m := NewMeter(func(l float64) { level = l })
	m.Write(pcm(meterWindow, 16384))
	first := level
	m.Write(pcm(meterWindow, 16384))

	assert.InDelta(t, 0.6, first, 1e-9)
	assert.Greater(t, level, first)
}

func TestMeterSplitSamples(t *testing.T) {
	var levels []float64
	m := NewMeter(func(l float64) { levels = append(levels, l) })
	b := pcm(meterWindow, 16384)

	m.Write(b[:3])
	m.Write(b[3:])
	assert.Len(t, levels, 1)
}
