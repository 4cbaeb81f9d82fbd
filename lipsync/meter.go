package lipsync

import (
	"encoding/binary"
	"math"
	"sync"
)

const (
	// MeterRate is the sample rate Meter expects.
	MeterRate   = 16000
	meterWindow = MeterRate / 50 // 20ms
)

// Meter is fed 16-bit little-endian mono pcm and reports loudness in [0,1]
// once per window.
type Meter struct {
	mu      sync.Mutex
	sum     float64
	n       int
	odd     []byte
	level   float64
	onLevel func(float64)

	// Attack and Release smooth rising and falling levels, 0..1 (1 = no smoothing).
	Attack, Release float64
	// Floor is the rms treated as silence.
	Floor float64
}

func NewMeter(onLevel func(float64)) *Meter {
	return &Meter{
		onLevel: onLevel,
		Attack:  0.6,
		Release: 0.2,
		Floor:   0.01,
	}
}

func (m *Meter) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n = len(b)
	if len(m.odd) > 0 {
		b = append(m.odd, b...)
		m.odd = nil
	}
	for ; len(b) >= 2; b = b[2:] {
		s := float64(int16(binary.LittleEndian.Uint16(b))) / 32768
		m.sum += s * s
		m.n++
		if m.n == meterWindow {
			m.window()
		}
	}
	if len(b) == 1 {
		m.odd = []byte{b[0]}
	}
	return
}

func (m *Meter) window() {
	rms := math.Sqrt(m.sum / float64(m.n))
	m.sum, m.n = 0, 0

	target := 0.0
	if rms > m.Floor {
		// speech rarely exceeds -6 dBFS rms
		target = math.Min(1, (rms-m.Floor)/(0.5-m.Floor))
	}
	k := m.Release
	if target > m.level {
		k = m.Attack
	}
	m.level += (target - m.level) * k

	if m.onLevel != nil {
		m.onLevel(m.level)
	}
}
