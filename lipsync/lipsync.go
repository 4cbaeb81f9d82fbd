// Package lipsync writes vowel shapes from speech timing and loudness.
package lipsync

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/defs"
	"github.com/dmisol/animface/frame"
	"github.com/dmisol/animface/morph"
)

// Writer is an upstream expression writer. Visemes and level may be set
// from any goroutine; Write runs on the frame thread.
type Writer struct {
	mu      sync.Mutex
	visemes []*defs.Viseme
	start   time.Duration
	level   float64

	// Gain scales the audio level into a mouth weight.
	Gain float64
	// Fallback vowel used when only the audio level is known.
	Fallback morph.Key
}

func NewWriter(gain float64) *Writer {
	if gain <= 0 {
		gain = 1
	}
	return &Writer{Gain: gain, Fallback: morph.A}
}

// SetVisemes replaces the timeline; viseme times are relative to at.
func (w *Writer) SetVisemes(at time.Duration, v []*defs.Viseme) {
	v = append([]*defs.Viseme(nil), v...)
	sort.SliceStable(v, func(i, j int) bool { return v[i].Time < v[j].Time })

	w.mu.Lock()
	defer w.mu.Unlock()

	w.visemes = v
	w.start = at
}

// SetLevel is the current audio loudness in [0,1].
func (w *Writer) SetLevel(level float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.level = level
}

// Weights returns the vowel weights for frame time t.
func (w *Writer) Weights(t time.Duration) map[morph.Key]float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[morph.Key]float64, len(morph.LipSyncKeys))
	for _, k := range morph.LipSyncKeys {
		out[k] = 0
	}

	weight := math.Min(1, w.level*w.Gain)
	vowel, ok := w.vowelAt(t)
	switch {
	case ok && w.level == 0:
		out[vowel] = 1
	case ok:
		out[vowel] = weight
	case weight > 0:
		out[w.Fallback] = weight
	}
	return out
}

func (w *Writer) vowelAt(t time.Duration) (k morph.Key, ok bool) {
	ms := int((t - w.start) / time.Millisecond)
	for _, v := range w.visemes {
		if v.Time > ms {
			break
		}
		if ms >= v.Time+v.Duration {
			continue
		}
		if k, ok = vowelOf(v.Value); ok {
			return
		}
	}
	return
}

func vowelOf(s string) (morph.Key, bool) {
	for _, r := range strings.ToLower(s) {
		if k, ok := morph.Vowel(r); ok {
			return k, true
		}
	}
	return "", false
}

// Write accumulates the frame's vowel weights into buf.
func (w *Writer) Write(buf blendshape.Accumulator, t frame.Tick) {
	if buf == nil {
		return
	}
	for k, v := range w.Weights(t.Time) {
		buf.Accumulate(k, v)
	}
}
