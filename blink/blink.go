package blink

import (
	"time"

	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/frame"
	"github.com/dmisol/animface/morph"
)

const (
	DefaultInterval = 4 * time.Second
	DefaultDuration = 150 * time.Millisecond
)

// Writer closes both eyes periodically.
type Writer struct {
	Key      morph.Key
	Interval time.Duration
	Duration time.Duration
}

func NewWriter(interval, duration time.Duration) *Writer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if duration <= 0 || duration > interval {
		duration = DefaultDuration
	}
	return &Writer{Key: morph.Blink, Interval: interval, Duration: duration}
}

// Weight is the blink weight at t: a triangle that peaks at 1 halfway
// through each blink, which starts at the end of every interval.
func (w *Writer) Weight(t time.Duration) float64 {
	phase := t%w.Interval - (w.Interval - w.Duration)
	if phase < 0 {
		return 0
	}
	x := float64(phase) / float64(w.Duration)
	if x > 0.5 {
		return 2 * (1 - x)
	}
	return 2 * x
}

func (w *Writer) Write(buf blendshape.Accumulator, t frame.Tick) {
	if buf == nil {
		return
	}
	buf.Accumulate(w.Key, w.Weight(t.Time))
}
