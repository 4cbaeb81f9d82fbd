// Package override lets one caller take exclusive control of an avatar's
// blend shapes for as long as it holds a non-empty override map.
//
// Every frame the engine runs twice: EarlyUpdate before the expression
// writers, LateUpdate after all of them. In LateUpdate it either commits
// the writers' values untouched, or throws them away and commits its own
// map, writing an explicit zero for each key the map does not name.
//
// The engine is driven from the frame thread only and does no locking.
package override

import (
	"log"

	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/morph"
)

// Notifier is told whenever an override frame was committed.
type Notifier interface {
	ReserveReset()
}

type Engine struct {
	notifier Notifier

	buf      blendshape.Accumulator
	registry *morph.Registry

	weights      map[morph.Key]float64
	resetPending bool
	skipLipSync  bool
}

// NewEngine makes an inactive engine. notifier may be nil.
func NewEngine(notifier Notifier) *Engine {
	return &Engine{
		notifier: notifier,
		weights:  make(map[morph.Key]float64),
	}
}

// Activate installs a new avatar, dropping everything known about the
// previous one.
func (e *Engine) Activate(buf blendshape.Accumulator, keys []morph.Key) {
	reg := morph.NewRegistry(keys)

	e.weights = make(map[morph.Key]float64)
	e.resetPending = false
	e.buf = buf
	e.registry = reg
	e.Println("activated,", reg.Len(), "keys")
}

// Deactivate forgets the avatar. Calling it twice is fine.
func (e *Engine) Deactivate() {
	if e.active() {
		e.Println("deactivated")
	}
	e.buf = nil
	e.registry = nil
	e.weights = make(map[morph.Key]float64)
	e.resetPending = false
}

// Add sets the override weight of k. Keys the active avatar does not have
// are ignored; w is not clamped.
func (e *Engine) Add(k morph.Key, w float64) {
	if !e.active() || !e.registry.Contains(k) {
		return
	}
	e.weights[k] = w
}

// Clear ends the override session; the next frames pass through.
func (e *Engine) Clear() {
	if len(e.weights) == 0 {
		return
	}
	e.weights = make(map[morph.Key]float64)
}

// ResetAndFlushOnce ends the override session and makes the next early
// phase commit zero for every key once, so the last overridden pose does
// not stay on screen.
func (e *Engine) ResetAndFlushOnce() {
	if !e.active() {
		return
	}
	e.Clear()
	e.resetPending = true
}

// SetSkipLipSyncKeys leaves the vowel shapes to the lip-sync writer while
// overriding.
func (e *Engine) SetSkipLipSyncKeys(skip bool) {
	e.skipLipSync = skip
}

func (e *Engine) SkipLipSyncKeys() bool {
	return e.skipLipSync
}

func (e *Engine) State() State {
	switch {
	case !e.active():
		return Inactive
	case len(e.weights) > 0:
		return Overriding
	case e.resetPending:
		return ResetPendingOnly
	}
	return PassThrough
}

// Overrides copies the current override map.
func (e *Engine) Overrides() map[morph.Key]float64 {
	m := make(map[morph.Key]float64, len(e.weights))
	for k, w := range e.weights {
		m[k] = w
	}
	return m
}

// Keys lists the active avatar's keys.
func (e *Engine) Keys() []morph.Key {
	return e.registry.Keys()
}

// EarlyUpdate performs the pending all-zero flush, if any.
func (e *Engine) EarlyUpdate() {
	if !e.resetPending {
		return
	}
	e.resetPending = false
	if !e.active() {
		return
	}

	e.registry.Each(func(k morph.Key) {
		e.buf.Accumulate(k, 0)
	})
	e.buf.Apply()
}

// LateUpdate commits the frame. It must run after every other writer of
// the same buffer.
func (e *Engine) LateUpdate() {
	if !e.active() {
		return
	}
	if len(e.weights) == 0 {
		e.buf.Apply()
		return
	}

	if d, ok := e.buf.(blendshape.Discarder); ok {
		e.write(d.Discard)
	} else {
		// committing drains what the writers accumulated this frame
		e.buf.Apply()
		e.write(nil)
	}
	e.buf.Apply()

	if e.notifier != nil {
		e.notifier.ReserveReset()
	}
}

// write accumulates an explicit value for every key not left to lip-sync.
func (e *Engine) write(discard func(morph.Key)) {
	e.registry.Each(func(k morph.Key) {
		if e.skipLipSync && morph.IsLipSync(k) {
			return
		}
		if discard != nil {
			discard(k)
		}
		e.buf.Accumulate(k, e.weights[k])
	})
}

func (e *Engine) active() bool {
	return e.buf != nil && e.registry != nil
}

func (e *Engine) Println(i ...interface{}) {
	log.Println("override", i)
}
