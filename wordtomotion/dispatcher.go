// Package wordtomotion plays named expressions through the override engine.
package wordtomotion

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/dmisol/animface/defs"
	"github.com/dmisol/animface/frame"
	"github.com/dmisol/animface/morph"
	"github.com/eapache/queue"
)

var ErrUnknownExpression = errors.New("unknown expression")

// Overrider is the control surface of the override engine.
type Overrider interface {
	Add(k morph.Key, w float64)
	Clear()
	ResetAndFlushOnce()
	SetSkipLipSyncKeys(skip bool)
}

// Dispatcher queues requests from any goroutine and runs them on the frame
// thread in Update, which must be hooked before the engine's early step.
type Dispatcher struct {
	o Overrider

	mu      sync.Mutex
	pending *queue.Queue
	exprs   map[string]defs.Expression
	playing string

	until   time.Duration
	current *defs.Expression
}

func NewDispatcher(o Overrider, exprs []defs.Expression) *Dispatcher {
	d := &Dispatcher{
		o:       o,
		pending: queue.New(),
		exprs:   make(map[string]defs.Expression, len(exprs)),
	}
	for _, e := range exprs {
		d.exprs[e.Name] = e
	}
	return d
}

// Do runs fn on the frame thread during the next Update.
func (d *Dispatcher) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Add(fn)
}

// Trigger starts the named expression on the next frame, replacing the one
// being played.
func (d *Dispatcher) Trigger(name string) error {
	d.mu.Lock()
	e, ok := d.exprs[name]
	d.mu.Unlock()
	if !ok {
		return ErrUnknownExpression
	}

	d.Do(func() { d.start(e) })
	return nil
}

// Stop ends the expression being played, if any.
func (d *Dispatcher) Stop() {
	d.Do(d.end)
}

// Playing is the name of the running expression, or "".
func (d *Dispatcher) Playing() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.playing
}

// Expressions lists configured names, sorted.
func (d *Dispatcher) Expressions() (names []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names = make([]string, 0, len(d.exprs))
	for n := range d.exprs {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}

// Abort forgets the running expression without touching the overrides.
// Frame thread only; used when the avatar goes away.
func (d *Dispatcher) Abort() {
	if d.current == nil {
		return
	}
	d.o.SetSkipLipSyncKeys(false)

	d.Println("aborted", d.current.Name)
	d.current = nil
	d.setPlaying("")
}

func (d *Dispatcher) Update(t frame.Tick) {
	for _, fn := range d.drain() {
		fn()
	}

	if d.current == nil {
		return
	}
	if d.until < 0 {
		d.until = t.Time + d.current.Duration
	}
	if d.current.Duration > 0 && t.Time >= d.until {
		d.end()
	}
}

func (d *Dispatcher) drain() (fns []func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for d.pending.Length() > 0 {
		fns = append(fns, d.pending.Remove().(func()))
	}
	return
}

func (d *Dispatcher) start(e defs.Expression) {
	d.o.Clear()
	d.o.SetSkipLipSyncKeys(e.SkipLipSync)
	for k, w := range e.Weights {
		d.o.Add(morph.Key(k), w)
	}

	d.current = &e
	d.until = -1
	d.setPlaying(e.Name)
	d.Println("playing", e.Name)
}

func (d *Dispatcher) end() {
	if d.current == nil {
		return
	}
	if d.current.ResetOnEnd {
		d.o.ResetAndFlushOnce()
	} else {
		d.o.Clear()
	}
	d.o.SetSkipLipSyncKeys(false)

	d.Println("done", d.current.Name)
	d.current = nil
	d.setPlaying("")
}

func (d *Dispatcher) setPlaying(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.playing = name
}

func (d *Dispatcher) Println(i ...interface{}) {
	log.Println("wtm", i)
}
