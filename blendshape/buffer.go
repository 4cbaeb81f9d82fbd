package blendshape

import (
	"sync"

	"github.com/dmisol/animface/morph"
)

// Accumulator is the per-frame write-then-commit buffer shared by every
// expression writer of one avatar.
type Accumulator interface {
	// Accumulate adds w to the pending value of k.
	Accumulate(k morph.Key, w float64)
	// Apply commits pending values and clears them for the next frame.
	Apply()
}

// Discarder is implemented by accumulators that can drop the pending value
// of a single key without committing it.
type Discarder interface {
	Discard(k morph.Key)
}

// Sink receives committed weights. Only keys accumulated since the previous
// commit are passed; the others keep their last committed value.
type Sink interface {
	Commit(w map[morph.Key]float64)
}

// Buffer is the avatar's accumulation buffer.
type Buffer struct {
	mu        sync.Mutex
	pending   map[morph.Key]float64
	committed map[morph.Key]float64

	sink Sink
}

// NewBuffer makes an empty buffer; sink may be nil.
func NewBuffer(sink Sink) *Buffer {
	return &Buffer{
		pending:   make(map[morph.Key]float64),
		committed: make(map[morph.Key]float64),
		sink:      sink,
	}
}

func (b *Buffer) Accumulate(k morph.Key, w float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[k] += w
}

func (b *Buffer) Discard(k morph.Key) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.pending, k)
}

func (b *Buffer) Apply() {
	var out map[morph.Key]float64
	func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if len(b.pending) == 0 {
			return
		}
		out = b.pending
		for k, w := range out {
			b.committed[k] = w
		}
		b.pending = make(map[morph.Key]float64, len(out))
	}()

	if out != nil && b.sink != nil {
		b.sink.Commit(out)
	}
}

// Weight is the last committed value of k.
func (b *Buffer) Weight(k morph.Key) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.committed[k]
}

// Snapshot copies all committed values.
func (b *Buffer) Snapshot() map[morph.Key]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := make(map[morph.Key]float64, len(b.committed))
	for k, w := range b.committed {
		s[k] = w
	}
	return s
}
