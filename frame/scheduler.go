package frame

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Phase orders hooks inside one frame.
type Phase int

const (
	// Early runs before any writer touches the accumulation buffers.
	Early Phase = iota
	// Write is where expression writers accumulate weights.
	Write
	// Late runs after every writer of the frame.
	Late
	// Post runs after the final commit.
	Post

	phases
)

func (p Phase) String() string {
	switch p {
	case Early:
		return "early"
	case Write:
		return "write"
	case Late:
		return "late"
	case Post:
		return "post"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	ErrAfterFinal = errors.New("phase already has a final hook")
	ErrPhase      = errors.New("unknown phase")
)

// Tick describes the frame being run.
type Tick struct {
	Index uint64
	// Time since the first frame.
	Time  time.Duration
	Delta time.Duration
}

// Hook is called once per frame in its phase.
type Hook func(Tick)

type hook struct {
	name string
	fn   Hook
}

// Scheduler runs registered hooks phase by phase. Hooks within a phase run
// in registration order; a final hook is always the last of its phase.
type Scheduler struct {
	mu     sync.Mutex
	hooks  [phases][]hook
	sealed [phases]bool

	tick Tick
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Register(name string, p Phase, fn Hook) error {
	return s.register(name, p, fn, false)
}

// RegisterFinal adds fn as the last hook of p. Nothing can be added to p
// afterwards.
func (s *Scheduler) RegisterFinal(name string, p Phase, fn Hook) error {
	return s.register(name, p, fn, true)
}

func (s *Scheduler) register(name string, p Phase, fn Hook, final bool) error {
	if p < 0 || p >= phases {
		return ErrPhase
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed[p] {
		return fmt.Errorf("%s in %s: %w", name, p, ErrAfterFinal)
	}
	s.hooks[p] = append(s.hooks[p], hook{name: name, fn: fn})
	s.sealed[p] = final
	return nil
}

// Step runs one frame lasting dt.
func (s *Scheduler) Step(dt time.Duration) Tick {
	s.mu.Lock()
	t := s.tick
	if t.Index > 0 {
		t.Time += dt
	}
	t.Delta = dt
	hooks := s.hooks
	s.tick = t
	s.tick.Index++
	s.mu.Unlock()

	for p := range hooks {
		for _, h := range hooks[p] {
			h.fn(t)
		}
	}
	return t
}

// Run steps at fps until ctx is done.
func (s *Scheduler) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("invalid fps: %d", fps)
	}
	d := time.Second / time.Duration(fps)
	t := time.NewTicker(d)
	defer t.Stop()

	s.Println("running at", fps, "fps")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.Println("stopped", ctx.Err())
			return ctx.Err()
		case now := <-t.C:
			s.Step(now.Sub(last))
			last = now
		}
	}
}

// Hooks lists hook names of p in run order.
func (s *Scheduler) Hooks(p Phase) (names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.hooks[p] {
		names = append(names, h.name)
	}
	return
}

func (s *Scheduler) Println(i ...interface{}) {
	log.Println("frame", i)
}
