// Package sound carries the fire-and-forget audio cues the game emits.
// Implementations must never block the caller.
package sound

import (
	"io"
	"sync"
)

// Cue identifies a notification sound.
type Cue string

const (
	DiceRoll    Cue = "dice_roll"
	CombatStart Cue = "combat_start"
	Flee        Cue = "flee"
)

// Notifier plays (or otherwise signals) a cue.
type Notifier interface {
	Play(cue Cue)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(Cue) {}

// Bell rings the terminal bell on an io.Writer. Writes happen on a single
// background goroutine; cues arriving while a write is pending are dropped.
type Bell struct {
	w     io.Writer
	queue chan Cue
	once  sync.Once
}

// NewBell creates a Bell writing to w. Call Close to stop the writer goroutine.
func NewBell(w io.Writer) *Bell {
	b := &Bell{
		w:     w,
		queue: make(chan Cue, 1),
	}
	go b.loop()
	return b
}

func (b *Bell) loop() {
	for cue := range b.queue {
		n := 1
		if cue == CombatStart {
			n = 2
		}
		for i := 0; i < n; i++ {
			_, _ = b.w.Write([]byte("\a"))
		}
	}
}

// Play enqueues cue without blocking.
func (b *Bell) Play(cue Cue) {
	select {
	case b.queue <- cue:
	default:
	}
}

// Close stops the writer goroutine. Play must not be called afterwards.
func (b *Bell) Close() {
	b.once.Do(func() { close(b.queue) })
}

// Recorder keeps every cue it receives. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *Recorder) Play(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cue, len(r.cues))
	copy(out, r.cues)
	return out
}

// Count returns how many times cue was played.
func (r *Recorder) Count(cue Cue) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.cues {
		if c == cue {
			n++
		}
	}
	return n
}
