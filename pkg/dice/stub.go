package dice

import "sync"

// Constant is a Roller where every die shows the same face, capped at the
// die size. Constant(4).Roll(6, 3) == 12.
type Constant int

func (c Constant) Roll(sides, count int) int {
	sides, count = normalize(sides, count)
	face := int(c)
	if face > sides {
		face = sides
	}
	if face < 1 {
		face = 1
	}
	return face * count
}

// Sequence is a scripted Roller. Each call consumes the next total; once the
// script runs out the last value repeats. Totals are clamped to the legal
// range for the requested dice.
type Sequence struct {
	mu     sync.Mutex
	totals []int
	next   int
	calls  []Call
}

// Call records a single Roll invocation.
type Call struct {
	Sides int
	Count int
}

// NewSequence creates a Sequence returning totals in order.
func NewSequence(totals ...int) *Sequence {
	return &Sequence{totals: totals}
}

func (s *Sequence) Roll(sides, count int) int {
	sides, count = normalize(sides, count)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Sides: sides, Count: count})

	if len(s.totals) == 0 {
		return count
	}
	idx := s.next
	if idx >= len(s.totals) {
		idx = len(s.totals) - 1
	} else {
		s.next++
	}

	total := s.totals[idx]
	if total < count {
		total = count
	}
	if total > count*sides {
		total = count * sides
	}
	return total
}

// Calls returns the recorded invocations.
func (s *Sequence) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}
