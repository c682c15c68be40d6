package dice

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/keep-terminal/pkg/sound"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type stubSource struct {
	faces []int
	err   error
}

func (s *stubSource) Roll(size int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.faces[0], nil
}

func (s *stubSource) RollN(count, size int) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]int, count)
	for i := range out {
		out[i] = s.faces[i%len(s.faces)]
	}
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEngine_RollWithinBounds(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	rapid.Check(t, func(t *rapid.T) {
		sides := rapid.SampledFrom([]int{2, 4, 6, 8, 10, 12, 20, 100}).Draw(t, "sides")
		count := rapid.IntRange(1, 10).Draw(t, "count")
		got := e.Roll(sides, count)
		if got < count || got > count*sides {
			t.Fatalf("Roll(%d, %d) = %d, want within [%d, %d]", sides, count, got, count, count*sides)
		}
	})
}

func TestEngine_SumsSourceFaces(t *testing.T) {
	src := &stubSource{faces: []int{1, 5, 6}}
	e := New(WithSource(src), WithLogger(quietLogger()))

	assert.Equal(t, 12, e.Roll(6, 3))
	assert.Equal(t, 1, e.Roll(6, 1))
}

func TestEngine_NormalizesArguments(t *testing.T) {
	e := New(WithSource(&stubSource{faces: []int{1}}), WithLogger(quietLogger()))

	assert.Equal(t, 1, e.Roll(0, 0))
	assert.Equal(t, 1, e.Roll(-4, 1))
}

func TestEngine_FallsBackOnSourceError(t *testing.T) {
	e := New(WithSource(&stubSource{err: errors.New("entropy exhausted")}), WithLogger(quietLogger()))

	for i := 0; i < 50; i++ {
		got := e.Roll(20, 2)
		if got < 2 || got > 40 {
			t.Fatalf("fallback roll out of range: %d", got)
		}
	}
}

func TestEngine_FallsBackOnOutOfRangeFace(t *testing.T) {
	e := New(WithSource(&stubSource{faces: []int{9}}), WithLogger(quietLogger()))

	got := e.Roll(6, 1)
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 6)
}

func TestEngine_PlaysCueOnEveryRoll(t *testing.T) {
	rec := &sound.Recorder{}
	e := New(WithNotifier(rec), WithLogger(quietLogger()))

	e.Roll(6, 3)
	e.Roll(20, 1)

	assert.Equal(t, 2, rec.Count(sound.DiceRoll))
}

func TestConstant(t *testing.T) {
	tests := []struct {
		name  string
		face  Constant
		sides int
		count int
		want  int
	}{
		{"3d6 showing fours", 4, 6, 3, 12},
		{"d4 showing four", 4, 4, 1, 4},
		{"face capped at die size", 4, 2, 1, 2},
		{"face floored at one", 0, 6, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.face.Roll(tt.sides, tt.count))
		})
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence(5, 2, 30)

	assert.Equal(t, 5, s.Roll(6, 1))
	assert.Equal(t, 2, s.Roll(6, 1))
	assert.Equal(t, 6, s.Roll(6, 1), "clamped to the die maximum")
	assert.Equal(t, 6, s.Roll(6, 1), "last value repeats")

	calls := s.Calls()
	assert.Len(t, calls, 4)
	assert.Equal(t, Call{Sides: 6, Count: 1}, calls[0])
}
