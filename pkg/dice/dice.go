// Package dice provides uniform multi-die rolls for attribute generation,
// hit points, surprise and initiative.
package dice

import (
	"log/slog"
	"math/rand/v2"

	toolkit "github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/jwebster45206/keep-terminal/pkg/sound"
)

// Roller returns the sum of count independent uniform draws from 1..sides.
type Roller interface {
	Roll(sides, count int) int
}

// Engine is the production Roller. It draws from an rpg-toolkit roller and
// plays a dice cue on every roll.
type Engine struct {
	src    toolkit.Roller
	notify sound.Notifier
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource replaces the randomness source.
func WithSource(src toolkit.Roller) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithNotifier sets the notifier played on every roll.
func WithNotifier(n sound.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notify = n
		}
	}
}

// WithLogger sets the logger used to report source failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine backed by toolkit.DefaultRoller.
func New(opts ...Option) *Engine {
	e := &Engine{
		src:    toolkit.DefaultRoller,
		notify: sound.Nop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Roll sums count dice of the given size. Non-positive arguments are treated
// as 1. A failing source falls back to math/rand so a roll always succeeds.
func (e *Engine) Roll(sides, count int) int {
	sides, count = normalize(sides, count)
	e.notify.Play(sound.DiceRoll)

	results, err := e.src.RollN(count, sides)
	if err != nil || len(results) != count {
		e.logger.Warn("Dice source failed, using fallback", "sides", sides, "count", count, "error", err)
		return fallback(sides, count)
	}

	total := 0
	for _, r := range results {
		if r < 1 || r > sides {
			e.logger.Warn("Dice source returned out-of-range face", "sides", sides, "face", r)
			return fallback(sides, count)
		}
		total += r
	}
	return total
}

func normalize(sides, count int) (int, int) {
	if sides < 1 {
		sides = 1
	}
	if count < 1 {
		count = 1
	}
	return sides, count
}

func fallback(sides, count int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += rand.IntN(sides) + 1
	}
	return total
}
