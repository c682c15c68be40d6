package game

import (
	"context"
	"time"

	"github.com/jwebster45206/keep-terminal/internal/services"
)

// Purpose says why a narrator call was made and how its result is applied.
type Purpose string

const (
	PurposeIntro       Purpose = "intro"
	PurposeAction      Purpose = "action"       // exploration input
	PurposePartyTurn   Purpose = "party_turn"   // player input during PARTY_TURN
	PurposeMonsterTurn Purpose = "monster_turn" // automated MONSTER_TURN
)

// Call is one dispatched narrator request. Run it off the event loop and hand
// the Result back to Engine.Resolve.
type Call struct {
	Generation uint64
	Purpose    Purpose
	Request    *services.NarratorRequest

	narrator services.Narrator
	timeout  time.Duration
}

// Result is the outcome of a Call.
type Result struct {
	Generation uint64
	Purpose    Purpose
	Text       string
	Err        error
}

// Run performs the narrator request, bounded by the configured timeout.
func (c *Call) Run(ctx context.Context) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.narrator.Respond(ctx, c.Request)
	return Result{
		Generation: c.Generation,
		Purpose:    c.Purpose,
		Text:       text,
		Err:        err,
	}
}
