package combat

import (
	"fmt"

	"github.com/jwebster45206/keep-terminal/pkg/dice"
)

// Phase is a step of the combat loop.
type Phase string

const (
	PhaseNone        Phase = "NONE"
	PhaseSurprise    Phase = "SURPRISE"
	PhaseInitiative  Phase = "INITIATIVE"
	PhasePartyTurn   Phase = "PARTY_TURN"
	PhaseMonsterTurn Phase = "MONSTER_TURN"
)

// Side identifies who holds initiative for the current round.
type Side string

const (
	SideNone     Side = "none"
	SideParty    Side = "party"
	SideMonsters Side = "monsters"
)

// Surprise records which sides were caught unaware at the start of an encounter.
// Both may be true at once.
type Surprise struct {
	Party    bool `json:"party"`
	Monsters bool `json:"monsters"`
}

// State is the combat sub-state of a session.
type State struct {
	Phase          Phase    `json:"phase"`
	Round          int      `json:"round"`
	InitiativeSide Side     `json:"initiativeSide"`
	Surprise       Surprise `json:"surprise"`
}

// MonsterTurnInstruction is handed to the narrator when the monsters act.
const MonsterTurnInstruction = "The monsters act now. Resolve their actions per 1st Edition AD&D rules, " +
	"including morale if they are losing. Describe the results for the party."

// surprisedOn is the highest d6 face that leaves a side surprised.
const surprisedOn = 2

// Outcome describes a dice-driven transition.
type Outcome struct {
	State       State
	PartyRoll   int
	MonsterRoll int
	Message     string
}

// Idle is the out-of-combat state.
func Idle() State {
	return State{Phase: PhaseNone, InitiativeSide: SideNone}
}

// Start enters combat. Nothing is rolled yet.
func Start() State {
	return State{Phase: PhaseSurprise, Round: 0, InitiativeSide: SideNone}
}

// End leaves combat.
func End() State {
	return Idle()
}

// Active reports whether s is any phase other than NONE.
func (s State) Active() bool {
	return s.Phase != PhaseNone && s.Phase != ""
}

// SelfAdvancing reports whether the phase proceeds without player input.
func (s State) SelfAdvancing() bool {
	switch s.Phase {
	case PhaseSurprise, PhaseInitiative, PhaseMonsterTurn:
		return true
	}
	return false
}

// AwaitingPlayer reports whether the phase is waiting on the party's action.
func (s State) AwaitingPlayer() bool {
	return s.Phase == PhasePartyTurn
}

// RollSurprise rolls 1d6 per side. A 1 or 2 marks that side surprised. Surprise
// only colours the narration; the next phase is always INITIATIVE.
func RollSurprise(s State, r dice.Roller) Outcome {
	party := r.Roll(6, 1)
	monsters := r.Roll(6, 1)

	next := s
	next.Phase = PhaseInitiative
	next.Surprise = Surprise{
		Party:    party <= surprisedOn,
		Monsters: monsters <= surprisedOn,
	}

	return Outcome{
		State:       next,
		PartyRoll:   party,
		MonsterRoll: monsters,
		Message: fmt.Sprintf("SURPRISE CHECK (1D6) — PARTY: %d%s | MONSTERS: %d%s",
			party, surprisedTag(next.Surprise.Party),
			monsters, surprisedTag(next.Surprise.Monsters)),
	}
}

func surprisedTag(surprised bool) string {
	if surprised {
		return " (SURPRISED)"
	}
	return ""
}

// RollInitiative starts a new round. The party wins ties.
func RollInitiative(s State, r dice.Roller) Outcome {
	party := r.Roll(6, 1)
	monsters := r.Roll(6, 1)

	next := s
	next.Round++
	if party >= monsters {
		next.InitiativeSide = SideParty
		next.Phase = PhasePartyTurn
	} else {
		next.InitiativeSide = SideMonsters
		next.Phase = PhaseMonsterTurn
	}

	first := "PARTY GOES FIRST"
	if next.InitiativeSide == SideMonsters {
		first = "MONSTERS GO FIRST"
	}
	return Outcome{
		State:       next,
		PartyRoll:   party,
		MonsterRoll: monsters,
		Message: fmt.Sprintf("ROUND %d INITIATIVE (1D6) — PARTY: %d | MONSTERS: %d — %s",
			next.Round, party, monsters, first),
	}
}

// EndTurn moves past a completed turn. The initiative winner's turn hands over
// to the other side; the loser's turn closes the round. Calling it outside a
// turn phase returns s unchanged.
func EndTurn(s State) State {
	next := s
	switch s.Phase {
	case PhasePartyTurn:
		if s.InitiativeSide == SideParty {
			next.Phase = PhaseMonsterTurn
		} else {
			next.Phase = PhaseInitiative
		}
	case PhaseMonsterTurn:
		if s.InitiativeSide == SideMonsters {
			next.Phase = PhasePartyTurn
		} else {
			next.Phase = PhaseInitiative
		}
	}
	return next
}

// Advance runs the dice-driven step for SURPRISE or INITIATIVE. ok is false for
// any other phase.
func Advance(s State, r dice.Roller) (Outcome, bool) {
	switch s.Phase {
	case PhaseSurprise:
		return RollSurprise(s, r), true
	case PhaseInitiative:
		return RollInitiative(s, r), true
	}
	return Outcome{State: s}, false
}

// Describe renders the state for the narrator's context block.
func (s State) Describe() string {
	if !s.Active() {
		return "Not in combat."
	}
	desc := fmt.Sprintf("Phase: %s, Round: %d, Initiative: %s", s.Phase, s.Round, s.InitiativeSide)
	if s.Surprise.Party {
		desc += ", party surprised"
	}
	if s.Surprise.Monsters {
		desc += ", monsters surprised"
	}
	return desc
}
