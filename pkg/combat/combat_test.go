package combat

import (
	"encoding/json"
	"testing"

	"github.com/jwebster45206/keep-terminal/pkg/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStart(t *testing.T) {
	s := Start()
	assert.Equal(t, PhaseSurprise, s.Phase)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, SideNone, s.InitiativeSide)
	assert.False(t, s.Surprise.Party)
	assert.False(t, s.Surprise.Monsters)
	assert.True(t, s.Active())
	assert.True(t, s.SelfAdvancing())
}

func TestRollSurprise(t *testing.T) {
	tests := []struct {
		name         string
		party, mons  int
		wantParty    bool
		wantMonsters bool
	}{
		{"both surprised", 1, 2, true, true},
		{"neither", 3, 6, false, false},
		{"party only", 2, 3, true, false},
		{"monsters only", 5, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RollSurprise(Start(), dice.NewSequence(tt.party, tt.mons))

			assert.Equal(t, PhaseInitiative, out.State.Phase, "surprise always moves to initiative")
			assert.Equal(t, 0, out.State.Round, "surprise never advances the round")
			assert.Equal(t, tt.wantParty, out.State.Surprise.Party)
			assert.Equal(t, tt.wantMonsters, out.State.Surprise.Monsters)
			assert.Equal(t, tt.party, out.PartyRoll)
			assert.Equal(t, tt.mons, out.MonsterRoll)
		})
	}
}

func TestRollSurprise_Message(t *testing.T) {
	out := RollSurprise(Start(), dice.NewSequence(1, 4))
	assert.Equal(t, "SURPRISE CHECK (1D6) — PARTY: 1 (SURPRISED) | MONSTERS: 4", out.Message)
}

func TestRollInitiative(t *testing.T) {
	tests := []struct {
		name      string
		party     int
		mons      int
		wantSide  Side
		wantPhase Phase
	}{
		{"party wins", 5, 2, SideParty, PhasePartyTurn},
		{"monsters win", 2, 5, SideMonsters, PhaseMonsterTurn},
		{"tie favours party", 4, 4, SideParty, PhasePartyTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Phase: PhaseInitiative, Round: 1, InitiativeSide: SideMonsters}
			out := RollInitiative(s, dice.NewSequence(tt.party, tt.mons))

			assert.Equal(t, tt.wantSide, out.State.InitiativeSide)
			assert.Equal(t, tt.wantPhase, out.State.Phase)
			assert.Equal(t, 2, out.State.Round)
		})
	}
}

func TestRollInitiative_Message(t *testing.T) {
	s := State{Phase: PhaseInitiative, Round: 1}

	out := RollInitiative(s, dice.NewSequence(4, 3))
	assert.Equal(t, "ROUND 2 INITIATIVE (1D6) — PARTY: 4 | MONSTERS: 3 — PARTY GOES FIRST", out.Message)

	out = RollInitiative(s, dice.NewSequence(1, 6))
	assert.Equal(t, "ROUND 2 INITIATIVE (1D6) — PARTY: 1 | MONSTERS: 6 — MONSTERS GO FIRST", out.Message)
}

func TestEndTurn(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		side  Side
		want  Phase
	}{
		{"party first, party done", PhasePartyTurn, SideParty, PhaseMonsterTurn},
		{"party first, monsters done", PhaseMonsterTurn, SideParty, PhaseInitiative},
		{"monsters first, monsters done", PhaseMonsterTurn, SideMonsters, PhasePartyTurn},
		{"monsters first, party done", PhasePartyTurn, SideMonsters, PhaseInitiative},
		{"not a turn phase", PhaseSurprise, SideNone, PhaseSurprise},
		{"out of combat", PhaseNone, SideNone, PhaseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Phase: tt.phase, Round: 3, InitiativeSide: tt.side}
			got := EndTurn(s)
			assert.Equal(t, tt.want, got.Phase)
			assert.Equal(t, 3, got.Round, "ending a turn never touches the round")
			assert.Equal(t, tt.side, got.InitiativeSide)
		})
	}
}

func TestAdvance(t *testing.T) {
	r := dice.Constant(3)

	out, ok := Advance(Start(), r)
	require.True(t, ok)
	assert.Equal(t, PhaseInitiative, out.State.Phase)

	out, ok = Advance(out.State, r)
	require.True(t, ok)
	assert.Equal(t, PhasePartyTurn, out.State.Phase)
	assert.Equal(t, 1, out.State.Round)

	_, ok = Advance(out.State, r)
	assert.False(t, ok, "party turn needs player input")

	_, ok = Advance(State{Phase: PhaseMonsterTurn}, r)
	assert.False(t, ok, "monster turn is narrated, not rolled")
}

func TestPhaseFlags(t *testing.T) {
	assert.False(t, Idle().Active())
	assert.False(t, State{}.Active())
	assert.False(t, Idle().SelfAdvancing())
	assert.True(t, State{Phase: PhaseMonsterTurn}.SelfAdvancing())
	assert.True(t, State{Phase: PhaseInitiative}.SelfAdvancing())
	assert.False(t, State{Phase: PhasePartyTurn}.SelfAdvancing())
	assert.True(t, State{Phase: PhasePartyTurn}.AwaitingPlayer())
	assert.Equal(t, Idle(), End())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Not in combat.", Idle().Describe())

	s := State{Phase: PhasePartyTurn, Round: 2, InitiativeSide: SideParty, Surprise: Surprise{Monsters: true}}
	assert.Equal(t, "Phase: PARTY_TURN, Round: 2, Initiative: party, monsters surprised", s.Describe())
}

func TestState_JSON(t *testing.T) {
	s := State{Phase: PhaseMonsterTurn, Round: 4, InitiativeSide: SideMonsters, Surprise: Surprise{Party: true}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"MONSTER_TURN","round":4,"initiativeSide":"monsters","surprise":{"party":true,"monsters":false}}`, string(data))
}

// Walks a full encounter with random dice and checks the round counter only
// moves on initiative and phases stay in the legal set.
func TestCombatLoop_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Start()
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := s
			switch s.Phase {
			case PhaseSurprise, PhaseInitiative:
				face := rapid.IntRange(1, 6)
				out, ok := Advance(s, dice.NewSequence(face.Draw(t, "p"), face.Draw(t, "m")))
				if !ok {
					t.Fatalf("advance refused phase %s", s.Phase)
				}
				s = out.State
			case PhasePartyTurn, PhaseMonsterTurn:
				s = EndTurn(s)
			default:
				t.Fatalf("illegal phase %q", s.Phase)
			}

			if before.Phase == PhaseInitiative {
				if s.Round != before.Round+1 {
					t.Fatalf("initiative moved round %d -> %d", before.Round, s.Round)
				}
			} else if s.Round != before.Round {
				t.Fatalf("%s moved round %d -> %d", before.Phase, before.Round, s.Round)
			}
			if s.Phase == PhasePartyTurn || s.Phase == PhaseMonsterTurn {
				if s.InitiativeSide == SideNone {
					t.Fatalf("turn phase %s without initiative", s.Phase)
				}
			}
		}
	})
}
