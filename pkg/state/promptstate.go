package state

import "github.com/jwebster45206/keep-terminal/pkg/scenario"

// PromptState is the reduced view of a session handed to the narrator.
type PromptState struct {
	Module              string   `json:"module"`
	Location            string   `json:"location"`
	LocationDescription string   `json:"location_description"`
	Visited             []string `json:"visited_locations,omitempty"`
	ActiveCharacter     string   `json:"active_character,omitempty"`
	Roster              []string `json:"roster"`
	Gold                int      `json:"party_gold"`
	InCombat            bool     `json:"in_combat"`
	Combat              string   `json:"combat,omitempty"`
	Turn                int      `json:"turn"`
}

// ToPromptState summarises s for a prompt. Roster lines carry class, level,
// HP, AC, load and spells.
func ToPromptState(s *SessionState, scn *scenario.Scenario) *PromptState {
	ps := &PromptState{
		Location: s.Location,
		Visited:  s.VisitedLocations,
		Gold:     s.Gold,
		InCombat: s.InCombat,
		Turn:     s.TurnCount,
		Roster:   make([]string, 0, len(s.Party)),
	}
	if scn != nil {
		ps.Module = scn.Name
		ps.LocationDescription = scn.Describe(s.Location)
	}

	active, hasActive := s.ActiveCharacter()
	if hasActive {
		ps.ActiveCharacter = active.Name
	}
	for i := range s.Party {
		c := &s.Party[i]
		ps.Roster = append(ps.Roster, c.Summary(hasActive && c.ID == active.ID))
	}
	if s.InCombat {
		ps.Combat = s.Combat.Describe()
	}
	return ps
}
