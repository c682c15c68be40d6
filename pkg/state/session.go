package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/keep-terminal/pkg/actor"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/combat"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
)

// SetupStep tracks the pre-game flow: roll a party, keep it, start.
type SetupStep string

const (
	StepNone      SetupStep = "none"
	StepGenerated SetupStep = "generated"
	StepConfirmed SetupStep = "confirmed"
	StepPlaying   SetupStep = "playing"
)

// SessionState is the root aggregate of a game session. It is treated as a
// value: the engine clones it, mutates the clone, then swaps it in.
type SessionState struct {
	ID                string            `json:"id"`
	ModuleID          string            `json:"currentModuleId"`
	Location          string            `json:"location"`
	Party             []actor.Character `json:"party"`
	ActiveCharacterID *string           `json:"activeCharacterId"` // weak reference into Party
	History           []chat.Message    `json:"history"`
	Gold              int               `json:"gold"`
	VisitedLocations  []string          `json:"visitedLocations"`
	InCombat          bool              `json:"inCombat"`
	Combat            combat.State      `json:"combatState"`
	MapData           [][]string        `json:"mapData"`
	TurnCount         int               `json:"turnCount"`
	SetupStep         SetupStep         `json:"setupStep"`
}

// NewSessionState builds the default state for a fresh session in scn.
func NewSessionState(scn *scenario.Scenario, now time.Time) *SessionState {
	return &SessionState{
		ID:               uuid.NewString(),
		ModuleID:         scn.ID,
		Location:         scn.StartLocation,
		Party:            []actor.Character{},
		History:          []chat.Message{chat.NewMessage(chat.KindDM, scn.WelcomeMessage(), now)},
		Gold:             actor.StartingPartyGold,
		VisitedLocations: []string{scn.StartLocation},
		Combat:           combat.Idle(),
		MapData:          NewMap(),
		SetupStep:        StepNone,
	}
}

// Clone returns a deep copy.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.Party = make([]actor.Character, len(s.Party))
	for i, c := range s.Party {
		out.Party[i] = c.Clone()
	}
	if s.ActiveCharacterID != nil {
		id := *s.ActiveCharacterID
		out.ActiveCharacterID = &id
	}
	out.History = slices.Clone(s.History)
	out.VisitedLocations = slices.Clone(s.VisitedLocations)
	out.MapData = cloneMap(s.MapData)
	return &out
}

// AppendMessage adds a transcript entry.
func (s *SessionState) AppendMessage(kind chat.Kind, content string, now time.Time) {
	s.History = append(s.History, chat.NewMessage(kind, content, now))
}

// LastMessage returns the newest transcript entry of the given kind.
func (s *SessionState) LastMessage(kind chat.Kind) (chat.Message, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Kind == kind {
			return s.History[i], true
		}
	}
	return chat.Message{}, false
}

// RecentHistory returns at most n of the newest entries. n <= 0 returns all.
func (s *SessionState) RecentHistory(n int) []chat.Message {
	if n <= 0 || n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// ActiveCharacter resolves the active reference. A dangling id resolves to
// nothing.
func (s *SessionState) ActiveCharacter() (*actor.Character, bool) {
	if s.ActiveCharacterID == nil {
		return nil, false
	}
	for i := range s.Party {
		if s.Party[i].ID == *s.ActiveCharacterID {
			return &s.Party[i], true
		}
	}
	return nil, false
}

// SetActive points the active reference at id.
func (s *SessionState) SetActive(id string) {
	s.ActiveCharacterID = &id
}

// FindCharacterByName matches a party member by name, ignoring case and
// surrounding space.
func (s *SessionState) FindCharacterByName(name string) (*actor.Character, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for i := range s.Party {
		if strings.EqualFold(s.Party[i].Name, name) {
			return &s.Party[i], true
		}
	}
	return nil, false
}

// Visit moves the party to location and records it as visited.
func (s *SessionState) Visit(location string) {
	s.Location = location
	if !slices.Contains(s.VisitedLocations, location) {
		s.VisitedLocations = append(s.VisitedLocations, location)
	}
}

// HasVisited reports whether location is in the visited set.
func (s *SessionState) HasVisited(location string) bool {
	return slices.Contains(s.VisitedLocations, location)
}

// Normalize repairs a restored snapshot: missing collections are created,
// the map is coerced to MapSize x MapSize, and blank enums get defaults.
func (s *SessionState) Normalize() {
	if s.Party == nil {
		s.Party = []actor.Character{}
	}
	if s.History == nil {
		s.History = []chat.Message{}
	}
	if s.VisitedLocations == nil {
		s.VisitedLocations = []string{}
	}
	if s.Combat.Phase == "" {
		s.Combat.Phase = combat.PhaseNone
	}
	if s.Combat.InitiativeSide == "" {
		s.Combat.InitiativeSide = combat.SideNone
	}
	if s.SetupStep == "" {
		s.SetupStep = StepNone
		if len(s.Party) > 0 {
			s.SetupStep = StepPlaying
		}
	}
	s.MapData = fitMap(s.MapData)
}

// Marshal encodes the snapshot.
func (s *SessionState) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session state: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and normalizes a snapshot.
func Unmarshal(data []byte) (*SessionState, error) {
	var s SessionState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	if s.ModuleID == "" {
		return nil, fmt.Errorf("session state has no module id")
	}
	s.Normalize()
	return &s, nil
}
