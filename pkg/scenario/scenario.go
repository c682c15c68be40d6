package scenario

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Location is a named place in an adventure module.
type Location struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WanderingMonster is one row of a wandering monster table.
type WanderingMonster struct {
	Name string `json:"name"`
	Num  string `json:"num"` // dice expression, e.g. "2d4"
}

// WanderingMonsters is the check frequency plus the table rolled on.
type WanderingMonsters struct {
	Roll  string             `json:"roll"`
	Table []WanderingMonster `json:"table"`
}

// Scenario is a static adventure module.
type Scenario struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Hook              string            `json:"hook"`
	StartLocation     string            `json:"start_location"`
	Locations         []Location        `json:"locations"`          // ordered; earlier entries win location matching
	Rumors            []string          `json:"rumors,omitempty"`
	WanderingMonsters WanderingMonsters `json:"wandering_monsters"`
	Encounters        string            `json:"encounters,omitempty"`
}

// Validate checks the fields a session depends on.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scenario id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("scenario %s: name is required", s.ID)
	}
	if s.StartLocation == "" {
		return fmt.Errorf("scenario %s: start_location is required", s.ID)
	}
	if _, ok := s.Location(s.StartLocation); !ok {
		return fmt.Errorf("scenario %s: start_location %q is not a known location", s.ID, s.StartLocation)
	}
	return nil
}

// LocationNames returns the location names in module order.
func (s *Scenario) LocationNames() []string {
	names := make([]string, 0, len(s.Locations))
	for _, l := range s.Locations {
		names = append(names, l.Name)
	}
	return names
}

// Location looks up a location by exact name.
func (s *Scenario) Location(name string) (Location, bool) {
	for _, l := range s.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// Describe returns the description for name, or "Unknown area".
func (s *Scenario) Describe(name string) string {
	if l, ok := s.Location(name); ok && l.Description != "" {
		return l.Description
	}
	return "Unknown area"
}

// WanderingTable renders the table as "Kobolds (2d4), Orcs (1d6)".
func (s *Scenario) WanderingTable() string {
	parts := make([]string, 0, len(s.WanderingMonsters.Table))
	for _, m := range s.WanderingMonsters.Table {
		parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, m.Num))
	}
	return strings.Join(parts, ", ")
}

// BootMessage is the terminal banner shown when a module is loaded.
func (s *Scenario) BootMessage() string {
	upper := cases.Upper(language.English)
	return "--- AD&D 1E OS v4.2 ---\n" +
		"BOOT SEQUENCE COMPLETE.\n" +
		"MODULE: " + upper.String(s.Name) + "\n" +
		"RULES: ADVANCED 1ST ED PROTOCOLS.\n" +
		"MORALE: ENABLED (2d6 CHECK).\n" +
		"PERMADEATH: ENABLED.\n\n" +
		"COMMAND: 'G' TO GENERATE PARTY."
}

// WelcomeMessage is the first transcript entry of a fresh session.
func (s *Scenario) WelcomeMessage() string {
	return s.BootMessage() + "\n\nPRESS 'G' TO GENERATE A NEW PARTY."
}

// Banner is the system line appended when the adventure starts.
func (s *Scenario) Banner() string {
	upper := cases.Upper(language.English)
	return "\nINITIALIZING MODULE " + upper.String(s.Name) + "...\nENVIRONMENTAL SENSORS ONLINE."
}
