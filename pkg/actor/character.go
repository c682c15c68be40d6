package actor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/d20"
)

// AbilityScores are the six 3d6 attributes. Immutable after generation.
type AbilityScores struct {
	STR int `json:"STR"`
	INT int `json:"INT"`
	WIS int `json:"WIS"`
	DEX int `json:"DEX"`
	CON int `json:"CON"`
	CHA int `json:"CHA"`
}

// ToAttributes converts the scores to a map for d20.Actor compatibility
func (s AbilityScores) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.STR,
		"intelligence": s.INT,
		"wisdom":       s.WIS,
		"dexterity":    s.DEX,
		"constitution": s.CON,
		"charisma":     s.CHA,
	}
}

// Item is a piece of carried gear with its encumbrance in coins.
type Item struct {
	Name   string `json:"item"`
	Weight int    `json:"weight"`
}

// Character is a party member. HP may drop to 0 or below (dead); the
// character stays in the roster. HP <= MaxHP is expected but not enforced.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Class       Class         `json:"class"`
	Level       int           `json:"level"`
	HP          int           `json:"hp"`
	MaxHP       int           `json:"maxHp"`
	AC          int           `json:"ac"` // descending
	THAC0       int           `json:"thac0"`
	Stats       AbilityScores `json:"stats"`
	Inventory   []Item        `json:"inventory"`
	XP          int           `json:"xp"`
	Gold        int           `json:"gold"`
	Saves       SavingThrows  `json:"saves"`
	ThiefSkills *ThiefSkills  `json:"thiefSkills,omitempty"`
	Spells      []string      `json:"spells"`
	MaxSpells   int           `json:"maxSpells"`
}

// Clone returns a deep copy.
func (c Character) Clone() Character {
	out := c
	out.Inventory = slices.Clone(c.Inventory)
	out.Spells = slices.Clone(c.Spells)
	if c.ThiefSkills != nil {
		ts := *c.ThiefSkills
		out.ThiefSkills = &ts
	}
	return out
}

// Load is the total weight of carried gear.
func (c *Character) Load() int {
	total := 0
	for _, it := range c.Inventory {
		total += it.Weight
	}
	return total
}

// MaxLoad is the carrying capacity, 100 coins per point of strength.
func (c *Character) MaxLoad() int {
	return c.Stats.STR * 100
}

// IsDead reports whether the character is at or below 0 HP.
func (c *Character) IsDead() bool {
	return c.HP <= 0
}

// Actor builds a d20 actor from the character's current HP, AC and scores.
// A dead character's actor is built at full HP; callers read HP from the
// character in that case.
func (c *Character) Actor() (*d20.Actor, error) {
	maxHP := max(c.MaxHP, 1)
	a, err := d20.NewActor(c.ID).
		WithHP(maxHP).
		WithAC(c.AC).
		WithAttributes(c.Stats.ToAttributes()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if c.HP != maxHP && c.HP > 0 {
		if err := a.SetHP(c.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}
	return a, nil
}

// Summary renders the one-line roster entry handed to the narrator.
//
// Example output:
// THORIN [ACTIVE] (Fighter L1, HP:8/8, AC:2, Load:660/1200, Spells:none)
func (c *Character) Summary(active bool) string {
	hp, maxHP, ac := c.HP, c.MaxHP, c.AC
	if !c.IsDead() {
		if a, err := c.Actor(); err == nil {
			hp, maxHP, ac = a.HP(), a.MaxHP(), a.AC()
		}
	}

	var sb strings.Builder
	sb.WriteString(c.Name)
	if active {
		sb.WriteString(" [ACTIVE]")
	}
	spells := "none"
	if len(c.Spells) > 0 {
		spells = strings.Join(c.Spells, ",")
	}
	fmt.Fprintf(&sb, " (%s L%d, HP:%d/%d, AC:%d, Load:%d/%d, Spells:%s)",
		c.Class, c.Level, hp, maxHP, ac, c.Load(), c.MaxLoad(), spells)
	if c.IsDead() {
		sb.WriteString(" DEAD")
	}
	return sb.String()
}
