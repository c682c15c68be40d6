package actor

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/keep-terminal/pkg/dice"
)

// DefaultPartyNames are used when the player rolls a new party.
var DefaultPartyNames = []string{"THORIN", "ELSPETH", "SILAS", "MORG"}

// StartingPartyGold is the session treasury before any adventuring.
const StartingPartyGold = 150

// Factory builds randomized characters from the class tables.
type Factory struct {
	roller dice.Roller
	newID  func() string
}

// NewFactory creates a Factory drawing from roller. IDs are random UUIDs.
func NewFactory(roller dice.Roller) *Factory {
	return &Factory{
		roller: roller,
		newID:  func() string { return uuid.NewString() },
	}
}

// WithIDFunc replaces the ID generator.
func (f *Factory) WithIDFunc(fn func() string) *Factory {
	if fn != nil {
		f.newID = fn
	}
	return f
}

// Generate rolls a fresh level 1 character.
func (f *Factory) Generate(name string) Character {
	stats := AbilityScores{
		STR: f.roller.Roll(6, 3),
		INT: f.roller.Roll(6, 3),
		WIS: f.roller.Roll(6, 3),
		DEX: f.roller.Roll(6, 3),
		CON: f.roller.Roll(6, 3),
		CHA: f.roller.Roll(6, 3),
	}

	class := Classes[f.roller.Roll(len(Classes), 1)-1]
	hp := f.roller.Roll(HitDie(class), 1)

	gear := startingGear[class]
	inventory := make([]Item, 0, len(gear))
	for _, name := range gear {
		inventory = append(inventory, Item{Name: name, Weight: ItemWeight(name)})
	}

	c := Character{
		ID:        f.newID(),
		Name:      name,
		Class:     class,
		Level:     1,
		HP:        hp,
		MaxHP:     hp,
		AC:        armorClass[class],
		THAC0:     baseTHAC0[class],
		Stats:     stats,
		Inventory: inventory,
		Gold:      f.roller.Roll(6, 3) * 10,
		Saves:     savingThrows[class],
		Spells:    append([]string{}, startingSpells[class]...),
	}
	if len(c.Spells) > 0 {
		c.MaxSpells = 1
	}
	if class == Thief {
		ts := startingThiefSkills
		c.ThiefSkills = &ts
	}
	return c
}

// GenerateParty rolls one character per name, in order.
func (f *Factory) GenerateParty(names []string) []Character {
	party := make([]Character, 0, len(names))
	for _, n := range names {
		party = append(party, f.Generate(n))
	}
	return party
}
