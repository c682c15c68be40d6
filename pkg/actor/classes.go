package actor

// Class is one of the four 1st edition character classes.
type Class string

const (
	Fighter   Class = "Fighter"
	Cleric    Class = "Cleric"
	MagicUser Class = "Magic-User"
	Thief     Class = "Thief"
)

// Classes lists every class in selection order.
var Classes = []Class{Fighter, Cleric, MagicUser, Thief}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	_, ok := hitDie[c]
	return ok
}

// SavingThrows are the minimum d20 rolls needed to save, per category.
type SavingThrows struct {
	Poison int `json:"poison"`
	Wands  int `json:"wands"`
	Stone  int `json:"stone"`
	Breath int `json:"breath"`
	Spells int `json:"spells"`
}

// ThiefSkills are percentage chances.
type ThiefSkills struct {
	PickLocks     int `json:"pickLocks"`
	FindTraps     int `json:"findTraps"`
	MoveSilently  int `json:"moveSilently"`
	HideInShadows int `json:"hideInShadows"`
}

var hitDie = map[Class]int{
	Fighter:   10,
	Cleric:    8,
	MagicUser: 4,
	Thief:     6,
}

var baseTHAC0 = map[Class]int{
	Fighter:   20,
	Cleric:    20,
	MagicUser: 21,
	Thief:     21,
}

var armorClass = map[Class]int{
	Fighter:   2,
	Cleric:    4,
	MagicUser: 7,
	Thief:     7,
}

var savingThrows = map[Class]SavingThrows{
	Fighter:   {Poison: 14, Wands: 16, Stone: 15, Breath: 17, Spells: 17},
	Cleric:    {Poison: 11, Wands: 12, Stone: 14, Breath: 16, Spells: 15},
	MagicUser: {Poison: 13, Wands: 13, Stone: 13, Breath: 16, Spells: 15},
	Thief:     {Poison: 13, Wands: 14, Stone: 12, Breath: 16, Spells: 15},
}

var startingThiefSkills = ThiefSkills{
	PickLocks:     15,
	FindTraps:     10,
	MoveSilently:  20,
	HideInShadows: 10,
}

// xpTables holds the XP needed to leave each level, indexed by current level.
var xpTables = map[Class][]int{
	Fighter:   {0, 2000, 4000, 8000},
	Cleric:    {0, 1500, 3000, 6000},
	MagicUser: {0, 2500, 5000, 10000},
	Thief:     {0, 1250, 2500, 5000},
}

var startingGear = map[Class][]string{
	Fighter:   {"Plate Mail", "Sword", "Shield"},
	Cleric:    {"Chain Mail", "Mace", "Holy Symbol"},
	MagicUser: {"Leather Armor", "Dagger", "Large Sack"},
	Thief:     {"Leather Armor", "Dagger", "Large Sack"},
}

var startingSpells = map[Class][]string{
	MagicUser: {"Sleep"},
	Cleric:    {"Cure Light Wounds"},
}

// DefaultItemWeight applies to gear missing from the weight table.
const DefaultItemWeight = 10

var itemWeights = map[string]int{
	"Plate Mail":       500,
	"Chain Mail":       400,
	"Leather Armor":    150,
	"Shield":           100,
	"Sword":            60,
	"Mace":             50,
	"Dagger":           10,
	"Rations (7 days)": 200,
	"Torch (6)":        30,
	"Waterskin":        5,
	"Rope (50ft)":      50,
	"Small Sack":       1,
	"Large Sack":       5,
}

// HitDie returns the class hit die size; unknown classes get a d6.
func HitDie(c Class) int {
	if d, ok := hitDie[c]; ok {
		return d
	}
	return 6
}

// ItemWeight returns the encumbrance of a named item in coins.
func ItemWeight(name string) int {
	if w, ok := itemWeights[name]; ok {
		return w
	}
	return DefaultItemWeight
}

// XPThreshold returns the XP a character of class c needs to advance from
// level. Levels beyond the table reuse its last entry.
func XPThreshold(c Class, level int) int {
	table, ok := xpTables[c]
	if !ok || len(table) == 0 {
		return 0
	}
	idx := min(max(level, 0), len(table)-1)
	return table[idx]
}
