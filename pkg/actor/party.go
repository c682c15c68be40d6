package actor

import (
	"fmt"
	"strings"
)

// Difficulty ratings reported when a party is rolled.
const (
	DifficultyLethal      = "LETHAL (High fatality risk)"
	DifficultyModerate    = "MODERATE (Standard challenge)"
	DifficultyChallenging = "CHALLENGING (Caution advised)"
)

// DescribeParty counts the party by class.
func DescribeParty(party []Character) string {
	counts := make(map[Class]int, len(Classes))
	for _, c := range party {
		counts[c.Class]++
	}
	return fmt.Sprintf("Party consists of %d Fighter(s), %d Cleric(s), %d Magic-User(s), and %d Thief/Thieves.",
		counts[Fighter], counts[Cleric], counts[MagicUser], counts[Thief])
}

// AssessDifficulty gives a rough survival estimate. A party with no cleric or
// very low average hit points is lethal.
func AssessDifficulty(party []Character) string {
	if len(party) == 0 {
		return DifficultyLethal
	}

	var sumHP, sumSTR int
	hasCleric := false
	for _, c := range party {
		sumHP += c.MaxHP
		sumSTR += c.Stats.STR
		if c.Class == Cleric {
			hasCleric = true
		}
	}
	avgHP := float64(sumHP) / float64(len(party))
	avgSTR := float64(sumSTR) / float64(len(party))

	switch {
	case avgHP < 4 || !hasCleric:
		return DifficultyLethal
	case avgSTR > 13:
		return DifficultyModerate
	default:
		return DifficultyChallenging
	}
}

// RosterLines lists each member as "NAME (Class HP:n)".
func RosterLines(party []Character) string {
	lines := make([]string, 0, len(party))
	for _, c := range party {
		lines = append(lines, fmt.Sprintf("%s (%s HP:%d)", c.Name, c.Class, c.HP))
	}
	return strings.Join(lines, "\n")
}
