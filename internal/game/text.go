package game

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/keep-terminal/pkg/actor"
)

// Transcript notices.
const (
	InterfaceLoss      = "FATAL INTERFACE LOSS."
	IntroInterfaceLoss = "FATAL INTERFACE LOSS DURING INTRO."
	PartyLocked        = "\nPARTY DATA LOCKED.\n\nPRESS 'S' TO START THE EXPERIENCE."
	CombatEngaged      = "COMBAT ENGAGED. CHECKING FOR SURPRISE..."
	CombatResolved     = "COMBAT RESOLVED. RETURNING TO EXPLORATION."
	StandBy            = "AUTOMATED COMBAT PHASE IN PROGRESS. STAND BY."
)

// LoadingMessages rotate in the status line while the narrator is working.
var LoadingMessages = []string{
	"SIMULATING D20 VECTOR...",
	"CONSULTING GYGAXIAN TABLES...",
	"RANDOMIZING WANDERING MONSTERS...",
	"CALCULATING DESCENDING AC...",
	"ADJUSTING MORALE COEFFICIENTS...",
	"PARSING NATURAL LANGUAGE INTENT...",
	"UPDATING CRYSTAL BALL BUFFER...",
	"FETCHING SECTOR DATA...",
	"RESOLVING MELEE INITIATIVE...",
	"CHECKING FOR SECRET DOORS...",
	"ROLLING VS POISON...",
	"ENCRYPTING TREASURE LOCATIONS...",
	"ACCESSING B2_MAP_DATA...",
	"SYNCING WITH ETHEREAL PLANE...",
}

// LoadingMessage returns the n-th loading message, wrapping around.
func LoadingMessage(n int) string {
	if n < 0 {
		n = -n
	}
	return LoadingMessages[n%len(LoadingMessages)]
}

// DiceArt holds art for the die sizes that have it. Other sizes use the d20.
var DiceArt = map[int][]string{
	20: {
		"   .---.   ",
		"  /     \\  ",
		" |  [20] | ",
		"  \\     /  ",
		"   '---'   ",
	},
	6: {
		" .-------. ",
		" | o   o | ",
		" |   o   | ",
		" | o   o | ",
		" '-------' ",
	},
}

// RollOutput renders an ad-hoc roll for the transcript.
func RollOutput(sides, result int) string {
	art, ok := DiceArt[sides]
	if !ok {
		art = DiceArt[20]
	}
	return strings.Join(art, "\n") + fmt.Sprintf("\nRESULT: %d", result)
}

func partyAssembled(party []actor.Character) string {
	return fmt.Sprintf("\nNEW PARTY ASSEMBLED:\n%s\n\nSUMMARY: %s\nESTIMATED DIFFICULTY: %s\n\nPRESS 'G' TO RE-ROLL OR 'K' TO KEEP THIS PARTY.",
		actor.RosterLines(party), actor.DescribeParty(party), actor.AssessDifficulty(party))
}

func xpAwarded(amount int, before, after []actor.Character) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PARTY AWARDED %d XP.", amount)
	for i := range after {
		if i < len(before) && after[i].Level > before[i].Level {
			fmt.Fprintf(&sb, "\n%s REACHES LEVEL %d (HP %d/%d).",
				strings.ToUpper(after[i].Name), after[i].Level, after[i].HP, after[i].MaxHP)
		}
	}
	return sb.String()
}
