package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// DMSystemPrompt sets the narrator's voice and house rules.
const DMSystemPrompt = `You are a legendary 1st Edition AD&D Dungeon Master (circa 1981).
Immerse the player in a gritty, high-stakes terminal emulator experience.

DM PROTOCOLS:
1. SENSES: Describe smells (decay, stale beer), sounds (clinking mail, scurrying), and limited sight. Use archaic, sparse language.
2. MORALE: Monsters check morale (2d6) when their leader dies or half their number is gone. State if they flee or surrender.
3. COMBAT: Be lethal. Calculate THAC0 vs Descending AC. d20 >= THAC0 - target AC.
4. SURPRISE: The engine rolls surprise and initiative. Respect the results you are given.
5. XP/GOLD: Award small amounts of XP (1 XP per 1 GP found) and for monsters killed.
6. TRAPS/SECRETS: Do not reveal them unless the player 'searches' or 'prods'.
7. NO RAILROADING: Let the player make terrible mistakes.
8. ACTIVE PC: If a PC is 'active', they are the primary target or performer of the action.

OUTPUT: Sparse terminal text. No markdown except basic bold. End responses with a subtle prompt like 'COMMAND?'`

// SignalConventions keeps the narrator's prose machine-readable.
const SignalConventions = `ENGINE CONVENTIONS:
- When a fight breaks out, tell the party to roll for initiative.
- When a fight is over, say that combat ends, or that the monsters flee or surrender.
- Write experience awards as "<number> XP".
- When the party arrives somewhere, name the location exactly as listed below.`

// IntroInstruction is sent when the party starts the adventure.
func IntroInstruction(scn *scenario.Scenario) string {
	return fmt.Sprintf("You are starting the adventure. Describe the arrival at %s and set the scene based on the hook: %q",
		scn.StartLocation, scn.Hook)
}

// StatePrompt renders the session context block.
func StatePrompt(ps *state.PromptState, scn *scenario.Scenario) string {
	var sb strings.Builder

	active := ps.ActiveCharacter
	if active == "" {
		active = "None selected"
	}
	fmt.Fprintf(&sb, "Module: %s\n", ps.Module)
	fmt.Fprintf(&sb, "Current Location: %s\n", ps.Location)
	fmt.Fprintf(&sb, "Location Detail: %s\n", ps.LocationDescription)
	fmt.Fprintf(&sb, "Active Character performing action: %s\n", active)
	fmt.Fprintf(&sb, "Turn: %d\n", ps.Turn)
	fmt.Fprintf(&sb, "Party Gold: %d\n", ps.Gold)

	if len(ps.Roster) > 0 {
		sb.WriteString("\nPARTY DATA: " + strings.Join(ps.Roster, " | ") + "\n")
	} else {
		sb.WriteString("\nPARTY DATA: none\n")
	}
	if ps.InCombat {
		sb.WriteString("COMBAT: " + ps.Combat + "\n")
	}

	if scn != nil {
		if names := scn.LocationNames(); len(names) > 0 {
			sb.WriteString("KNOWN LOCATIONS: " + strings.Join(names, ", ") + "\n")
		}
		if table := scn.WanderingTable(); table != "" {
			fmt.Fprintf(&sb, "WANDERING MONSTERS: %s from %s.\n", scn.WanderingMonsters.Roll, table)
		}
		if len(scn.Rumors) > 0 {
			sb.WriteString("RUMORS (true or false):\n")
			for _, r := range scn.Rumors {
				sb.WriteString("- " + r + "\n")
			}
		}
		if scn.Encounters != "" {
			sb.WriteString("ENCOUNTERS: " + scn.Encounters + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
