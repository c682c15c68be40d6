package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/keep-terminal/internal/game"
	"github.com/jwebster45206/keep-terminal/pkg/actor"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

const (
	historyText = `ADVANCED DUNGEONS & DRAGONS (1ST EDITION) was forged in the late 1970s by Gary Gygax. It turned the wargame table into a world of dungeons, wandering monsters and deadly traps.

KEY DIFFERENCES:
DESCENDING AC: LOWER IS BETTER.
THAC0: THE NUMBER YOU NEED TO HIT ARMOR CLASS 0.
DEADLY AT ZERO: A CHARACTER AT 0 HP IS DEAD.
THE DM IS LAW: THE NARRATOR'S RULING STANDS.
EXPERIENCE: TREASURE AND SLAIN FOES EARN XP.`

	guideText = `1. GATHER YOUR PARTY: PRESS 'G' TO ROLL, 'K' TO KEEP, 'S' TO START.
2. EXPLORE: TYPE WHAT THE PARTY DOES. 'SELECT <NAME>' CHANGES THE SPEAKER.
3. SURVIVE: COMBAT RUNS IN PHASES. ACT WHEN IT IS THE PARTY'S TURN.
4. LOOT: TREASURE AND VICTORIES ARE AWARDED AS XP.

TAB TOGGLES THE MAP. CTRL+Y COPIES THE LAST NARRATION.`
)

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	diceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

// writeTranscript refreshes the transcript viewport from the session.
func (m *ConsoleUI) writeTranscript() {
	width := max(m.transcript.Width-2, 10)
	s := m.engine.State()

	var content strings.Builder
	for _, msg := range s.History {
		content.WriteString(formatMessage(msg, width))
		content.WriteString("\n\n")
	}
	if m.engine.Busy() {
		content.WriteString(m.renderProgressBar())
		content.WriteString("\n")
	}

	m.transcript.SetContent(content.String())
	m.transcript.GotoBottom()
}

func formatMessage(msg chat.Message, width int) string {
	switch msg.Kind {
	case chat.KindPlayer:
		return userStyle.Render("> ") + wordwrap.String(msg.Content, width-2)
	case chat.KindDM:
		return narratorStyle.Render(wordwrap.String(msg.Content, width))
	case chat.KindDice:
		return diceStyle.Render(msg.Content)
	default:
		text := wordwrap.String(msg.Content, width)
		if strings.Contains(msg.Content, game.InterfaceLoss) || strings.Contains(msg.Content, game.IntroInterfaceLoss) {
			return errorStyle.Render(text)
		}
		return systemStyle.Render(text)
	}
}

// statusLine shows the turn, the location, and what the engine is doing.
func (m ConsoleUI) statusLine() string {
	s := m.engine.State()
	var status string
	switch {
	case m.engine.Busy():
		status = loadingStyle.Render(game.LoadingMessage(m.loadingTick))
	case m.notice != "":
		status = loadingStyle.Render(m.notice)
	case s.SetupStep != state.StepPlaying:
		status = "SYSTEM INITIALIZATION"
	case s.InCombat:
		status = errorStyle.Render(string(s.Combat.Phase))
	default:
		status = "READY"
	}
	return promptStyle.Render(fmt.Sprintf("T:%d LOC:%s ", s.TurnCount, strings.ToUpper(s.Location))) + status
}

// renderProgressBar animates while the narrator is working.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.transcript.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 20
	frame := m.loadingTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func (m ConsoleUI) renderSidebar() string {
	s := m.engine.State()
	var content strings.Builder

	content.WriteString(titleStyle.Render("EXPEDITIONARY UNIT") + "\n\n")
	if len(s.Party) == 0 {
		content.WriteString(promptStyle.Render("[ NO DATA FOUND ]") + "\n")
	}
	for _, c := range s.Party {
		active := s.ActiveCharacterID != nil && *s.ActiveCharacterID == c.ID
		content.WriteString(renderCharacter(c, active))
		content.WriteString("\n")
	}

	content.WriteString("\n" + titleStyle.Render("LOCATION") + "\n")
	content.WriteString(wordwrap.String(strings.ToUpper(s.Location), sidebarWidth-2) + "\n\n")
	content.WriteString(titleStyle.Render("TREASURE") + "\n")
	content.WriteString(fmt.Sprintf("%d GP\n\n", s.Gold))

	content.WriteString(titleStyle.Render("MAP"))
	if m.mapFocus {
		content.WriteString(loadingStyle.Render(fmt.Sprintf(" [%d,%d]", m.cursorX, m.cursorY)))
	}
	content.WriteString("\n")
	content.WriteString(m.renderMap())
	return content.String()
}

func renderCharacter(c actor.Character, active bool) string {
	var b strings.Builder
	name := strings.ToUpper(c.Name)
	if active {
		name += " *"
	}
	b.WriteString(userStyle.Render(name) + fmt.Sprintf(" LVL %d\n", c.Level))
	b.WriteString(fmt.Sprintf("%s  AC %d\n", strings.ToUpper(string(c.Class)), c.AC))

	hp := fmt.Sprintf("HP %d/%d", c.HP, c.MaxHP)
	if c.HP < 3 {
		hp = errorStyle.Render(hp)
	}
	b.WriteString(hp + fmt.Sprintf("  XP %d\n", c.XP))
	b.WriteString(promptStyle.Render(fmt.Sprintf("LOAD %d/%d", c.Load(), c.MaxLoad())) + "\n")
	return b.String()
}

func (m ConsoleUI) renderMap() string {
	s := m.engine.State()
	var b strings.Builder
	for y := 0; y < state.MapSize; y++ {
		for x := 0; x < state.MapSize; x++ {
			cell := s.Cell(x, y)
			if cell == state.MapSymbols[0] {
				cell = "·"
			}
			if m.mapFocus && x == m.cursorX && y == m.cursorY {
				b.WriteString(cursorStyle.Render(cell))
				continue
			}
			b.WriteString(separatorStyle.Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConsoleUI) renderTitle() string {
	width := min(max(m.width-8, 40), 100)

	var content strings.Builder
	content.WriteString(titleStyle.Render("1E D&D EMULATOR") + "\n\n")
	content.WriteString(modalTitleStyle.Render("THE HISTORICAL RECORD") + "\n")
	content.WriteString(wordwrap.String(historyText, width) + "\n\n")
	content.WriteString(modalTitleStyle.Render("OPERATING PROCEDURES") + "\n")
	content.WriteString(wordwrap.String(guideText, width) + "\n\n")
	content.WriteString(modalTitleStyle.Render("LOAD EXPEDITION MODULE") + "\n")

	for i, id := range m.modules {
		name := id
		if scn, err := m.registry.Get(id); err == nil {
			name = scn.Name
		}
		if i == m.selectedModule {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + name))
		} else {
			content.WriteString(modalItemStyle.Render("  " + name))
		}
		content.WriteString("\n")
	}
	if m.notice != "" {
		content.WriteString("\n" + errorStyle.Render(m.notice) + "\n")
	}
	content.WriteString("\n" + promptStyle.Render("Use ↑/↓ to choose, Enter to begin, Esc to exit"))

	if m.width == 0 || m.height == 0 {
		return content.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your session is saved. Resume it next time.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showTitle {
		return m.renderTitle()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := m.transcript.Width
	chatPanel := chatPanelStyle.Width(chatWidth + 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.transcript.View(),
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-2, 1))),
			m.statusLine(),
			m.textarea.View(),
		),
	)
	sidePanel := sidePanelStyle.Width(sidebarWidth).Render(m.renderSidebar())

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, sidePanel)
}
