package prompts

import (
	"fmt"

	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// DefaultHistoryLimit is the transcript window sent with each request.
const DefaultHistoryLimit = 20

// EngineNotePrefix marks engine notices replayed to the narrator.
const EngineNotePrefix = "[ENGINE] "

// Builder constructs chat messages for the narrator using a fluent interface.
type Builder struct {
	session      *state.SessionState
	scenario     *scenario.Scenario
	instruction  string
	speaker      string
	historyLimit int
	messages     []chat.ChatMessage
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: DefaultHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithSession sets the session snapshot to describe.
func (b *Builder) WithSession(s *state.SessionState) *Builder {
	b.session = s
	return b
}

// WithScenario sets the adventure module.
func (b *Builder) WithScenario(s *scenario.Scenario) *Builder {
	b.scenario = s
	return b
}

// WithInstruction sets the text the narrator must resolve this turn.
func (b *Builder) WithInstruction(text string) *Builder {
	b.instruction = text
	return b
}

// WithSpeaker names the character acting on the instruction.
func (b *Builder) WithSpeaker(name string) *Builder {
	b.speaker = name
	return b
}

// WithHistoryLimit sets the transcript window size. Values below 1 are ignored.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	if limit > 0 {
		b.historyLimit = limit
	}
	return b
}

// Build returns the message array: system prompt, transcript window, then
// the instruction as the final user message.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if b.scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if b.instruction == "" {
		return nil, fmt.Errorf("instruction is required")
	}

	b.messages = make([]chat.ChatMessage, 0, b.historyLimit+2)
	b.addSystemPrompt()
	b.addHistory()
	b.addInstruction()
	return b.messages, nil
}

func (b *Builder) addSystemPrompt() {
	ps := state.ToPromptState(b.session, b.scenario)
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: DMSystemPrompt + "\n\n" + SignalConventions + "\n\n" + StatePrompt(ps, b.scenario),
	})
}

// addHistory appends the windowed transcript. Engine notices become user
// messages tagged as engine output so providers that hoist system messages
// keep them in order. The window starts at the first player line, and a
// trailing player line matching the instruction is left to addInstruction.
func (b *Builder) addHistory() {
	window := b.session.RecentHistory(b.historyLimit)

	if n := len(window); n > 0 {
		last := window[n-1]
		if last.Kind == chat.KindPlayer && last.Content == b.instruction {
			window = window[:n-1]
		}
	}

	started := false
	for _, m := range window {
		if !started && m.Kind != chat.KindPlayer {
			continue
		}
		started = true

		cm := m.ToChatMessage()
		if cm.Role == chat.ChatRoleSystem {
			cm = chat.ChatMessage{Role: chat.ChatRoleUser, Content: EngineNotePrefix + m.Content}
		}
		b.messages = append(b.messages, cm)
	}
}

func (b *Builder) addInstruction() {
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: fmt.Sprintf("Input: %s\nTurn: %d", chat.FormatWithSpeaker(b.instruction, b.speaker), b.session.TurnCount),
	})
}

// BuildMessages is a convenience function for the common case.
func BuildMessages(s *state.SessionState, scn *scenario.Scenario, instruction string, historyLimit int) ([]chat.ChatMessage, error) {
	return New().
		WithSession(s).
		WithScenario(scn).
		WithInstruction(instruction).
		WithHistoryLimit(historyLimit).
		Build()
}
