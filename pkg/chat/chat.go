package chat

import (
	"fmt"
	"strings"
	"time"
)

// Kind tags a transcript entry.
type Kind string

const (
	KindDM     Kind = "dm"     // Narrator prose
	KindPlayer Kind = "player" // Literal player input
	KindSystem Kind = "system" // Engine notices, dice summaries, failures
	KindDice   Kind = "dice"   // Ad-hoc ROLL output
)

// Message is one entry in the append-only session transcript.
// Messages are never mutated after creation.
type Message struct {
	Kind      Kind   `json:"type"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// NewMessage stamps a transcript entry with now.
func NewMessage(kind Kind, content string, now time.Time) Message {
	return Message{
		Kind:      kind,
		Content:   content,
		Timestamp: now.UnixMilli(),
	}
}

// Time returns the creation time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Dungeon master
	ChatRoleSystem = "system"    // Instructions and engine notices
)

// ChatMessage is a single message sent to an LLM provider.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the text an LLM provider returned.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

// ToChatMessage maps a transcript entry onto an LLM role. Dice output is
// reported to the narrator as a system notice.
func (m Message) ToChatMessage() ChatMessage {
	switch m.Kind {
	case KindPlayer:
		return ChatMessage{Role: ChatRoleUser, Content: m.Content}
	case KindDM:
		return ChatMessage{Role: ChatRoleAgent, Content: m.Content}
	default:
		return ChatMessage{Role: ChatRoleSystem, Content: m.Content}
	}
}

// CommandRequest is a line of player input submitted to the session API.
type CommandRequest struct {
	Input string `json:"input"`
}

func (cr *CommandRequest) Validate() error {
	if strings.TrimSpace(cr.Input) == "" {
		return fmt.Errorf("input cannot be empty")
	}
	return nil
}

// CellRequest addresses a map cell to cycle.
type CellRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FormatWithSpeaker prefixes message with the acting character's name unless
// it already names a speaker.
func FormatWithSpeaker(message, speaker string) string {
	if speaker == "" {
		return message
	}
	if idx := strings.Index(message, ":"); idx > 0 && idx <= 20 {
		if len(strings.Fields(message[:idx])) <= 2 {
			return message
		}
	}
	return speaker + ": " + message
}
