package completion

import (
	"strings"

	"github.com/leafprotocol/leafgate/types"
)

const (
	DefaultMaxHistory    = 20
	DefaultMaxMessageLen = 2048
)

// PromptBuilder assembles the text sent to the generator: the leaf's
// personality note, a bounded slice of the caller-supplied conversation
// history, and the new message. History is untrusted display text; it is
// quoted into the transcript, never phrased as instructions.
type PromptBuilder struct {
	MaxHistory    int
	MaxMessageLen int
}

func NewPromptBuilder(maxHistory, maxMessageLen int) PromptBuilder {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if maxMessageLen <= 0 {
		maxMessageLen = DefaultMaxMessageLen
	}
	return PromptBuilder{MaxHistory: maxHistory, MaxMessageLen: maxMessageLen}
}

// Build renders the prompt. Only the most recent MaxHistory messages are
// kept, and each history entry is truncated to MaxMessageLen bytes.
func (b PromptBuilder) Build(personality string, history []types.ChatMessage, message string) string {
	var sb strings.Builder

	sb.WriteString("You are an AI digital replica (a \"Leaf\") with this personality:\n\n")
	sb.WriteString(personality)
	sb.WriteString("\n\nRespond to the user's question authentically from this person's perspective. ")
	sb.WriteString("Provide complete, thoughtful responses that reflect the personality above.")

	if len(history) > b.MaxHistory {
		history = history[len(history)-b.MaxHistory:]
	}
	if len(history) > 0 {
		sb.WriteString("\n\nPrevious conversation:\n")
		for _, msg := range history {
			role := "You"
			if msg.Role == "user" {
				role = "User"
			}
			sb.WriteString(role)
			sb.WriteString(": ")
			sb.WriteString(truncate(msg.Content, b.MaxMessageLen))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nUser asks: ")
	sb.WriteString(message)

	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
