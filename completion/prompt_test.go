package completion

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leafprotocol/leafgate/types"
)

func TestBuildEmbedsPersonalityAndMessage(t *testing.T) {
	b := NewPromptBuilder(0, 0)

	prompt := b.Build("Dry wit, loves sailing.", nil, "What should I read?")

	assert.Contains(t, prompt, "Dry wit, loves sailing.")
	assert.Contains(t, prompt, "User asks: What should I read?")
	assert.NotContains(t, prompt, "Previous conversation")
}

func TestBuildRendersHistoryRoles(t *testing.T) {
	b := NewPromptBuilder(0, 0)
	history := []types.ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}

	prompt := b.Build("persona", history, "next")

	assert.Contains(t, prompt, "User: hello")
	assert.Contains(t, prompt, "You: hi there")
}

func TestBuildCapsHistory(t *testing.T) {
	b := NewPromptBuilder(5, 0)

	var history []types.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, types.ChatMessage{
			Role:    "user",
			Content: fmt.Sprintf("message-%d", i),
		})
	}

	prompt := b.Build("persona", history, "next")

	assert.NotContains(t, prompt, "message-24")
	for i := 25; i < 30; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("message-%d", i))
	}
}

func TestBuildTruncatesLongEntries(t *testing.T) {
	b := NewPromptBuilder(0, 16)
	history := []types.ChatMessage{
		{Role: "user", Content: strings.Repeat("x", 100)},
	}

	prompt := b.Build("persona", history, "next")

	assert.Contains(t, prompt, "User: "+strings.Repeat("x", 16)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("x", 17))
}
