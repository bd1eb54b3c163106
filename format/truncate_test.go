package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowloop/agentkit/format"
)

// wordCounter is a fake TokenCounter standing in for tiktoken in tests,
// so truncation behavior can be asserted deterministically without a
// live BPE download.
type wordCounter struct{}

func (wordCounter) Count(messages []format.WireMessage) int {
	total := 0
	for _, m := range messages {
		if s, ok := m.Content.(string); ok {
			total += len(strings.Fields(s))
		}
	}
	return total
}

func TestBudgetTruncateRemovesOldestNonSystem(t *testing.T) {
	budget := format.Budget{Counter: wordCounter{}, MaxTokens: 3}
	messages := []format.WireMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "first message here"},
		{Role: "assistant", Content: "second reply here"},
		{Role: "user", Content: "third"},
	}
	out := budget.Truncate(messages)

	assert.Equal(t, "system", out[0].Role)
	for _, m := range out[1:] {
		assert.NotEqual(t, "system", m.Role)
	}
	assert.LessOrEqual(t, wordCounter{}.Count(out), 3)
}

func TestBudgetNeverRemovesSystemMessages(t *testing.T) {
	budget := format.Budget{Counter: wordCounter{}, MaxTokens: 1}
	messages := []format.WireMessage{
		{Role: "system", Content: "a whole lot of words in the system prompt here"},
	}
	out := budget.Truncate(messages)
	assert.Len(t, out, 1)
	assert.Equal(t, "system", out[0].Role)
}

func TestBudgetNoopWithoutCounter(t *testing.T) {
	budget := format.Budget{}
	messages := []format.WireMessage{{Role: "user", Content: "hello"}}
	out := budget.Truncate(messages)
	assert.Equal(t, messages, out)
}
