package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/msg"
)

func TestSingleChatSystemPrompt(t *testing.T) {
	f := format.NewSingleChat("openai")
	wire := f.Format(nil, "You are a helpful assistant.")
	require.Len(t, wire, 1)
	assert.Equal(t, "system", wire[0].Role)
	assert.Equal(t, "You are a helpful assistant.", wire[0].Content)
}

func TestSingleChatTextMessage(t *testing.T) {
	f := format.NewSingleChat("openai")
	messages := []msg.Msg{msg.NewText(msg.RoleUser, "alice", "hello there")}
	wire := f.Format(messages, "")
	require.Len(t, wire, 1)
	assert.Equal(t, "user", wire[0].Role)
	assert.Equal(t, "hello there", wire[0].Content)
}

func TestSingleChatAssistantToolCall(t *testing.T) {
	f := format.NewSingleChat("openai")
	tu := msg.ToolUse{ID: "call_1", Name: "get_weather", Input: map[string]any{"city": "Paris"}}
	messages := []msg.Msg{msg.New(msg.RoleAssistant, "assistant", tu)}
	wire := f.Format(messages, "")
	require.Len(t, wire, 1)
	assert.Equal(t, "assistant", wire[0].Role)
	assert.Equal(t, "", wire[0].Content)
	require.Len(t, wire[0].ToolCalls, 1)
	assert.Equal(t, "call_1", wire[0].ToolCalls[0].ID)
	assert.Equal(t, "function", wire[0].ToolCalls[0].Type)
	assert.Equal(t, "get_weather", wire[0].ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"city":"Paris"}`, wire[0].ToolCalls[0].Function.Arguments)
}

func TestSingleChatToolResult(t *testing.T) {
	f := format.NewSingleChat("openai")
	tr := msg.ToolResult{ID: "call_1", Name: "get_weather", Output: msg.Text{Text: "22C and sunny"}}
	messages := []msg.Msg{msg.New(msg.RoleTool, "get_weather", tr)}
	wire := f.Format(messages, "")
	require.Len(t, wire, 1)
	assert.Equal(t, "tool", wire[0].Role)
	assert.Equal(t, "call_1", wire[0].ToolCallID)
	assert.Equal(t, "22C and sunny", wire[0].Content)
}

func TestSingleChatEmptyInputSerializesToEmptyObject(t *testing.T) {
	f := format.NewSingleChat("openai")
	tu := msg.ToolUse{ID: "call_1", Name: "noop", Input: nil}
	messages := []msg.Msg{msg.New(msg.RoleAssistant, "assistant", tu)}
	wire := f.Format(messages, "")
	require.Len(t, wire, 1)
	assert.Equal(t, "{}", wire[0].ToolCalls[0].Function.Arguments)
}

func TestSingleChatCapabilities(t *testing.T) {
	f := format.NewSingleChat("anthropic")
	caps := f.Capabilities()
	assert.Equal(t, "anthropic", caps.ProviderName)
	assert.True(t, caps.SupportsToolAPI)
	assert.False(t, caps.SupportsMultiAgent)
}
