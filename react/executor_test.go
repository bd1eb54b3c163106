package react_test

import (
	"context"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/memory"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/msg"
	"github.com/flowloop/agentkit/react"
	"github.com/flowloop/agentkit/tool"
)

// passthroughFormatter is a minimal Formatter that ignores content entirely;
// the react executor only cares about the wire list's length as an input to
// the adapter, never its shape, so tests can stub it out cheaply.
type passthroughFormatter struct{}

func (passthroughFormatter) Format(messages []msg.Msg, systemPrompt string) []format.WireMessage {
	return make([]format.WireMessage, len(messages))
}

func (passthroughFormatter) Capabilities() format.Capabilities {
	return format.Capabilities{ProviderName: "fake"}
}

// scriptedAdapter replays one canned chunk sequence per call to Stream, in
// order; calling Stream more times than there are scripts is a test bug.
type scriptedAdapter struct {
	t       *testing.T
	scripts [][]*model.ChatResponse
	calls   int
}

func (a *scriptedAdapter) Stream(ctx context.Context, wire []format.WireMessage, tools []tool.Schema, opts model.GenerateOptions) iter.Seq2[*model.ChatResponse, error] {
	a.t.Helper()
	require.Less(a.t, a.calls, len(a.scripts), "scriptedAdapter: Stream called more times than scripted")
	script := a.scripts[a.calls]
	a.calls++
	return func(yield func(*model.ChatResponse, error) bool) {
		for _, chunk := range script {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func textChunk(s string) *model.ChatResponse {
	return &model.ChatResponse{Content: []msg.ContentBlock{msg.Text{Text: s}}}
}

func toolUseChunk(id, name string, input map[string]any) *model.ChatResponse {
	return &model.ChatResponse{Content: []msg.ContentBlock{msg.ToolUse{ID: id, Name: name, Input: input}}}
}

func echoRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	schema, fn := tool.FromFunc("echo", "echoes its input", tool.ObjectSchema(map[string]any{
		"value": map[string]any{"type": "string"},
	}), func(ctx context.Context, input map[string]any) tool.Response {
		v, _ := input["value"].(string)
		return tool.Text("", v)
	})
	require.NoError(t, r.Register(schema, fn))
	return r
}

func newExecutor(t *testing.T, adapter model.Adapter, registry *tool.Registry, maxIters int) *react.Executor {
	t.Helper()
	return &react.Executor{
		Memory:     memory.New(),
		Formatter:  passthroughFormatter{},
		Adapter:    adapter,
		Tools:      registry,
		Dispatcher: tool.NewDispatcher(registry),
		MaxIters:   maxIters,
	}
}

// one-shot text. The model replies with plain text and no tool call; the
// loop terminates after a single reasoning step.
func TestStreamOneShotText(t *testing.T) {
	adapter := &scriptedAdapter{t: t, scripts: [][]*model.ChatResponse{
		{textChunk("Hel"), textChunk("lo")},
	}}
	e := newExecutor(t, adapter, tool.NewRegistry(), 10)

	var got []msg.Msg
	for m, err := range e.Stream(context.Background(), msg.NewText(msg.RoleUser, "user", "hi")) {
		require.NoError(t, err)
		got = append(got, m)
	}

	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, "text", m.Content().Kind())
	}
	assert.Equal(t, 1, adapter.calls, "no second reasoning step once text terminates the loop")
	assert.Equal(t, 2, e.Memory.Len(), "user msg + one aggregated assistant msg")
}

// single tool call round-trip. Reasoning(0) emits one ToolUse for a
// registered tool; Acting(0) dispatches it; Reasoning(1) sees the result and
// replies with text, terminating the loop.
func TestStreamSingleToolCallRoundTrip(t *testing.T) {
	adapter := &scriptedAdapter{t: t, scripts: [][]*model.ChatResponse{
		{toolUseChunk("call-1", "echo", map[string]any{"value": "hi"})},
		{textChunk("done")},
	}}
	registry := echoRegistry(t)
	e := newExecutor(t, adapter, registry, 10)

	var got []msg.Msg
	for m, err := range e.Stream(context.Background(), msg.NewText(msg.RoleUser, "user", "say hi")) {
		require.NoError(t, err)
		got = append(got, m)
	}

	require.Len(t, got, 3)
	toolMsg := got[0]
	tu, ok := toolMsg.Content().(msg.ToolUse)
	require.True(t, ok)
	assert.Equal(t, "call-1", tu.ID)

	resultMsg := got[1]
	tr, ok := resultMsg.Content().(msg.ToolResult)
	require.True(t, ok)
	assert.Equal(t, "call-1", tr.ID)
	text, _ := msg.TextOf(tr.Output)
	assert.Equal(t, "hi", text)

	assert.Equal(t, "text", got[2].Content().Kind())
	assert.Equal(t, 2, adapter.calls)
}

// parallel tool batch. A single reasoning step emits two complete
// ToolUses ("a" then "b") before any text; Acting dispatches both as one
// batch and the resulting tool-result messages land in memory in call
// order (id=a then id=b) regardless of which tool actually finishes first.
func TestStreamParallelToolBatchPreservesOrder(t *testing.T) {
	adapter := &scriptedAdapter{t: t, scripts: [][]*model.ChatResponse{
		{
			toolUseChunk("a", "echo", map[string]any{"value": "first"}),
			toolUseChunk("b", "echo", map[string]any{"value": "second"}),
		},
		{textChunk("done")},
	}}
	registry := echoRegistry(t)
	e := newExecutor(t, adapter, registry, 10)
	e.Parallel = true

	var got []msg.Msg
	for m, err := range e.Stream(context.Background(), msg.NewText(msg.RoleUser, "user", "do both")) {
		require.NoError(t, err)
		got = append(got, m)
	}

	require.Len(t, got, 5) // tool-use a, tool-use b, result a, result b, text
	tuA, ok := got[0].Content().(msg.ToolUse)
	require.True(t, ok)
	assert.Equal(t, "a", tuA.ID)
	tuB, ok := got[1].Content().(msg.ToolUse)
	require.True(t, ok)
	assert.Equal(t, "b", tuB.ID)

	resA, ok := got[2].Content().(msg.ToolResult)
	require.True(t, ok)
	assert.Equal(t, "a", resA.ID)
	resB, ok := got[3].Content().(msg.ToolResult)
	require.True(t, ok)
	assert.Equal(t, "b", resB.ID)

	assert.Equal(t, "text", got[4].Content().Kind())
}

// unregistered-tool termination. The model names a tool that was never
// registered; the loop terminates immediately without dispatching anything
// or taking a second reasoning step.
func TestStreamUnregisteredToolTerminates(t *testing.T) {
	adapter := &scriptedAdapter{t: t, scripts: [][]*model.ChatResponse{
		{toolUseChunk("call-1", "finish", map[string]any{"answer": "42"})},
	}}
	e := newExecutor(t, adapter, tool.NewRegistry(), 10)

	var got []msg.Msg
	for m, err := range e.Stream(context.Background(), msg.NewText(msg.RoleUser, "user", "finish up")) {
		require.NoError(t, err)
		got = append(got, m)
	}

	require.Len(t, got, 1)
	tu, ok := got[0].Content().(msg.ToolUse)
	require.True(t, ok)
	assert.Equal(t, "finish", tu.Name)
	assert.Equal(t, 1, adapter.calls, "loop terminates without a second reasoning step")
}

// iteration cap. Every reasoning step emits a registered tool call, so
// the loop never terminates on its own; it stops after exactly MaxIters
// cycles, leaving MaxIters tool-result messages (plus the user message) in
// memory.
func TestStreamIterationCap(t *testing.T) {
	const maxIters = 3
	scripts := make([][]*model.ChatResponse, maxIters)
	for i := range scripts {
		scripts[i] = []*model.ChatResponse{toolUseChunk(fmt.Sprintf("call-%d", i), "echo", map[string]any{"value": "x"})}
	}
	adapter := &scriptedAdapter{t: t, scripts: scripts}
	registry := echoRegistry(t)
	e := newExecutor(t, adapter, registry, maxIters)

	var got []msg.Msg
	for m, err := range e.Stream(context.Background(), msg.NewText(msg.RoleUser, "user", "loop forever")) {
		require.NoError(t, err)
		got = append(got, m)
	}

	assert.Equal(t, maxIters, adapter.calls)

	resultCount := 0
	for _, m := range e.Memory.Snapshot() {
		if _, ok := m.Content().(msg.ToolResult); ok {
			resultCount++
		}
	}
	assert.Equal(t, maxIters, resultCount)
}

// Reply collapses Stream to the final aggregated assistant text, discarding
// everything at and before the last ToolUse.
func TestReplyAggregatesTextAfterLastToolUse(t *testing.T) {
	adapter := &scriptedAdapter{t: t, scripts: [][]*model.ChatResponse{
		{toolUseChunk("call-1", "echo", map[string]any{"value": "hi"})},
		{textChunk("the answer "), textChunk("is 42")},
	}}
	registry := echoRegistry(t)
	e := newExecutor(t, adapter, registry, 10)

	reply, err := e.Reply(context.Background(), msg.NewText(msg.RoleUser, "user", "say hi"))
	require.NoError(t, err)
	text, ok := msg.TextOf(reply.Content())
	require.True(t, ok)
	assert.Equal(t, "the answer is 42", text)
}
