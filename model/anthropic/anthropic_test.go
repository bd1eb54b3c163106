package anthropic_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/model/anthropic"
	"github.com/flowloop/agentkit/msg"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, l := range lines {
			fmt.Fprintln(w, l)
			flusher.Flush()
		}
	}))
}

func TestAnthropicStreamTextDelta(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"type":"content_block_start","index":0,"content_block":{"type":"text"}}`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi there"}}`,
		`data: {"type":"content_block_stop","index":0}`,
		`data: {"type":"message_stop"}`,
	})
	defer srv.Close()

	a := anthropic.New(anthropic.Config{APIKey: "x", Model: "claude-3-opus", Host: srv.URL})
	var texts []string
	for chunk, err := range a.Stream(context.Background(), nil, nil, model.GenerateOptions{}) {
		require.NoError(t, err)
		for _, b := range chunk.Content {
			if text, ok := msg.TextOf(b); ok {
				texts = append(texts, text)
			}
		}
	}
	assert.Equal(t, []string{"Hi there"}, texts)
}

func TestAnthropicStreamToolUseFragments(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"get_weather"}}`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\":"}}`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"\"Paris\"}"}}`,
		`data: {"type":"content_block_stop","index":0}`,
		`data: {"type":"message_delta","delta":{},"usage":{"output_tokens":12}}`,
		`data: {"type":"message_stop"}`,
	})
	defer srv.Close()

	a := anthropic.New(anthropic.Config{APIKey: "x", Model: "claude-3-opus", Host: srv.URL})
	var fragments []msg.ToolUse
	var usage *model.Usage
	for chunk, err := range a.Stream(context.Background(), nil, nil, model.GenerateOptions{}) {
		require.NoError(t, err)
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		for _, b := range chunk.Content {
			if tu, ok := b.(msg.ToolUse); ok {
				fragments = append(fragments, tu)
			}
		}
	}
	require.Len(t, fragments, 3)
	assert.Equal(t, "toolu_1", fragments[0].ID)
	assert.Equal(t, "get_weather", fragments[0].Name)
	assert.Equal(t, "__fragment__", fragments[1].Name)
	assert.Equal(t, `{"city":`, fragments[1].Raw)
	assert.Equal(t, `"Paris"}`, fragments[2].Raw)
	require.NotNil(t, usage)
	assert.Equal(t, 12, usage.OutputTokens)
}
