// Package openai streams chat completions from an OpenAI-compatible
// chat-completions endpoint, reassembling tool_calls deltas that arrive
// keyed by index. Grounded on llms/openai.go's makeStreamingRequest,
// generalized from that provider's own toolCallsMap merge to emitting
// one ToolUse fragment per delta and leaving full reassembly to
// toolcall.Accumulator.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/internal/httpclient"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/msg"
	"github.com/flowloop/agentkit/tool"
)

// Config configures an Adapter.
type Config struct {
	APIKey  string
	Model   string
	Host    string // defaults to https://api.openai.com/v1
	Timeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "https://api.openai.com/v1"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Adapter implements model.Adapter against an OpenAI-compatible
// chat-completions endpoint.
type Adapter struct {
	cfg    Config
	client *httpclient.Client
}

// New builds an Adapter.
func New(cfg Config) *Adapter {
	cfg.setDefaults()
	return &Adapter{
		cfg: cfg,
		client: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			httpclient.WithHeaderParser(httpclient.ParseOpenAIHeaders),
		),
	}
}

type function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type toolDef struct {
	Type     string   `json:"type"`
	Function function `json:"function"`
}

type toolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function,omitempty"`
}

type request struct {
	Model            string        `json:"model"`
	Messages         []any         `json:"messages"`
	Temperature      *float64      `json:"temperature,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	Stream           bool          `json:"stream"`
	Tools            []toolDef     `json:"tools,omitempty"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string     `json:"content,omitempty"`
			ToolCalls []toolCall `json:"tool_calls,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Stream opens a streaming chat-completions call and yields ChatResponse
// chunks, emitting one ToolUse fragment per tool_calls delta entry: a
// delta carrying a non-empty id is the first fragment for its index (sets
// id and name); subsequent deltas for that index carry only argument
// text and use the placeholder name "__fragment__".
func (a *Adapter) Stream(ctx context.Context, wire []format.WireMessage, tools []tool.Schema, opts model.GenerateOptions) iter.Seq2[*model.ChatResponse, error] {
	return func(yield func(*model.ChatResponse, error) bool) {
		req := buildRequest(a.cfg.Model, wire, tools, opts)

		body, err := json.Marshal(req)
		if err != nil {
			yield(nil, fmt.Errorf("openai: marshal request: %w", err))
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Host+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			yield(nil, fmt.Errorf("openai: build http request: %w", err))
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

		resp, err := a.client.Do(httpReq)
		if err != nil {
			yield(nil, fmt.Errorf("openai: request failed: %w", err))
			return
		}
		defer resp.Body.Close()

		// index -> whether this tool call's first fragment (with id/name)
		// has already been emitted.
		started := map[int]bool{}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			default:
			}

			line := scanner.Text()
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if chunk.Usage != nil {
				u := &model.Usage{InputTokens: chunk.Usage.PromptTokens, OutputTokens: chunk.Usage.CompletionTokens}
				if !yield(&model.ChatResponse{Usage: u}, nil) {
					return
				}
			}

			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta

			if delta.Content != "" {
				if !yield(&model.ChatResponse{Content: []msg.ContentBlock{msg.Text{Text: delta.Content}}}, nil) {
					return
				}
			}

			for _, tc := range delta.ToolCalls {
				idx := tc.Index
				if tc.ID != "" {
					started[idx] = true
					block := &model.ChatResponse{Content: []msg.ContentBlock{msg.ToolUse{
						ID:   tc.ID,
						Name: tc.Function.Name,
						Raw:  tc.Function.Arguments,
					}}}
					if !yield(block, nil) {
						return
					}
					continue
				}
				if started[idx] && tc.Function.Arguments != "" {
					block := &model.ChatResponse{Content: []msg.ContentBlock{msg.ToolUse{
						Name: "__fragment__",
						Raw:  tc.Function.Arguments,
					}}}
					if !yield(block, nil) {
						return
					}
				}
			}

			if chunk.Choices[0].FinishReason == "stop" || chunk.Choices[0].FinishReason == "tool_calls" {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("openai: read stream: %w", err))
		}
	}
}

func buildRequest(modelName string, wire []format.WireMessage, tools []tool.Schema, opts model.GenerateOptions) request {
	messages := make([]any, len(wire))
	for i, w := range wire {
		messages[i] = w
	}

	toolDefs := make([]toolDef, 0, len(tools))
	for _, t := range tools {
		toolDefs = append(toolDefs, toolDef{Type: "function", Function: function{
			Name: t.Name, Description: t.Description, Parameters: t.Parameters,
		}})
	}

	return request{
		Model:            modelName,
		Messages:         messages,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		MaxTokens:        opts.MaxTokens,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
		Stream:           true,
		Tools:            toolDefs,
	}
}
