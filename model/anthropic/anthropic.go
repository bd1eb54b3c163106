// Package anthropic streams chat completions from the Anthropic Messages
// API, parsing its SSE event types (content_block_start/delta/stop,
// message_delta, message_stop) into model.ChatResponse chunks. Grounded
// on llms/anthropic.go's streamRequest loop, generalized from that
// provider's internal ToolCall accumulator to emitting one ToolUse
// fragment per delta and leaving reassembly to toolcall.Accumulator.
package anthropic

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
	Host    string // defaults to https://api.anthropic.com
	Version string // defaults to 2023-06-01
	Timeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "https://api.anthropic.com"
	}
	if c.Version == "" {
		c.Version = "2023-06-01"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Adapter implements model.Adapter against the Anthropic Messages API.
type Adapter struct {
	cfg    Config
	client *httpclient.Client
}

// New builds an Adapter. The HTTP client's retry/backoff wrapper covers
// the request that opens the stream; once streaming begins, retrying is
// unsound (a partial tool call can't be safely replayed), so no retry
// applies to the body read itself.
func New(cfg Config) *Adapter {
	cfg.setDefaults()
	return &Adapter{
		cfg: cfg,
		client: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			httpclient.WithHeaderParser(httpclient.ParseAnthropicHeaders),
		),
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type toolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type request struct {
	Model       string         `json:"model"`
	Messages    []wireMessage  `json:"messages"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature *float64       `json:"temperature,omitempty"`
	TopP        *float64       `json:"top_p,omitempty"`
	Stream      bool           `json:"stream"`
	System      string         `json:"system,omitempty"`
	Tools       []toolDef      `json:"tools,omitempty"`
}

type streamEvent struct {
	Type         string `json:"type"`
	Index        int    `json:"index"`
	Delta        *delta `json:"delta,omitempty"`
	ContentBlock *block `json:"content_block,omitempty"`
	Usage        *usage `json:"usage,omitempty"`
}

type delta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

type block struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Stream opens a streaming Messages API call and yields ChatResponse
// chunks. Each content_block_start/delta/stop triple for a tool_use block
// becomes one or more ToolUse fragments with raw carrying that delta's
// partial_json substring: the first fragment (from content_block_start)
// carries id and name; the rest use name="__fragment__".
func (a *Adapter) Stream(ctx context.Context, wire []format.WireMessage, tools []tool.Schema, opts model.GenerateOptions) iter.Seq2[*model.ChatResponse, error] {
	return func(yield func(*model.ChatResponse, error) bool) {
		req := buildRequest(a.cfg.Model, wire, tools, opts)

		body, err := json.Marshal(req)
		if err != nil {
			yield(nil, fmt.Errorf("anthropic: marshal request: %w", err))
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Host+"/v1/messages", bytes.NewReader(body))
		if err != nil {
			yield(nil, fmt.Errorf("anthropic: build http request: %w", err))
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", a.cfg.APIKey)
		httpReq.Header.Set("anthropic-version", a.cfg.Version)

		resp, err := a.client.Do(httpReq)
		if err != nil {
			yield(nil, fmt.Errorf("anthropic: request failed: %w", err))
			return
		}
		defer resp.Body.Close()

		toolIndex := map[int]string{} // index -> id, for subsequent fragments
		toolStarted := map[int]bool{}

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
			if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")

			var ev streamEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				continue
			}

			switch ev.Type {
			case "content_block_start":
				if ev.ContentBlock != nil && ev.ContentBlock.Type == "tool_use" {
					toolIndex[ev.Index] = ev.ContentBlock.ID
					toolStarted[ev.Index] = true
					chunk := &model.ChatResponse{Content: []msg.ContentBlock{
						msg.ToolUse{ID: ev.ContentBlock.ID, Name: ev.ContentBlock.Name},
					}}
					if !yield(chunk, nil) {
						return
					}
				}

			case "content_block_delta":
				if ev.Delta == nil {
					continue
				}
				if ev.Delta.Text != "" {
					kind := msg.ContentBlock(msg.Text{Text: ev.Delta.Text})
					if ev.Delta.Type == "thinking_delta" {
						kind = msg.Thinking{Text: ev.Delta.Text}
					}
					if !yield(&model.ChatResponse{Content: []msg.ContentBlock{kind}}, nil) {
						return
					}
				}
				if ev.Delta.PartialJSON != "" && toolStarted[ev.Index] {
					chunk := &model.ChatResponse{Content: []msg.ContentBlock{
						msg.ToolUse{Name: "__fragment__", Raw: ev.Delta.PartialJSON},
					}}
					if !yield(chunk, nil) {
						return
					}
				}

			case "message_delta":
				if ev.Usage != nil {
					u := &model.Usage{OutputTokens: ev.Usage.OutputTokens}
					if !yield(&model.ChatResponse{Usage: u}, nil) {
						return
					}
				}

			case "message_stop":
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("anthropic: read stream: %w", err))
		}
	}
}

func buildRequest(modelName string, wire []format.WireMessage, tools []tool.Schema, opts model.GenerateOptions) request {
	system := ""
	messages := make([]wireMessage, 0, len(wire))
	for _, w := range wire {
		if w.Role == "system" {
			if s, ok := w.Content.(string); ok {
				system = s
			}
			continue
		}
		messages = append(messages, wireMessage{Role: w.Role, Content: w.Content})
	}

	toolDefs := make([]toolDef, 0, len(tools))
	for _, t := range tools {
		toolDefs = append(toolDefs, toolDef{Name: t.Name, Description: t.Description, InputSchema: t.Parameters})
	}

	maxTokens := 4096
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}

	return request{
		Model:       modelName,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		Stream:      true,
		System:      system,
		Tools:       toolDefs,
	}
}
