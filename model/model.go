// Package model defines the streaming contract a provider adapter
// implements, and the ChatResponse chunk shape the ReAct loop consumes.
package model

import (
	"context"
	"iter"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/msg"
	"github.com/flowloop/agentkit/tool"
)

// Usage carries a stream's token accounting as the provider reports it.
// The adapters in this module never set WallSeconds; it stays zero.
type Usage struct {
	InputTokens  int
	OutputTokens int
	WallSeconds  float64
}

// ChatResponse is one chunk of a streaming model call: zero or more
// content blocks that arrived since the previous chunk, plus the latest
// known usage (nil until the provider reports one).
type ChatResponse struct {
	ID      string
	Content []msg.ContentBlock
	Usage   *Usage
}

// GenerateOptions are the provider-agnostic sampling knobs threaded
// through every adapter; fields left nil mean "use the provider default."
type GenerateOptions struct {
	Temperature      *float64
	TopP             *float64
	MaxTokens        *int
	FrequencyPenalty *float64
	PresencePenalty  *float64
	EnableThinking   bool
}

// Adapter opens a provider streaming call and yields a finite sequence of
// ChatResponse chunks, propagating ctx cancellation into the underlying
// network/worker resources. Implementations must emit content blocks in
// the order the provider sent the underlying tokens.
type Adapter interface {
	Stream(ctx context.Context, wire []format.WireMessage, tools []tool.Schema, opts GenerateOptions) iter.Seq2[*ChatResponse, error]
}
