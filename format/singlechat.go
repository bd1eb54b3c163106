package format

import "github.com/flowloop/agentkit/msg"

// SingleChat formats memory as one wire message per Msg, following the
// teacher's OpenAI chat-completions convention directly: system prompt as
// its own leading system message, tool calls attached to the assistant
// message that issued them, tool results as role:"tool" messages keyed by
// tool_call_id.
type SingleChat struct {
	ProviderName string
}

// NewSingleChat builds a SingleChat formatter labelled with providerName
// for its Capabilities descriptor.
func NewSingleChat(providerName string) *SingleChat {
	return &SingleChat{ProviderName: providerName}
}

func (f *SingleChat) Capabilities() Capabilities {
	return Capabilities{
		ProviderName:       f.ProviderName,
		SupportsToolAPI:    true,
		SupportsMultiAgent: false,
		SupportsVision:     true,
		SupportedBlockKinds: []string{
			"text", "thinking", "tool_use", "tool_result", "image", "audio", "video",
		},
	}
}

func (f *SingleChat) Format(messages []msg.Msg, systemPrompt string) []WireMessage {
	out := make([]WireMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, WireMessage{Role: "system", Content: systemPrompt})
	}
	for _, m := range messages {
		out = append(out, formatSingle(m)...)
	}
	return collapseAllText(out)
}

// formatSingle converts one Msg — which carries exactly one ContentBlock
// — into its one wire message.
func formatSingle(m msg.Msg) []WireMessage {
	role := string(m.Role())
	block := m.Content()

	switch v := block.(type) {
	case msg.ToolResult:
		// Tool-result messages have their own wire shape regardless of role.
		text, ok := msg.TextOf(v.Output)
		if !ok {
			text = degradeToText(v.Output)
		}
		return []WireMessage{{
			Role:       "tool",
			Content:    text,
			ToolCallID: v.ID,
		}}

	case msg.ToolUse:
		// Assistant messages carrying a ToolUse emit the mandatory empty
		// text placeholder plus a one-element tool_calls array (some
		// providers reject an omitted content field on assistant
		// tool-call messages).
		return []WireMessage{{
			Role:    role,
			Content: []WireContentEntry{{Text: ""}},
			ToolCalls: []WireToolCall{{
				ID:   v.ID,
				Type: "function",
				Function: WireFunction{
					Name:      v.Name,
					Arguments: serializeInput(v.Input),
				},
			}},
		}}

	case msg.Text:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Text: v.Text}}}}

	case msg.Thinking:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Text: v.Text}}}}

	case msg.Image:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Image: normalizeMediaURL(mediaURL(v.Source))}}}}

	case msg.Audio:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Audio: normalizeMediaURL(mediaURL(v.Source))}}}}

	case msg.Video:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Video: normalizeMediaURL(mediaURL(v.Source))}}}}

	default:
		return []WireMessage{{Role: role, Content: []WireContentEntry{{Text: degradeToText(block)}}}}
	}
}

func mediaURL(src msg.MediaSource) string {
	if src.URL != "" {
		return src.URL
	}
	return src.Data
}

// degradeToText is the formatter's best-effort fallback for unknown block
// kinds: it never fails, it just describes what it couldn't render.
func degradeToText(b msg.ContentBlock) string {
	if text, ok := msg.TextOf(b); ok {
		return text
	}
	return "[" + b.Kind() + "]"
}

// collapseAllText implements the post-pass: any wire message whose
// Content is a []WireContentEntry where every entry is text-only gets
// Content replaced by the newline-joined concatenation of those texts.
func collapseAllText(messages []WireMessage) []WireMessage {
	for i := range messages {
		entries, ok := messages[i].Content.([]WireContentEntry)
		if !ok {
			continue
		}
		allText := true
		texts := make([]string, len(entries))
		for j, e := range entries {
			if e.Image != "" || e.Audio != "" || e.Video != "" {
				allText = false
				break
			}
			texts[j] = e.Text
		}
		if allText {
			joined := ""
			for j, t := range texts {
				if j > 0 {
					joined += "\n"
				}
				joined += t
			}
			messages[i].Content = joined
		}
	}
	return messages
}
