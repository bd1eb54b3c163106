package tool

import "github.com/flowloop/agentkit/msg"

// Response is what a tool invocation (or the dispatcher, on its behalf)
// produces. Errors and interruptions are data, not Go errors: the ReAct
// loop must continue regardless of how a single tool call fared.
type Response struct {
	Content       []msg.ContentBlock
	Metadata      map[string]any
	IsStream      bool
	IsLast        bool
	IsInterrupted bool
	ID            string
}

const interruptedSentinel = "Tool execution was interrupted."

// Text builds a normal, non-streaming, single-text-block Response.
func Text(id, text string) Response {
	return Response{
		ID:       id,
		Content:  []msg.ContentBlock{msg.Text{Text: text}},
		IsStream: false,
		IsLast:   true,
	}
}

// Error builds an error Response: a single text block prefixed "Error: ".
// Errors are data here, never Go exceptions.
func Error(id, reason string) Response {
	return Response{
		ID:       id,
		Content:  []msg.ContentBlock{msg.Text{Text: "Error: " + reason}},
		IsStream: false,
		IsLast:   true,
	}
}

// Interrupted builds the sentinel Response used when the enclosing scope
// was cancelled before or during the tool's execution.
func Interrupted(id string) Response {
	return Response{
		ID:            id,
		Content:       []msg.ContentBlock{msg.Text{Text: interruptedSentinel}},
		IsStream:      false,
		IsLast:        true,
		IsInterrupted: true,
	}
}

// TextContent concatenates every Text/Thinking block in Content, for
// callers that want a single string for the ToolResult's Output.
func (r Response) TextContent() string {
	out := ""
	for _, b := range r.Content {
		if text, ok := msg.TextOf(b); ok {
			out += text
		}
	}
	return out
}
