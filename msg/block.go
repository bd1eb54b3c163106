// Package msg defines the immutable message and content-block model shared
// by every layer of the agent: memory, the formatter, the model adapters,
// and the ReAct executor all speak Msg, never a provider wire shape.
package msg

// ContentBlock is the closed set of content kinds a Msg may carry. It is
// modeled as a sealed interface over concrete struct kinds rather than a
// single struct with optional fields, following the "struct-with-kind-tag"
// shape recommended for Go sum types.
type ContentBlock interface {
	isContentBlock()
	// Kind returns a short, stable tag for the concrete block type. Useful
	// for logging and for formatter degrade-to-text fallbacks.
	Kind() string
}

// Text is plain assistant/user/system text.
type Text struct {
	Text string
}

func (Text) isContentBlock() {}
func (Text) Kind() string    { return "text" }

// Thinking is model reasoning commentary. It is surfaced on the streaming
// API for UX but never fed back to the model as tool input and never
// included in the final aggregated reply.
type Thinking struct {
	Text string
}

func (Thinking) isContentBlock() {}
func (Thinking) Kind() string    { return "thinking" }

// ToolUse is a pending (or, once finalized, complete) tool invocation.
// Raw carries the still-unparsed argument fragment from a streaming chunk;
// Input is the parsed JSON-object form once the accumulator has finished.
type ToolUse struct {
	ID    string
	Name  string
	Input map[string]any
	Raw   string
}

func (ToolUse) isContentBlock() {}
func (ToolUse) Kind() string    { return "tool_use" }

// ToolResult carries the output of a tool invocation. ID must equal the
// originating ToolUse's ID.
type ToolResult struct {
	ID     string
	Name   string
	Output ContentBlock
}

func (ToolResult) isContentBlock() {}
func (ToolResult) Kind() string    { return "tool_result" }

// MediaSource is either a remote URL or inline base64 data.
type MediaSource struct {
	URL       string
	Data      string
	MediaType string
}

// Image, Audio, Video pass media through opaquely; the formatter decides
// how to render MediaSource into the wire format.
type Image struct{ Source MediaSource }
type Audio struct{ Source MediaSource }
type Video struct{ Source MediaSource }

func (Image) isContentBlock() {}
func (Image) Kind() string    { return "image" }
func (Audio) isContentBlock() {}
func (Audio) Kind() string    { return "audio" }
func (Video) isContentBlock() {}
func (Video) Kind() string    { return "video" }

// TextOf extracts the text of a block when it carries one, for formatter
// best-effort degradation of unknown/media block kinds.
func TextOf(b ContentBlock) (string, bool) {
	switch v := b.(type) {
	case Text:
		return v.Text, true
	case Thinking:
		return v.Text, true
	}
	return "", false
}
