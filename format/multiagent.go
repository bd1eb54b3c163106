package format

import (
	"strings"

	"github.com/flowloop/agentkit/msg"
)

// MultiAgent collapses the non-tool-sequence portion of memory into one
// synthetic <history>...</history> user message, keeping tool-use and
// tool-result messages as individual wire messages after it — the shape
// a multi-agent host uses so a sub-agent sees its caller's conversation
// as a single contextual blob rather than a long alternating turn list.
type MultiAgent struct {
	ProviderName string
}

// NewMultiAgent builds a MultiAgent formatter labelled with providerName.
func NewMultiAgent(providerName string) *MultiAgent {
	return &MultiAgent{ProviderName: providerName}
}

func (f *MultiAgent) Capabilities() Capabilities {
	return Capabilities{
		ProviderName:       f.ProviderName,
		SupportsToolAPI:    true,
		SupportsMultiAgent: true,
		SupportsVision:     true,
		SupportedBlockKinds: []string{
			"text", "thinking", "tool_use", "tool_result", "image", "audio", "video",
		},
	}
}

func (f *MultiAgent) Format(messages []msg.Msg, systemPrompt string) []WireMessage {
	out := make([]WireMessage, 0, len(messages)+2)
	if systemPrompt != "" {
		out = append(out, WireMessage{Role: "system", Content: systemPrompt})
	}

	var historyEntries []WireContentEntry
	var lineBuf []string
	var toolMessages []WireMessage

	flush := func() {
		if len(lineBuf) == 0 {
			return
		}
		historyEntries = append(historyEntries, WireContentEntry{Text: strings.Join(lineBuf, "\n")})
		lineBuf = nil
	}

	for _, m := range messages {
		block := m.Content()
		if isToolSequence(block) {
			toolMessages = append(toolMessages, formatSingle(m)...)
			continue
		}

		switch v := block.(type) {
		case msg.Image:
			flush()
			historyEntries = append(historyEntries, WireContentEntry{Image: normalizeMediaURL(mediaURL(v.Source))})
		case msg.Audio:
			flush()
			historyEntries = append(historyEntries, WireContentEntry{Audio: normalizeMediaURL(mediaURL(v.Source))})
		case msg.Video:
			flush()
			historyEntries = append(historyEntries, WireContentEntry{Video: normalizeMediaURL(mediaURL(v.Source))})
		default:
			lineBuf = append(lineBuf, historyLine(m))
		}
	}
	flush()

	historyEntries = wrapHistory(historyEntries)
	if len(historyEntries) > 0 {
		out = append(out, WireMessage{Role: "user", Content: historyEntries})
	}
	out = append(out, toolMessages...)

	return collapseAllText(out)
}

// isToolSequence reports whether block is a ToolUse or ToolResult, the
// marker for "not part of the collapsed history".
func isToolSequence(block msg.ContentBlock) bool {
	switch block.(type) {
	case msg.ToolUse, msg.ToolResult:
		return true
	}
	return false
}

// historyLine renders one memory message as a "<Role> <name>: <text>"
// line for the collapsed history window.
func historyLine(m msg.Msg) string {
	text, _ := msg.TextOf(m.Content())
	return roleLabel(string(m.Role())) + " " + m.Name() + ": " + text
}

// wrapHistory wraps the collapsed history entries in literal <history>
// and </history> delimiters, prepending/appending a dedicated text entry
// when the first/last entry isn't itself text (i.e. the window starts or
// ends with a media entry).
func wrapHistory(entries []WireContentEntry) []WireContentEntry {
	if len(entries) == 0 {
		return []WireContentEntry{{Text: "<history>\n</history>"}}
	}
	if isTextEntry(entries[0]) {
		entries[0].Text = "<history>\n" + entries[0].Text
	} else {
		entries = append([]WireContentEntry{{Text: "<history>"}}, entries...)
	}
	last := len(entries) - 1
	if isTextEntry(entries[last]) {
		entries[last].Text = entries[last].Text + "\n</history>"
	} else {
		entries = append(entries, WireContentEntry{Text: "</history>"})
	}
	return entries
}

func isTextEntry(e WireContentEntry) bool {
	return e.Image == "" && e.Audio == "" && e.Video == ""
}
