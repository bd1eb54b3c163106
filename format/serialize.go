package format

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// serializeInput renders a tool call's parsed input back into the
// JSON-object string the wire format requires. encoding/json already
// sorts map[string]any keys lexically when marshaling, which gives
// deterministic output without hand-rolling a serializer — the one place
// this formatter leans on the standard library rather than a third-party
// encoder, since no example in the pack reaches for a custom JSON writer
// for this.
func serializeInput(input map[string]any) string {
	if len(input) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(input)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// roleLabel renders a msg.Role for the multi-agent history window's
// "<Role> <name>: <text>" line format.
func roleLabel(role string) string {
	switch role {
	case "system":
		return "System"
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	case "tool":
		return "Tool"
	default:
		return strings.Title(role) //nolint:staticcheck // simple label, no unicode concerns
	}
}

// normalizeMediaURL rewrites a bare filesystem path that exists on disk
// into a file://absolute URL; anything else (already a URL, inline data,
// a path that doesn't exist) passes through unchanged.
func normalizeMediaURL(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	abs, err := filepath.Abs(url)
	if err != nil {
		return url
	}
	if _, err := os.Stat(abs); err != nil {
		return url
	}
	return "file://" + abs
}
