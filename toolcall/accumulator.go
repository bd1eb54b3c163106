// Package toolcall reassembles the ToolUse fragments a streaming model
// adapter emits into canonical tool calls, reconciling the two emitting
// conventions the examples show: providers that parse arguments
// per-fragment (OpenAI, merging by index) and providers that stream a raw
// partial-JSON buffer (Anthropic's input_json_delta), grounded on
// llms/openai.go's toolCallsMap merge and llms/anthropic.go's RawArgs
// buffer respectively.
package toolcall

import (
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/flowloop/agentkit/msg"
)

var monotonic int64

func nextID() string {
	n := atomic.AddInt64(&monotonic, 1)
	return "tool_call_" + strconv.FormatInt(n, 10)
}

// Fragment is a single partial update the model adapter has parsed out of
// a stream chunk. A fragment may carry any subset of the fields; the
// Accumulator merges whichever are present.
type Fragment struct {
	ID    string
	Name  string
	Input map[string]any // non-nil when the provider parses arguments per-fragment
	Raw   string         // raw partial-JSON text, appended regardless
}

// Accumulator reassembles a sequence of Fragments describing a single
// tool invocation into one canonical msg.ToolUse. It is not safe for
// concurrent use by multiple goroutines — one Accumulator per in-flight
// tool call, matching a single assistant turn's reasoning step.
type Accumulator struct {
	toolID string
	name   string
	args   map[string]any
	raw    []byte
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Feed merges one fragment into the accumulator's state: a non-empty id
// sets tool_id (first write wins — ids are stable within a single call);
// a non-empty name other than the internal "__fragment__" marker sets
// name; a non-nil Input shallow-merges into args; Raw is always
// appended.
func (a *Accumulator) Feed(f Fragment) {
	if f.ID != "" && a.toolID == "" {
		a.toolID = f.ID
	}
	if f.Name != "" && f.Name != "__fragment__" {
		a.name = f.Name
	}
	for k, v := range f.Input {
		if a.args == nil {
			a.args = make(map[string]any)
		}
		a.args[k] = v
	}
	if f.Raw != "" {
		a.raw = append(a.raw, f.Raw...)
	}
}

// Finalize produces the canonical ToolUse this accumulator has assembled,
// and ok=false if no fragment ever set a name (there was no tool call to
// emit). Input prefers the per-fragment merged args; if none arrived, it
// falls back to parsing the full raw buffer as JSON; if that also fails,
// Input is an empty map.
func (a *Accumulator) Finalize() (msg.ToolUse, bool) {
	if a.name == "" {
		return msg.ToolUse{}, false
	}

	id := a.toolID
	if id == "" {
		id = nextID()
	}

	input := a.args
	if len(input) == 0 && len(a.raw) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(a.raw, &parsed); err == nil {
			input = parsed
		}
	}
	if input == nil {
		input = map[string]any{}
	}

	return msg.ToolUse{
		ID:    id,
		Name:  a.name,
		Input: input,
		Raw:   string(a.raw),
	}, true
}

// Reset clears the accumulator's state so it can be reused for the next
// reasoning step, avoiding an allocation per turn.
func (a *Accumulator) Reset() {
	a.toolID = ""
	a.name = ""
	a.args = nil
	a.raw = nil
}
