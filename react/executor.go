// Package react implements the iteration-bounded reason/act control loop:
// Reasoning(k) -> Acting(k) -> Reasoning(k+1) or Terminated. Grounded on
// agent/agent.go's execute() loop and reasoning/chain_of_thought.go's
// iteration shape, adapted from a free-text stop-phrase convention to a
// structural termination rule: the loop terminates once the model's last
// message carries no ToolUse for a registered tool.
package react

import (
	"context"
	"fmt"
	"iter"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/memory"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/msg"
	"github.com/flowloop/agentkit/tool"
	"github.com/flowloop/agentkit/toolcall"
)

// DefaultMaxIters is the hard cap on reasoning/acting cycles applied when
// Executor.MaxIters is left at zero.
const DefaultMaxIters = 10

// Executor drives one agent's ReAct loop against its own Memory, model
// Adapter, Formatter, tool Registry and Dispatcher. One Executor is built
// per Agent; it is not safe for concurrent Reply/Stream calls against the
// same Memory — no two reasoning/acting phases for the same agent
// instance run concurrently.
type Executor struct {
	Memory       *memory.Memory
	Formatter    format.Formatter
	Adapter      model.Adapter
	Tools        *tool.Registry
	Dispatcher   *tool.Dispatcher
	SystemPrompt string
	MaxIters     int
	Parallel     bool
	Options      model.GenerateOptions
}

func (e *Executor) maxIters() int {
	if e.MaxIters <= 0 {
		return DefaultMaxIters
	}
	return e.MaxIters
}

// Stream appends userMsg to memory and runs the ReAct loop, yielding every
// intermediate Msg (text, thinking, tool-use, tool-result) as it becomes
// available, in emission order. The stream ends when the loop terminates
// or ctx is cancelled.
func (e *Executor) Stream(ctx context.Context, userMsg msg.Msg) iter.Seq2[msg.Msg, error] {
	return func(yield func(msg.Msg, error) bool) {
		e.Memory.Append(userMsg)

		for k := 0; k < e.maxIters(); k++ {
			_, terminate, err := e.reasonAndAct(ctx, yield)
			if err != nil {
				yield(msg.Msg{}, err)
				return
			}
			if terminate {
				return
			}
		}
	}
}

// reasonAndAct runs one Reasoning(k)+Acting(k) cycle: it opens a model
// stream, emits text/thinking chunks and the finalized ToolUse(s) (if
// any) via yield, appends the corresponding Msg(s) to memory, and — if
// the last assembled ToolUse names a registered tool — dispatches it
// and its siblings as one batch and appends the ToolResult Msg(s). It
// reports whether the loop should terminate after this cycle.
func (e *Executor) reasonAndAct(ctx context.Context, yield func(msg.Msg, error) bool) (msg.Msg, bool, error) {
	wire := e.Formatter.Format(e.Memory.Snapshot(), e.SystemPrompt)
	schemas := e.Tools.Schemas()

	var toolUses []msg.ToolUse
	var cur *toolcall.Accumulator
	var text string

	closeCurrent := func() {
		if cur == nil {
			return
		}
		if tu, ok := cur.Finalize(); ok {
			toolUses = append(toolUses, tu)
		}
		cur = nil
	}

	for chunk, err := range e.Adapter.Stream(ctx, wire, schemas, e.Options) {
		if err != nil {
			return msg.Msg{}, false, fmt.Errorf("react: model stream: %w", err)
		}
		for _, block := range chunk.Content {
			switch b := block.(type) {
			case msg.ToolUse:
				// A non-empty ID marks the first fragment of a new tool
				// call: close out whichever call is currently open
				// before starting the next one, so that a model turn
				// emitting several ToolUses in sequence reassembles
				// each one independently rather than merging them
				// together.
				if b.ID != "" {
					closeCurrent()
					cur = toolcall.New()
				}
				if cur == nil {
					cur = toolcall.New()
				}
				cur.Feed(toolcall.Fragment{ID: b.ID, Name: b.Name, Input: b.Input, Raw: b.Raw})
			case msg.Text:
				text += b.Text
				if !yield(msg.New(msg.RoleAssistant, "assistant", b), nil) {
					return msg.Msg{}, true, nil
				}
			case msg.Thinking:
				if !yield(msg.New(msg.RoleAssistant, "assistant", b), nil) {
					return msg.Msg{}, true, nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return msg.Msg{}, false, ctx.Err()
		default:
		}
	}
	closeCurrent()

	if len(toolUses) == 0 {
		// No tool call assembled: aggregate this stream's text into one
		// assistant Msg and append it. Its content was already emitted
		// piecewise above; this is memory bookkeeping, not a re-stream.
		textMsg := msg.NewText(msg.RoleAssistant, "assistant", text)
		e.Memory.Append(textMsg)
		return textMsg, true, nil
	}

	toolMsgs := make([]msg.Msg, len(toolUses))
	for i, tu := range toolUses {
		toolMsg := msg.NewWithID(tu.ID, msg.RoleAssistant, "assistant", tu)
		e.Memory.Append(toolMsg)
		toolMsgs[i] = toolMsg
		if !yield(toolMsg, nil) {
			return toolMsg, true, nil
		}
	}
	last := toolUses[len(toolUses)-1]
	lastMsg := toolMsgs[len(toolMsgs)-1]

	if !e.Tools.Has(last.Name) {
		// Unregistered name on the last emitted call: the model is
		// "finishing by calling a finish-function" that isn't real.
		// Earlier siblings, if any, are left undispatched.
		return lastMsg, true, nil
	}

	calls := make([]tool.Call, len(toolUses))
	for i, tu := range toolUses {
		calls[i] = tool.Call{ID: tu.ID, Name: tu.Name, Input: tu.Input}
	}
	responses := e.Dispatcher.Dispatch(ctx, calls, e.Parallel)
	for i, resp := range responses {
		output := resultOutput(resp)
		resultMsg := msg.New(msg.RoleTool, toolUses[i].Name, msg.ToolResult{ID: resp.ID, Name: toolUses[i].Name, Output: output})
		e.Memory.Append(resultMsg)
		if !yield(resultMsg, nil) {
			return resultMsg, true, nil
		}
	}

	return lastMsg, false, nil
}

// resultOutput renders a tool Response as the single ContentBlock a
// ToolResult carries, concatenating every text-bearing block the
// response produced.
func resultOutput(resp tool.Response) msg.ContentBlock {
	return msg.Text{Text: resp.TextContent()}
}
