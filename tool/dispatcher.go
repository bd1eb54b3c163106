package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowloop/agentkit/msg"
)

// Call is a single tool invocation request, as produced by the tool-call
// accumulator once a model's tool_use/tool_calls fragments are complete.
type Call struct {
	ID    string
	Name  string
	Input map[string]any
}

// Dispatcher executes a batch of Calls against a Registry, either
// concurrently or one at a time, via an explicit per-call flag rather
// than a global setting.
type Dispatcher struct {
	registry *Registry
	// Timeout bounds a single Dispatch call as a whole; zero means no
	// timeout.
	Timeout time.Duration
}

// NewDispatcher builds a Dispatcher over registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs calls and returns one Response per call, in the same order
// as calls regardless of completion order or execution mode. A call naming
// an unregistered tool yields Error("Tool not found: <name>") rather than
// failing the batch: dispatch failures are data, not exceptions.
//
// If ctx is cancelled before a call starts or completes, that call's slot
// becomes Interrupted instead of whatever it would otherwise have
// produced.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []Call, parallel bool) []Response {
	out := make([]Response, len(calls))
	if len(calls) == 0 {
		return out
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	if !parallel {
		for i, c := range calls {
			out[i] = d.dispatchOne(ctx, c)
		}
		return out
	}

	var wg sync.WaitGroup
	wg.Add(len(calls))
	for i, c := range calls {
		i, c := i, c
		go func() {
			defer wg.Done()
			out[i] = d.dispatchOne(ctx, c)
		}()
	}
	wg.Wait()
	return out
}

// dispatchOne executes a single call, honoring ctx cancellation both
// before dispatch (the call never starts) and via the tool's own
// ctx-awareness during execution.
func (d *Dispatcher) dispatchOne(ctx context.Context, c Call) Response {
	select {
	case <-ctx.Done():
		return onCtxDone(ctx, c.ID)
	default:
	}

	entry, ok := d.registry.Get(c.Name)
	if !ok {
		return Error(c.ID, fmt.Sprintf("Tool not found: %s", c.Name))
	}

	resp := entry.Fn(ctx, c.Input)
	if resp.ID == "" {
		resp.ID = c.ID
	}
	if ctx.Err() != nil {
		return onCtxDone(ctx, c.ID)
	}
	return resp
}

// onCtxDone classifies why ctx ended. A deadline expiring (the per-batch
// Timeout, or one the caller set) yields the distinct timeout error;
// anything else — the caller cancelling ctx directly — yields Interrupted.
func onCtxDone(ctx context.Context, id string) Response {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Error(id, "Tool execution timed out")
	}
	return Interrupted(id)
}

// DispatchGroup runs every call concurrently under an errgroup-derived
// context and returns the responses in call order — grounded on the
// pack's errgroup-based parallel tool execution pattern (other_examples'
// Anthropic tool loop). A Func returns only a Response, never a Go
// error, so no call fails the batch early and the returned error is
// always nil; failures arrive as Error/Interrupted Responses exactly as
// with Dispatch.
func (d *Dispatcher) DispatchGroup(ctx context.Context, calls []Call) ([]Response, error) {
	out := make([]Response, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			out[i] = d.dispatchOne(gctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// ToolUseCalls extracts Call values from a slice of ToolUse content
// blocks, the shape the ReAct loop hands the dispatcher each Acting step.
func ToolUseCalls(blocks []msg.ToolUse) []Call {
	out := make([]Call, len(blocks))
	for i, b := range blocks {
		out[i] = Call{ID: b.ID, Name: b.Name, Input: b.Input}
	}
	return out
}
