package tool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowloop/agentkit/tool"
)

func echoRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	schema, fn := tool.FromFunc("echo", "echoes its input", tool.ObjectSchema(map[string]any{
		"value": map[string]any{"type": "string"},
	}), func(ctx context.Context, input map[string]any) tool.Response {
		v, _ := input["value"].(string)
		return tool.Text("", v)
	})
	require.NoError(t, r.Register(schema, fn))
	return r
}

func TestDispatchSequentialPreservesOrder(t *testing.T) {
	r := echoRegistry(t)
	d := tool.NewDispatcher(r)

	calls := []tool.Call{
		{ID: "a", Name: "echo", Input: map[string]any{"value": "first"}},
		{ID: "b", Name: "echo", Input: map[string]any{"value": "second"}},
		{ID: "c", Name: "echo", Input: map[string]any{"value": "third"}},
	}
	resp := d.Dispatch(context.Background(), calls, false)

	require.Len(t, resp, 3)
	assert.Equal(t, "a", resp[0].ID)
	assert.Equal(t, "first", resp[0].TextContent())
	assert.Equal(t, "b", resp[1].ID)
	assert.Equal(t, "second", resp[1].TextContent())
	assert.Equal(t, "c", resp[2].ID)
	assert.Equal(t, "third", resp[2].TextContent())
}

func TestDispatchParallelPreservesOrder(t *testing.T) {
	r := tool.NewRegistry()
	// Tool b finishes before tool a to exercise out-of-order completion.
	schema, fn := tool.FromFunc("slow", "sleeps then echoes", tool.ObjectSchema(map[string]any{
		"value":   map[string]any{"type": "string"},
		"sleepMs": map[string]any{"type": "integer"},
	}), func(ctx context.Context, input map[string]any) tool.Response {
		ms, _ := input["sleepMs"].(int)
		time.Sleep(time.Duration(ms) * time.Millisecond)
		v, _ := input["value"].(string)
		return tool.Text("", v)
	})
	require.NoError(t, r.Register(schema, fn))
	d := tool.NewDispatcher(r)

	calls := []tool.Call{
		{ID: "a", Name: "slow", Input: map[string]any{"value": "slow-one", "sleepMs": 30}},
		{ID: "b", Name: "slow", Input: map[string]any{"value": "fast-one", "sleepMs": 0}},
	}
	resp := d.Dispatch(context.Background(), calls, true)

	require.Len(t, resp, 2)
	assert.Equal(t, "a", resp[0].ID)
	assert.Equal(t, "slow-one", resp[0].TextContent())
	assert.Equal(t, "b", resp[1].ID)
	assert.Equal(t, "fast-one", resp[1].TextContent())
}

func TestDispatchUnregisteredToolYieldsErrorResponse(t *testing.T) {
	r := tool.NewRegistry()
	d := tool.NewDispatcher(r)

	resp := d.Dispatch(context.Background(), []tool.Call{{ID: "x", Name: "missing"}}, false)
	require.Len(t, resp, 1)
	assert.Contains(t, resp[0].TextContent(), "Tool not found: missing")
}

func TestDispatchCancelledContextInterruptsPendingCalls(t *testing.T) {
	r := tool.NewRegistry()
	var started int32
	schema, fn := tool.FromFunc("block", "blocks until ctx is done", nil,
		func(ctx context.Context, input map[string]any) tool.Response {
			atomic.AddInt32(&started, 1)
			<-ctx.Done()
			return tool.Interrupted("")
		})
	require.NoError(t, r.Register(schema, fn))
	d := tool.NewDispatcher(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := d.Dispatch(ctx, []tool.Call{{ID: "a", Name: "block"}}, false)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].IsInterrupted)
	assert.Equal(t, "a", resp[0].ID)
}

func TestDispatchTimeoutYieldsTimeoutError(t *testing.T) {
	r := tool.NewRegistry()
	schema, fn := tool.FromFunc("slow", "sleeps past the batch timeout", nil,
		func(ctx context.Context, input map[string]any) tool.Response {
			select {
			case <-time.After(50 * time.Millisecond):
				return tool.Text("", "too-late")
			case <-ctx.Done():
				return tool.Interrupted("")
			}
		})
	require.NoError(t, r.Register(schema, fn))
	d := tool.NewDispatcher(r)
	d.Timeout = 5 * time.Millisecond

	resp := d.Dispatch(context.Background(), []tool.Call{{ID: "a", Name: "slow"}}, false)
	require.Len(t, resp, 1)
	assert.False(t, resp[0].IsInterrupted, "a deadline timeout is a distinct error, not an interruption")
	assert.Contains(t, resp[0].TextContent(), "Tool execution timed out")
	assert.Equal(t, "a", resp[0].ID)
}

func TestDispatchCancelledContextStillYieldsInterrupted(t *testing.T) {
	r := tool.NewRegistry()
	schema, fn := tool.FromFunc("slow", "blocks until ctx is done", nil,
		func(ctx context.Context, input map[string]any) tool.Response {
			<-ctx.Done()
			return tool.Interrupted("")
		})
	require.NoError(t, r.Register(schema, fn))
	d := tool.NewDispatcher(r)
	d.Timeout = 50 * time.Millisecond // long enough that cancellation, not the timeout, fires first

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	resp := d.Dispatch(ctx, []tool.Call{{ID: "a", Name: "slow"}}, false)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].IsInterrupted, "caller cancellation (not a deadline) stays Interrupted")
}

func TestDispatchEmptyBatch(t *testing.T) {
	d := tool.NewDispatcher(tool.NewRegistry())
	resp := d.Dispatch(context.Background(), nil, true)
	assert.Empty(t, resp)
}
