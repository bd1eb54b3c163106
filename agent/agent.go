// Package agent is the public facade this module exposes: a functional-
// options constructor wiring Memory, a Formatter, a model.Adapter, a tool
// Registry/Dispatcher and a hook Manager into one react.Executor, exposing
// a plain reply/stream/register_tool contract over the whole thing.
package agent

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/hook"
	"github.com/flowloop/agentkit/memory"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/msg"
	"github.com/flowloop/agentkit/react"
	"github.com/flowloop/agentkit/tool"
)

// Agent is one configured ReAct loop: its own Memory, its own hook Manager
// (strictly per-instance, never a shared registry), and the react.Executor
// that drives Reply/Stream.
type Agent struct {
	memory     *memory.Memory
	tools      *tool.Registry
	dispatcher *tool.Dispatcher
	hooks      *hook.Manager
	executor   *react.Executor

	adapter         model.Adapter
	formatter       format.Formatter
	systemPrompt    string
	maxIters        int
	parallel        bool
	genOptions      model.GenerateOptions
	dispatchTimeout time.Duration
	logger          *slog.Logger

	pendingPreHooks  []pendingPreHook
	pendingPostHooks []pendingPostHook
}

type pendingPreHook struct {
	name     string
	priority int
	fn       hook.PreHook
}

type pendingPostHook struct {
	name     string
	priority int
	fn       hook.PostHook
}

// New builds an Agent from a set of Options. WithAdapter is mandatory;
// every other option has a spec-consistent default (SingleChat formatter,
// sequential tool dispatch, react.DefaultMaxIters iterations).
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		memory: memory.New(),
		tools:  tool.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.adapter == nil {
		return nil, fmt.Errorf("agent: WithAdapter is required")
	}
	if a.formatter == nil {
		a.formatter = format.NewSingleChat("")
	}
	a.hooks = hook.NewManager(a.logger)
	for _, h := range a.pendingPreHooks {
		a.hooks.RegisterPre(h.name, h.priority, h.fn)
	}
	for _, h := range a.pendingPostHooks {
		a.hooks.RegisterPost(h.name, h.priority, h.fn)
	}

	a.dispatcher = tool.NewDispatcher(a.tools)
	a.dispatcher.Timeout = a.dispatchTimeout

	a.executor = &react.Executor{
		Memory:       a.memory,
		Formatter:    a.formatter,
		Adapter:      a.adapter,
		Tools:        a.tools,
		Dispatcher:   a.dispatcher,
		SystemPrompt: a.systemPrompt,
		MaxIters:     a.maxIters,
		Parallel:     a.parallel,
		Options:      a.genOptions,
	}
	return a, nil
}

// Memory exposes the agent's conversation log, e.g. for a host that wants
// to snapshot/restore a session around calls to Reply/Stream.
func (a *Agent) Memory() *memory.Memory {
	return a.memory
}

// Tools exposes the agent's tool registry for inspection; mutation during
// a reply is permitted but its effect on that in-flight call is
// unspecified.
func (a *Agent) Tools() *tool.Registry {
	return a.tools
}

// RegisterTool installs a tool into the agent's registry under its
// name+description+callable. tool.Reflect can derive the schema's
// parameters from a struct's field tags.
func (a *Agent) RegisterTool(schema tool.Schema, fn tool.Func) error {
	return a.tools.Register(schema, fn)
}

// RegisterPreHook installs a pre-reply hook after construction, in
// addition to any WithPreHook options passed to New.
func (a *Agent) RegisterPreHook(name string, priority int, fn hook.PreHook) {
	a.hooks.RegisterPre(name, priority, fn)
}

// RegisterPostHook installs a post-reply hook after construction, in
// addition to any WithPostHook options passed to New.
func (a *Agent) RegisterPostHook(name string, priority int, fn hook.PostHook) {
	a.hooks.RegisterPost(name, priority, fn)
}

// Reply runs the full ReAct loop over in (one message, or several) and
// returns the single aggregated assistant Msg. Every message but the
// last is appended to memory directly; the last is handed to the
// executor, which appends it itself as the turn that opens Reasoning(0).
func (a *Agent) Reply(ctx context.Context, in ...msg.Msg) (msg.Msg, error) {
	if len(in) == 0 {
		return msg.Msg{}, fmt.Errorf("agent: Reply requires at least one message")
	}

	args := hook.Args{"input": in}
	args = a.hooks.RunPre(ctx, args)
	in = resolveInput(args, in)

	if len(in) > 1 {
		a.memory.AppendAll(in[:len(in)-1])
	}

	reply, err := a.executor.Reply(ctx, in[len(in)-1])
	if err != nil {
		return msg.Msg{}, err
	}
	return a.hooks.RunPost(ctx, args, reply), nil
}

// Stream runs the full ReAct loop over in and yields every intermediate
// Msg in emission order, completing when the loop terminates. Each
// post-hook runs once per emitted item.
func (a *Agent) Stream(ctx context.Context, in ...msg.Msg) iter.Seq2[msg.Msg, error] {
	return func(yield func(msg.Msg, error) bool) {
		if len(in) == 0 {
			yield(msg.Msg{}, fmt.Errorf("agent: Stream requires at least one message"))
			return
		}

		args := hook.Args{"input": in}
		args = a.hooks.RunPre(ctx, args)
		resolved := resolveInput(args, in)

		if len(resolved) > 1 {
			a.memory.AppendAll(resolved[:len(resolved)-1])
		}

		for m, err := range a.executor.Stream(ctx, resolved[len(resolved)-1]) {
			if err != nil {
				yield(msg.Msg{}, err)
				return
			}
			m = a.hooks.RunPost(ctx, args, m)
			if !yield(m, nil) {
				return
			}
		}
	}
}

// resolveInput lets a pre-hook substitute the message list by setting
// args["input"] to a non-empty []msg.Msg; any other value (including a
// hook that left it untouched, or a failing hook whose return was
// discarded) falls back to the original input.
func resolveInput(args hook.Args, fallback []msg.Msg) []msg.Msg {
	if v, ok := args["input"].([]msg.Msg); ok && len(v) > 0 {
		return v
	}
	return fallback
}
