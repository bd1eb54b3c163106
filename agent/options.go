package agent

import (
	"log/slog"
	"time"

	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/hook"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/tool"
)

// Option configures an Agent under construction. An Option that can fail
// (WithTool, registering a tool with an empty name or a nil function)
// returns the error from New rather than panicking.
type Option func(*Agent) error

// WithAdapter sets the model.Adapter the agent streams reasoning from.
// Mandatory: New returns an error if no adapter was supplied.
func WithAdapter(a model.Adapter) Option {
	return func(ag *Agent) error {
		ag.adapter = a
		return nil
	}
}

// WithFormatter overrides the default SingleChat formatter, e.g. with
// format.NewMultiAgent for a sub-agent host.
func WithFormatter(f format.Formatter) Option {
	return func(ag *Agent) error {
		ag.formatter = f
		return nil
	}
}

// WithSystemPrompt sets the leading system message the formatter prepends
// to every reasoning step.
func WithSystemPrompt(prompt string) Option {
	return func(ag *Agent) error {
		ag.systemPrompt = prompt
		return nil
	}
}

// WithTool registers one tool at construction time, equivalent to calling
// Agent.RegisterTool after New returns.
func WithTool(schema tool.Schema, fn tool.Func) Option {
	return func(ag *Agent) error {
		return ag.tools.Register(schema, fn)
	}
}

// WithMaxIters overrides react.DefaultMaxIters.
func WithMaxIters(n int) Option {
	return func(ag *Agent) error {
		ag.maxIters = n
		return nil
	}
}

// WithParallelTools enables concurrent dispatch for tool batches with more
// than one call; sequential dispatch is the default.
func WithParallelTools(parallel bool) Option {
	return func(ag *Agent) error {
		ag.parallel = parallel
		return nil
	}
}

// WithGenerateOptions sets the sampling knobs threaded through every
// Adapter.Stream call.
func WithGenerateOptions(o model.GenerateOptions) Option {
	return func(ag *Agent) error {
		ag.genOptions = o
		return nil
	}
}

// WithDispatchTimeout bounds a whole Acting(k) batch; zero (the default)
// means no timeout.
func WithDispatchTimeout(d time.Duration) Option {
	return func(ag *Agent) error {
		ag.dispatchTimeout = d
		return nil
	}
}

// WithLogger sets the *slog.Logger the agent's hook Manager logs isolated
// hook failures to. A nil logger (the default) falls back to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ag *Agent) error {
		ag.logger = l
		return nil
	}
}

// WithPreHook registers a pre-reply hook at construction time, run in
// ascending priority order before every Reply/Stream call.
func WithPreHook(name string, priority int, fn hook.PreHook) Option {
	return func(ag *Agent) error {
		ag.pendingPreHooks = append(ag.pendingPreHooks, pendingPreHook{name: name, priority: priority, fn: fn})
		return nil
	}
}

// WithPostHook registers a post-reply hook at construction time, run once
// per emitted item in ascending priority order.
func WithPostHook(name string, priority int, fn hook.PostHook) Option {
	return func(ag *Agent) error {
		ag.pendingPostHooks = append(ag.pendingPostHooks, pendingPostHook{name: name, priority: priority, fn: fn})
		return nil
	}
}
