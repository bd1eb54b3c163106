// Package hook provides the per-Agent-instance reply-boundary hook
// manager: an ordered list of pre-reply and post-reply handlers with
// failure isolation, grounded on internal/hooks/registry.go's
// priority-sorted Trigger and internal/hooks/tool_hooks.go's pre/post
// handler-pair shape, generalized from tool-execution-specific events to
// the generic reply-boundary pair the agent facade needs.
package hook

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/flowloop/agentkit/msg"
)

// Args carries whatever a hook wants to inspect or mutate about the
// call it wraps. It is deliberately untyped (map[string]any) since the
// set of useful keys (user message, system prompt, session id, ...) is a
// host concern, not the manager's.
type Args map[string]any

// PreHook runs before an Agent's Reply/Stream call. It may return a
// modified Args to thread changes to later hooks and to the call
// itself; an error is isolated (logged, not propagated) so one
// misbehaving hook cannot block the reply.
type PreHook func(ctx context.Context, args Args) (Args, error)

// PostHook runs on each Msg the call emits: once on Reply's final Msg,
// once per item on Stream. It may return a modified Msg (e.g. to redact
// or annotate it); an error is isolated the same way PreHook's is.
type PostHook func(ctx context.Context, args Args, output msg.Msg) (msg.Msg, error)

type preEntry struct {
	name     string
	priority int
	fn       PreHook
}

type postEntry struct {
	name     string
	priority int
	fn       PostHook
}

// Manager owns one Agent's pre/post hook lists. It is never a package
// level registry: each Agent builds its own Manager.
type Manager struct {
	logger *slog.Logger

	mu   sync.RWMutex
	pre  []preEntry
	post []postEntry
}

// NewManager builds an empty Manager. A nil logger defaults to
// slog.Default().
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger.With("component", "hook")}
}

// RegisterPre installs a pre-reply hook. Hooks run in ascending
// priority order (lower runs first).
func (m *Manager) RegisterPre(name string, priority int, fn PreHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pre = append(m.pre, preEntry{name: name, priority: priority, fn: fn})
	sort.SliceStable(m.pre, func(i, j int) bool { return m.pre[i].priority < m.pre[j].priority })
}

// RegisterPost installs a post-reply hook, in the same priority order
// as RegisterPre.
func (m *Manager) RegisterPost(name string, priority int, fn PostHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.post = append(m.post, postEntry{name: name, priority: priority, fn: fn})
	sort.SliceStable(m.post, func(i, j int) bool { return m.post[i].priority < m.post[j].priority })
}

// RunPre runs every registered pre-hook in order, threading args from
// one hook to the next. A hook that panics or returns an error is
// logged and skipped — its would-be output is discarded and the args
// from before it are handed to the next hook unchanged, so one bad
// hook can never poison or block the rest of the chain.
func (m *Manager) RunPre(ctx context.Context, args Args) Args {
	m.mu.RLock()
	hooks := make([]preEntry, len(m.pre))
	copy(hooks, m.pre)
	m.mu.RUnlock()

	for _, h := range hooks {
		in := make(Args, len(args))
		for k, v := range args {
			in[k] = v
		}
		next, err := m.callPre(ctx, h, in)
		if err != nil {
			m.logger.Warn("pre-hook failed", "name", h.name, "error", err)
			continue
		}
		args = next
	}
	return args
}

// RunPost runs every registered post-hook in order, threading output
// from one hook to the next under the same isolation rule RunPre uses.
func (m *Manager) RunPost(ctx context.Context, args Args, output msg.Msg) msg.Msg {
	m.mu.RLock()
	hooks := make([]postEntry, len(m.post))
	copy(hooks, m.post)
	m.mu.RUnlock()

	for _, h := range hooks {
		next, err := m.callPost(ctx, h, args, output)
		if err != nil {
			m.logger.Warn("post-hook failed", "name", h.name, "error", err)
			continue
		}
		output = next
	}
	return output
}

func (m *Manager) callPre(ctx context.Context, h preEntry, args Args) (out Args, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook panic: %v", p)
		}
	}()
	return h.fn(ctx, args)
}

func (m *Manager) callPost(ctx context.Context, h postEntry, args Args, output msg.Msg) (out msg.Msg, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook panic: %v", p)
		}
	}()
	return h.fn(ctx, args, output)
}
