package tool

import (
	"context"
	"fmt"

	internalregistry "github.com/flowloop/agentkit/internal/registry"
)

// Func is the tool contract: given already-JSON-decoded input, produce a
// Response. Implementations should treat ctx cancellation as a signal to
// return tool.Interrupted, not to panic or hang.
type Func func(ctx context.Context, input map[string]any) Response

// Entry pairs a callable with the schema the model adapter advertises it
// under.
type Entry struct {
	Schema Schema
	Fn     Func
}

// Registry maps tool names to Entry. Duplicate Register calls overwrite
// silently (last-write-wins) — a deliberate narrowing of tools.Registry's
// original name-clash-is-an-error behavior, since overwriting is treated
// here as a caller programming error to avoid, not a condition the
// registry itself must reject.
type Registry struct {
	base *internalregistry.Registry[Entry]
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{base: internalregistry.New[Entry]()}
}

// Register installs a tool under its schema's name.
func (r *Registry) Register(schema Schema, fn Func) error {
	if schema.Name == "" {
		return fmt.Errorf("tool: schema name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("tool: %q has a nil function", schema.Name)
	}
	return r.base.Register(schema.Name, Entry{Schema: schema, Fn: fn})
}

// Get retrieves a registered tool by name.
func (r *Registry) Get(name string) (Entry, bool) {
	return r.base.Get(name)
}

// Remove unregisters a tool by name.
func (r *Registry) Remove(name string) {
	r.base.Remove(name)
}

// Has reports whether name is registered — this is exactly the check the
// ReAct loop's termination rule uses: an unregistered tool name means the
// model is "finishing by calling a finish-function."
func (r *Registry) Has(name string) bool {
	_, ok := r.base.Get(name)
	return ok
}

// Schemas returns every registered tool's Schema, sorted by name, for the
// model adapter to advertise.
func (r *Registry) Schemas() []Schema {
	entries := r.base.List()
	out := make([]Schema, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Schema)
	}
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return r.base.Count()
}

// FromFunc is the mandatory explicit registration path: name, description,
// schema and callable are all supplied by the caller. Reflection-based
// schema derivation (see Reflect) is sugar layered on top of this, never a
// replacement for it.
func FromFunc(name, description string, parameters map[string]any, fn Func) (Schema, Func) {
	return Schema{Name: name, Description: description, Parameters: parameters}, fn
}
