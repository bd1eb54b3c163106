package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Reflect derives a tool's JSON-Schema parameters object from a Go struct
// using field tags, for callers who would rather describe a tool's
// arguments as a typed struct than hand-build a map. This is sugar only:
// the dispatcher and registry never reflect themselves, they only ever see
// the map[string]any a Schema already carries.
//
// Example:
//
//	type getTimeArgs struct {
//	    Zone string `json:"zone" jsonschema:"required,description=IANA zone name"`
//	}
//	params, err := tool.Reflect(getTimeArgs{})
func Reflect(v any) (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("tool: marshal reflected schema: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("tool: unmarshal reflected schema: %w", err)
	}
	// Drop the top-level $schema key; it's meaningless to a chat-completions
	// tool-parameters object.
	delete(out, "$schema")
	if out["type"] == nil {
		out["type"] = "object"
	}
	return out, nil
}
