// Package tool defines the tool contract, the registry callables are
// installed into, and the batch dispatcher that executes tool calls the
// ReAct loop has assembled.
package tool

// Schema describes a tool to the model: a name, a free-form description,
// and a JSON-Schema object whose top level is {type:"object", properties,
// required?}. The JSON types recognized in Parameters' "type" fields are
// string, integer, number, boolean, array, object.
type Schema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ObjectSchema is a small builder for the common {type:object, properties,
// required} shape, so callers registering tools explicitly don't have to
// hand-build nested maps for the common case.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
