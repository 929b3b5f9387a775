// Package core implements the graph engine: nodes with a prep/exec/post lifecycle,
// action-labeled edges between them, and the Flow that walks the resulting graph.
package core

// Action represents the result of a node execution that determines flow control
type Action string

// Common actions
const (
	ActionDefault  Action = "default"
	ActionContinue Action = "continue"
	ActionSuccess  Action = "success"
	ActionFailure  Action = "failure"
	ActionRetry    Action = "retry"
)

// orDefault maps the empty action ("no value produced") to ActionDefault.
func (a Action) orDefault() Action {
	if a == "" {
		return ActionDefault
	}
	return a
}

// Shared is the mutable key-value state threaded through a whole flow run.
// The engine reserves no keys; every key belongs to the nodes.
type Shared map[string]any

// Params holds node-specific parameters. They are set from outside the run
// and never mutated by the engine.
type Params map[string]any

// Get returns shared[key] as T. The second result is false when the key is
// missing or holds a value of another type.
func Get[T any](shared Shared, key string) (T, bool) {
	var zero T
	raw, ok := shared[key]
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}
