package core

// vertex carries what every graph member owns: a name, its params and its
// outgoing edges. Node, BatchNode and Flow embed it.
type vertex struct {
	name       string
	params     Params
	successors map[Action]Workflow
}

func newVertex(name string, params Params) vertex {
	if params == nil {
		params = make(Params)
	}
	return vertex{
		name:       name,
		params:     params,
		successors: make(map[Action]Workflow),
	}
}

// Name returns the display name used in errors and events.
func (v *vertex) Name() string {
	return v.name
}

// Params returns the node parameters.
func (v *vertex) Params() Params {
	return v.params
}

// SetParams replaces the node parameters.
func (v *vertex) SetParams(params Params) {
	v.params = params
}

// AddSuccessor registers successor under action, or under ActionDefault when
// no action is given. An existing edge for the same action is overwritten.
func (v *vertex) AddSuccessor(successor Workflow, action ...Action) Workflow {
	if successor == nil {
		return successor
	}
	if v.successors == nil {
		v.successors = make(map[Action]Workflow)
	}
	key := ActionDefault
	if len(action) > 0 {
		key = action[0].orDefault()
	}
	v.successors[key] = successor
	return successor
}

// GetSuccessor gets the next Workflow as per action.
func (v *vertex) GetSuccessor(action Action) Workflow {
	return v.successors[action.orDefault()]
}

// Successors returns a copy of the edge table.
func (v *vertex) Successors() map[Action]Workflow {
	edges := make(map[Action]Workflow, len(v.successors))
	for action, successor := range v.successors {
		edges[action] = successor
	}
	return edges
}

// Next connects successor on the default edge and returns it for chaining.
func (v *vertex) Next(successor Workflow) Workflow {
	return v.AddSuccessor(successor)
}

// On starts a labeled edge; complete it with Transition.To.
func (v *vertex) On(action Action) Transition {
	return Transition{from: v, action: action}
}
