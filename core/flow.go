package core

import (
	"context"
	"time"
)

// Flow walks a graph of workflows from its start node, following the edge
// labeled by each returned action until none matches. Flow implements
// Workflow itself, so flows nest.
//
// There is no step limit: a self-loop without an escaping action runs until
// a node fails or ctx is cancelled inside a node.
type Flow struct {
	vertex
	startNode Workflow
}

// NewFlow creates a new flow starting at startNode.
func NewFlow(startNode Workflow, opts ...NodeOption) *Flow {
	cfg := buildConfig("Flow", opts)
	return &Flow{
		vertex:    newVertex(cfg.name, cfg.params),
		startNode: startNode,
	}
}

// Start returns the start node.
func (f *Flow) Start() Workflow {
	return f.startNode
}

// Run implements the Workflow interface. It returns the action of the last
// node executed, or the first error raised by any node. Shared keeps every
// mutation made before a failure.
//
// A node's error comes back wrapped in a *NodeError naming the node and
// phase, so err == sentinel is false; match with errors.Is or errors.As,
// which see the node's error unchanged through Unwrap.
func (f *Flow) Run(ctx context.Context, shared Shared) (Action, error) {
	started := time.Now()
	notify(ctx, Event{Type: EventFlowStart, Node: f.name})

	action, err := f.orchestrate(ctx, shared)
	notify(ctx, Event{
		Type:     EventFlowEnd,
		Node:     f.name,
		Action:   action,
		Duration: time.Since(started),
		Err:      err,
	})
	return action, err
}

func (f *Flow) orchestrate(ctx context.Context, shared Shared) (Action, error) {
	var lastAction Action
	current := f.startNode

	for current != nil {
		action, err := current.Run(ctx, shared)
		if err != nil {
			return "", err
		}
		lastAction = action
		current = current.GetSuccessor(lastAction.orDefault())
	}
	return lastAction, nil
}
