package core

import "context"

// BaseNode defines the core interface for all nodes in the workflow
// This follows the three-phase execution model: Prep -> Exec -> Post
type BaseNode[PrepResult any, ExecResult any] interface {
	// Prep reads shared state and produces the input of Exec. Errors are not retried.
	Prep(ctx context.Context, shared Shared) (PrepResult, error)

	// Exec performs the core logic. Errors are retried according to the node's policy.
	Exec(ctx context.Context, prepResult PrepResult) (ExecResult, error)

	// Post writes results back to shared state and picks the outgoing edge.
	// An empty action selects the "default" edge.
	Post(ctx context.Context, shared Shared, prepResult PrepResult, execResult ExecResult) (Action, error)
}

// Fallback is implemented by nodes that can substitute a result once every Exec
// attempt has failed. Nodes without it propagate the last Exec error.
type Fallback[PrepResult any, ExecResult any] interface {
	ExecFallback(ctx context.Context, prepResult PrepResult, err error) (ExecResult, error)
}

// Workflow represents a unit of execution that can be connected to other workflows
// This interface is implemented by Node, BatchNode and Flow so they can share one graph
type Workflow interface {
	// Run executes the workflow logic and returns an action for routing
	Run(ctx context.Context, shared Shared) (Action, error)

	// GetSuccessor returns the successor workflow for a given action, or nil
	GetSuccessor(action Action) Workflow

	// AddSuccessor connects a successor workflow for a specific action
	// (default when omitted) and returns the successor
	AddSuccessor(successor Workflow, action ...Action) Workflow

	// Successors returns a copy of the edge table
	Successors() map[Action]Workflow

	Params() Params
	SetParams(params Params)
	Name() string
}
