package core

import (
	"context"
	"time"
)

// Node represents a single node in the workflow graph and implements Workflow.
// It runs its BaseNode through Prep, a retrying Exec and Post.
type Node[PrepResult any, ExecResult any] struct {
	vertex
	node     BaseNode[PrepResult, ExecResult]
	policy   retryPolicy
	fallback fallbackFunc[PrepResult, ExecResult]
}

// NewNode wraps basenode as a graph vertex. Without options the node makes a
// single Exec attempt and is named after the BaseNode's type.
func NewNode[PrepResult any, ExecResult any](basenode BaseNode[PrepResult, ExecResult], opts ...NodeOption) *Node[PrepResult, ExecResult] {
	cfg := buildConfig(typeName(basenode), opts)
	return &Node[PrepResult, ExecResult]{
		vertex:   newVertex(cfg.name, cfg.params),
		node:     basenode,
		policy:   cfg.policy(),
		fallback: fallbackFor[PrepResult, ExecResult](basenode),
	}
}

// Run implements the Workflow interface and executes the three-phase execution model
func (n *Node[PrepResult, ExecResult]) Run(ctx context.Context, shared Shared) (Action, error) {
	started := time.Now()
	notify(ctx, Event{Type: EventNodeStart, Node: n.name})

	action, err := n.run(ctx, shared)
	notifyDone(ctx, n.name, started, action, err)
	return action, err
}

func (n *Node[PrepResult, ExecResult]) run(ctx context.Context, shared Shared) (Action, error) {
	prepResult, err := n.node.Prep(ctx, shared)
	if err != nil {
		return "", wrapPhase(n.name, PhasePrep, 0, err)
	}

	execResult, err := executeWithRetry[PrepResult, ExecResult](ctx, n.name, n.policy, prepResult, n.node.Exec, n.fallback)
	if err != nil {
		return "", err
	}

	action, err := n.node.Post(ctx, shared, prepResult, execResult)
	if err != nil {
		return "", wrapPhase(n.name, PhasePost, 0, err)
	}
	return action, nil
}

// MaxRetries returns the total number of Exec attempts.
func (n *Node[PrepResult, ExecResult]) MaxRetries() int {
	return n.policy.attempts()
}

// Wait returns the delay between Exec attempts.
func (n *Node[PrepResult, ExecResult]) Wait() time.Duration {
	return n.policy.wait
}

// SetMaxRetries updates the maximum attempt count
func (n *Node[PrepResult, ExecResult]) SetMaxRetries(retries int) {
	if retries < 1 {
		retries = 1
	}
	n.policy.maxRetries = retries
}

// SetWait updates the delay between attempts
func (n *Node[PrepResult, ExecResult]) SetWait(wait time.Duration) {
	if wait < 0 {
		wait = 0
	}
	n.policy.wait = wait
}
