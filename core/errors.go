package core

import (
	"errors"
	"fmt"
)

// Phase names the lifecycle step that failed.
type Phase string

const (
	PhasePrep Phase = "prep"
	PhaseExec Phase = "exec"
	PhasePost Phase = "post"
)

// NodeError identifies the node and phase a run failed in. Unwrap returns
// the original error untouched.
type NodeError struct {
	Node     string
	Phase    Phase
	Attempts int // Exec attempts made, only set for PhaseExec
	Err      error
}

func (e *NodeError) Error() string {
	if e.Phase == PhaseExec && e.Attempts > 0 {
		return fmt.Sprintf("node %q: %s failed after %d attempt(s): %v", e.Node, e.Phase, e.Attempts, e.Err)
	}
	return fmt.Sprintf("node %q: %s failed: %v", e.Node, e.Phase, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// wrapPhase tags err with node and phase unless an inner node (a nested
// flow, say) already did.
func wrapPhase(node string, phase Phase, attempts int, err error) error {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return err
	}
	return &NodeError{Node: node, Phase: phase, Attempts: attempts, Err: err}
}
