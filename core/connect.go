package core

// Connect registers to as the default successor of from and returns to, so
// calls chain left to right: Connect(Connect(a, b), c).
func Connect(from, to Workflow) Workflow {
	return from.AddSuccessor(to)
}

type successorAdder interface {
	AddSuccessor(successor Workflow, action ...Action) Workflow
}

// Transition is a pending labeled edge. It only lives until To is called.
type Transition struct {
	from   successorAdder
	action Action
}

// On starts a labeled edge out of from.
func On(from Workflow, action Action) Transition {
	return Transition{from: from, action: action}
}

// To registers to as the successor for the pending action and returns to.
func (t Transition) To(to Workflow) Workflow {
	return t.from.AddSuccessor(to, t.action)
}
