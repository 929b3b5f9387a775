package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_ReturnsSuccessorForChaining(t *testing.T) {
	a := recordNode("a", "")
	b := recordNode("b", "")
	c := recordNode("c", "")

	got := Connect(Connect(a, b), c)

	assert.Same(t, c, got)
	assert.Same(t, b, a.GetSuccessor(ActionDefault))
	assert.Same(t, c, b.GetSuccessor(ActionDefault))
	assert.Nil(t, c.GetSuccessor(ActionDefault))
}

func TestOn_LabeledEdge(t *testing.T) {
	review := recordNode("review", "")
	publish := recordNode("publish", "")

	got := On(review, "approve").To(publish)

	assert.Same(t, publish, got)
	assert.Same(t, publish, review.GetSuccessor("approve"))
	assert.Nil(t, review.GetSuccessor(ActionDefault))
}

func TestVertex_NextAndOnMethods(t *testing.T) {
	a := recordNode("a", "")
	b := recordNode("b", "")
	c := recordNode("c", "")

	a.Next(b)
	b.On("retry").To(a)
	b.On("").To(c)

	assert.Same(t, b, a.GetSuccessor(""))
	assert.Same(t, a, b.GetSuccessor("retry"))
	assert.Same(t, c, b.GetSuccessor(ActionDefault), "empty label registers the default edge")
}

func TestAddSuccessor_Overwrites(t *testing.T) {
	node := recordNode("node", "")
	first := recordNode("first", "")
	second := recordNode("second", "")

	node.AddSuccessor(first, "go")
	node.AddSuccessor(second, "go")

	assert.Same(t, second, node.GetSuccessor("go"))
	assert.Len(t, node.Successors(), 1)
}

func TestAddSuccessor_Nil(t *testing.T) {
	node := recordNode("node", "")

	assert.Nil(t, node.AddSuccessor(nil, "go"))
	assert.Empty(t, node.Successors())
}

func TestSuccessors_ReturnsCopy(t *testing.T) {
	node := recordNode("node", "")
	next := recordNode("next", "")
	node.AddSuccessor(next, "go")

	edges := node.Successors()
	delete(edges, "go")

	assert.Same(t, next, node.GetSuccessor("go"))
}

func TestSuccessors_SharedSubPath(t *testing.T) {
	left := recordNode("left", "")
	right := recordNode("right", "")
	join := recordNode("join", "")

	Connect(left, join)
	Connect(right, join)

	assert.Same(t, left.GetSuccessor(""), right.GetSuccessor(""))
}

func TestFlow_AsVertex(t *testing.T) {
	flow := NewFlow(recordNode("start", ""), WithParams(Params{"tenant": "acme"}))
	next := recordNode("next", "")

	On(flow, "done").To(next)

	assert.Same(t, next, flow.GetSuccessor("done"))
	assert.Equal(t, "Flow", flow.Name())
	assert.Equal(t, "acme", flow.Params()["tenant"])
}
