package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordNode appends its name to shared["trace"] and returns a fixed action.
func recordNode(name string, action Action) *Node[string, string] {
	return NewFunc(FuncNode[string, string]{
		PrepFn: func(ctx context.Context, shared Shared) (string, error) {
			return name + "_prep", nil
		},
		ExecFn: func(ctx context.Context, prep string) (string, error) {
			return name + "_exec", nil
		},
		PostFn: func(ctx context.Context, shared Shared, prep string, exec string) (Action, error) {
			trace, _ := Get[[]string](shared, "trace")
			shared["trace"] = append(trace, name)
			shared[name+"_exec_result"] = exec
			return action, nil
		},
	}, WithName(name))
}

func TestFlow_LinearChain(t *testing.T) {
	a := recordNode("a", ActionDefault)
	b := recordNode("b", "")
	Connect(a, b)

	shared := Shared{}
	action, err := NewFlow(a).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, Action(""), action)
	assert.Equal(t, []string{"a", "b"}, shared["trace"])
	assert.Equal(t, "a_exec", shared["a_exec_result"])
	assert.Equal(t, "b_exec", shared["b_exec_result"])
}

func TestFlow_Branching(t *testing.T) {
	review := recordNode("review", "approve")
	publish := recordNode("publish", "")
	draft := recordNode("draft", "")

	On(review, "approve").To(publish)
	On(review, "revise").To(draft)

	shared := Shared{}
	_, err := NewFlow(review).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, "review_exec", shared["review_exec_result"])
	assert.Equal(t, "publish_exec", shared["publish_exec_result"])
	assert.NotContains(t, shared, "draft_exec_result")
}

func TestFlow_SelfLoop(t *testing.T) {
	runs := 0
	loop := NewFunc(FuncNode[int, int]{
		PrepFn: func(ctx context.Context, shared Shared) (int, error) {
			count, _ := Get[int](shared, "count")
			return count, nil
		},
		ExecFn: func(ctx context.Context, count int) (int, error) {
			runs++
			return count + 1, nil
		},
		PostFn: func(ctx context.Context, shared Shared, _ int, count int) (Action, error) {
			shared["count"] = count
			if count < 3 {
				return "loop", nil
			}
			return "done", nil
		},
	}, WithName("loop"))
	done := recordNode("done", "")

	On(loop, "loop").To(loop)
	On(loop, "done").To(done)

	shared := Shared{"count": 0}
	action, err := NewFlow(loop).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, 3, runs)
	assert.Equal(t, 3, shared["count"])
	assert.Equal(t, "done_exec", shared["done_exec_result"])
	assert.Equal(t, Action(""), action)
}

func TestFlow_TerminatesWithoutMatchingEdge(t *testing.T) {
	start := recordNode("start", "unhandled")
	other := recordNode("other", "")
	On(start, "handled").To(other)

	shared := Shared{}
	action, err := NewFlow(start).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, Action("unhandled"), action)
	assert.Equal(t, []string{"start"}, shared["trace"])
}

func TestFlow_ExactLabelDoesNotFallBackToDefault(t *testing.T) {
	start := recordNode("start", "custom")
	fallback := recordNode("fallback", "")
	Connect(start, fallback)

	shared := Shared{}
	action, err := NewFlow(start).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, Action("custom"), action)
	assert.Equal(t, []string{"start"}, shared["trace"])
}

func TestFlow_EmptyActionUsesDefaultEdge(t *testing.T) {
	start := recordNode("start", "")
	next := recordNode("next", "finished")
	start.AddSuccessor(next, ActionDefault)

	shared := Shared{}
	action, err := NewFlow(start).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, Action("finished"), action)
	assert.Equal(t, []string{"start", "next"}, shared["trace"])
}

func TestFlow_NilStart(t *testing.T) {
	action, err := NewFlow(nil).Run(context.Background(), Shared{})
	require.NoError(t, err)
	assert.Equal(t, Action(""), action)
}

func TestFlow_ErrorStopsTraversal(t *testing.T) {
	boom := errors.New("boom")
	first := recordNode("first", "")
	failing := NewFunc(FuncNode[string, string]{
		PrepFn: func(ctx context.Context, shared Shared) (string, error) {
			shared["failing_prepped"] = true
			return "", nil
		},
		ExecFn: func(ctx context.Context, _ string) (string, error) {
			return "", boom
		},
	}, WithName("failing"))
	last := recordNode("last", "")
	Connect(Connect(first, failing), last)

	shared := Shared{}
	action, err := NewFlow(first).Run(context.Background(), shared)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Action(""), action)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "failing", nodeErr.Node)

	assert.Equal(t, []string{"first"}, shared["trace"])
	assert.Equal(t, true, shared["failing_prepped"])
	assert.NotContains(t, shared, "last_exec_result")
}

func TestFlow_NestedFlow(t *testing.T) {
	innerA := recordNode("inner_a", "")
	innerB := recordNode("inner_b", "inner_done")
	Connect(innerA, innerB)
	inner := NewFlow(innerA, WithName("inner"))

	before := recordNode("before", "")
	after := recordNode("after", "")
	Connect(before, inner)
	On(inner, "inner_done").To(after)

	shared := Shared{}
	action, err := NewFlow(before).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, Action(""), action)
	assert.Equal(t, []string{"before", "inner_a", "inner_b", "after"}, shared["trace"])
	assert.Equal(t, "inner", inner.Name())
	assert.Same(t, innerA, inner.Start())
}

func TestFlow_NestedErrorIsNotRewrapped(t *testing.T) {
	boom := errors.New("boom")
	failing := NewFunc(FuncNode[string, string]{
		PostFn: func(ctx context.Context, shared Shared, _ string, _ string) (Action, error) {
			return "", boom
		},
	}, WithName("deep"))
	outer := NewFlow(NewFlow(failing, WithName("inner")))

	_, err := outer.Run(context.Background(), Shared{})
	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "deep", nodeErr.Node)
	assert.Equal(t, PhasePost, nodeErr.Phase)
	assert.Same(t, boom, nodeErr.Err)
}

func TestFlow_Observer(t *testing.T) {
	attempts := 0
	flaky := NewFunc(FuncNode[string, string]{
		ExecFn: func(ctx context.Context, _ string) (string, error) {
			attempts++
			if attempts == 1 {
				return "", errors.New("first try fails")
			}
			return "ok", nil
		},
		PostFn: func(ctx context.Context, shared Shared, _ string, _ string) (Action, error) {
			return "next", nil
		},
	}, WithName("flaky"), WithMaxRetries(2))
	final := recordNode("final", "")
	On(flaky, "next").To(final)

	var mu sync.Mutex
	var events []EventType
	var nodes []string
	ctx := WithObserver(context.Background(), ObserverFunc(func(ctx context.Context, event Event) {
		mu.Lock()
		defer mu.Unlock()
		assert.False(t, event.Timestamp.IsZero())
		events = append(events, event.Type)
		nodes = append(nodes, event.Node)
	}))

	_, err := NewFlow(flaky, WithName("main")).Run(ctx, Shared{})
	require.NoError(t, err)

	assert.Equal(t, []EventType{
		EventFlowStart,
		EventNodeStart,
		EventNodeRetry,
		EventNodeEnd,
		EventNodeStart,
		EventNodeEnd,
		EventFlowEnd,
	}, events)
	assert.Equal(t, []string{"main", "flaky", "flaky", "flaky", "final", "final", "main"}, nodes)
}

func TestWithObserver_Chains(t *testing.T) {
	var first, second int
	ctx := WithObserver(context.Background(), ObserverFunc(func(context.Context, Event) { first++ }))
	ctx = WithObserver(ctx, ObserverFunc(func(context.Context, Event) { second++ }))
	ctx = WithObserver(ctx, nil)

	_, err := recordNode("solo", "").Run(ctx, Shared{})
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestFlow_ObserverSeesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := NewFunc(FuncNode[string, string]{
		PrepFn: func(ctx context.Context, shared Shared) (string, error) {
			return "", boom
		},
	}, WithName("failing"))

	var last Event
	var sawNodeError bool
	ctx := WithObserver(context.Background(), ObserverFunc(func(ctx context.Context, event Event) {
		if event.Type == EventNodeError {
			sawNodeError = true
			assert.ErrorIs(t, event.Err, boom)
		}
		last = event
	}))

	_, err := NewFlow(failing).Run(ctx, Shared{})
	require.Error(t, err)
	assert.True(t, sawNodeError)
	assert.Equal(t, EventFlowEnd, last.Type)
	assert.ErrorIs(t, last.Err, boom)
}

func TestFlow_ErrorIsWrappedNotReplaced(t *testing.T) {
	sentinel := errors.New("sentinel")
	failing := NewFunc(FuncNode[string, string]{
		PostFn: func(context.Context, Shared, string, string) (Action, error) {
			return "", sentinel
		},
	}, WithName("failing"))

	_, err := NewFlow(failing).Run(context.Background(), Shared{})
	require.Error(t, err)
	assert.NotEqual(t, sentinel, err)
	assert.ErrorIs(t, err, sentinel)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "failing", nodeErr.Node)
	assert.Equal(t, PhasePost, nodeErr.Phase)
	assert.Same(t, sentinel, nodeErr.Err)
}
