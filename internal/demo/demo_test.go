package demo

import (
	"context"
	"testing"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, name string, params core.Params) (core.Action, core.Shared) {
	t.Helper()
	flow, err := Build(name, params)
	require.NoError(t, err)

	shared := core.Shared{}
	action, err := flow.Run(context.Background(), shared)
	require.NoError(t, err)
	return action, shared
}

func TestLoop(t *testing.T) {
	action, shared := run(t, "loop", nil)
	assert.Equal(t, core.ActionSuccess, action)
	assert.Equal(t, 3, shared["count"])
	assert.Equal(t, true, shared["finished"])
}

func TestLoop_Limit(t *testing.T) {
	_, shared := run(t, "loop", core.Params{"limit": "1"})
	assert.Equal(t, 1, shared["count"])
}

func TestBranch(t *testing.T) {
	_, shared := run(t, "branch", nil)
	assert.Equal(t, true, shared["published"])
	assert.NotContains(t, shared, "draft")

	_, shared = run(t, "branch", core.Params{"approve": "false"})
	assert.Equal(t, true, shared["draft"])
	assert.NotContains(t, shared, "published")
}

func TestBatch(t *testing.T) {
	action, shared := run(t, "batch", core.Params{"items": "2,3,4", "parallelism": 3})
	assert.Equal(t, core.ActionSuccess, action)
	assert.Equal(t, []int{4, 9, 16}, shared["squares"])
	assert.Equal(t, 29, shared["sum"])
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build("nope", nil)
	assert.ErrorContains(t, err, "unknown demo")

	_, err = Build("loop", core.Params{"limit": 0})
	assert.ErrorContains(t, err, "limit")

	_, err = Build("loop", core.Params{"limit": "lots"})
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"batch", "branch", "loop"}, Names())
}
