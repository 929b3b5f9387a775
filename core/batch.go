package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchBaseNode is the lifecycle of a node whose Exec runs once per item
// produced by Prep.
type BatchBaseNode[PrepResult any, ExecResult any] interface {
	Prep(ctx context.Context, shared Shared) ([]PrepResult, error)
	Exec(ctx context.Context, item PrepResult) (ExecResult, error)
	Post(ctx context.Context, shared Shared, items []PrepResult, execResults []ExecResult) (Action, error)
}

// BatchNode maps Exec over the items of Prep. Every item gets its own retry
// budget and fallback. Results keep item order. With WithParallelism(n > 1)
// up to n items run concurrently and the first failure cancels the rest.
type BatchNode[PrepResult any, ExecResult any] struct {
	vertex
	node        BatchBaseNode[PrepResult, ExecResult]
	policy      retryPolicy
	parallelism int
	fallback    fallbackFunc[PrepResult, ExecResult]
}

// NewBatchNode wraps basenode as a graph vertex.
func NewBatchNode[PrepResult any, ExecResult any](basenode BatchBaseNode[PrepResult, ExecResult], opts ...NodeOption) *BatchNode[PrepResult, ExecResult] {
	cfg := buildConfig(typeName(basenode), opts)
	return &BatchNode[PrepResult, ExecResult]{
		vertex:      newVertex(cfg.name, cfg.params),
		node:        basenode,
		policy:      cfg.policy(),
		parallelism: cfg.parallelism,
		fallback:    fallbackFor[PrepResult, ExecResult](basenode),
	}
}

// Run implements the Workflow interface.
func (b *BatchNode[PrepResult, ExecResult]) Run(ctx context.Context, shared Shared) (Action, error) {
	started := time.Now()
	notify(ctx, Event{Type: EventNodeStart, Node: b.name})

	action, err := b.run(ctx, shared)
	notifyDone(ctx, b.name, started, action, err)
	return action, err
}

func (b *BatchNode[PrepResult, ExecResult]) run(ctx context.Context, shared Shared) (Action, error) {
	items, err := b.node.Prep(ctx, shared)
	if err != nil {
		return "", wrapPhase(b.name, PhasePrep, 0, err)
	}

	execResults, err := b.execAll(ctx, items)
	if err != nil {
		return "", err
	}

	action, err := b.node.Post(ctx, shared, items, execResults)
	if err != nil {
		return "", wrapPhase(b.name, PhasePost, 0, err)
	}
	return action, nil
}

func (b *BatchNode[PrepResult, ExecResult]) execAll(ctx context.Context, items []PrepResult) ([]ExecResult, error) {
	execResults := make([]ExecResult, len(items))

	if b.parallelism == 1 || len(items) < 2 {
		for i, item := range items {
			execResult, err := executeWithRetry[PrepResult, ExecResult](ctx, b.name, b.policy, item, b.node.Exec, b.fallback)
			if err != nil {
				return nil, err
			}
			execResults[i] = execResult
		}
		return execResults, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for i, item := range items {
		g.Go(func() error {
			execResult, err := executeWithRetry[PrepResult, ExecResult](gctx, b.name, b.policy, item, b.node.Exec, b.fallback)
			if err != nil {
				return err
			}
			execResults[i] = execResult
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return execResults, nil
}

// Parallelism returns the maximum number of items executed at once.
func (b *BatchNode[PrepResult, ExecResult]) Parallelism() int {
	return b.parallelism
}
