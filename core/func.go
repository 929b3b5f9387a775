package core

import "context"

// FuncNode builds a BaseNode out of closures. Nil phases are no-ops that
// return zero values; a nil FallbackFn rethrows.
type FuncNode[PrepResult any, ExecResult any] struct {
	PrepFn     func(ctx context.Context, shared Shared) (PrepResult, error)
	ExecFn     func(ctx context.Context, prepResult PrepResult) (ExecResult, error)
	PostFn     func(ctx context.Context, shared Shared, prepResult PrepResult, execResult ExecResult) (Action, error)
	FallbackFn func(ctx context.Context, prepResult PrepResult, err error) (ExecResult, error)
}

// NewFunc wraps fn in a Node.
func NewFunc[PrepResult any, ExecResult any](fn FuncNode[PrepResult, ExecResult], opts ...NodeOption) *Node[PrepResult, ExecResult] {
	return NewNode[PrepResult, ExecResult](&fn, append([]NodeOption{WithName("func")}, opts...)...)
}

func (f *FuncNode[PrepResult, ExecResult]) Prep(ctx context.Context, shared Shared) (PrepResult, error) {
	if f.PrepFn == nil {
		var zero PrepResult
		return zero, nil
	}
	return f.PrepFn(ctx, shared)
}

func (f *FuncNode[PrepResult, ExecResult]) Exec(ctx context.Context, prepResult PrepResult) (ExecResult, error) {
	if f.ExecFn == nil {
		var zero ExecResult
		return zero, nil
	}
	return f.ExecFn(ctx, prepResult)
}

func (f *FuncNode[PrepResult, ExecResult]) Post(ctx context.Context, shared Shared, prepResult PrepResult, execResult ExecResult) (Action, error) {
	if f.PostFn == nil {
		return "", nil
	}
	return f.PostFn(ctx, shared, prepResult, execResult)
}

func (f *FuncNode[PrepResult, ExecResult]) ExecFallback(ctx context.Context, prepResult PrepResult, err error) (ExecResult, error) {
	if f.FallbackFn == nil {
		var zero ExecResult
		return zero, err
	}
	return f.FallbackFn(ctx, prepResult, err)
}
