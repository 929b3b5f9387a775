// Package demo holds the built-in graphs run by `pocketgraph demo`.
package demo

import (
	"context"
	"fmt"
	"sort"

	"github.com/alt-coder/pocketgraph/core"
)

// Options tune the demos; unset fields take the defaults below.
type Options struct {
	Limit       int   `mapstructure:"limit"`
	Approve     bool  `mapstructure:"approve"`
	Items       []int `mapstructure:"items"`
	Parallelism int   `mapstructure:"parallelism"`
	MaxRetries  int   `mapstructure:"retries"`
}

func defaultOptions() Options {
	return Options{
		Limit:       3,
		Approve:     true,
		Items:       []int{1, 2, 3, 4, 5},
		Parallelism: 2,
		MaxRetries:  1,
	}
}

type builder func(Options) *core.Flow

var demos = map[string]builder{
	"loop":   Loop,
	"branch": Branch,
	"batch":  Batch,
}

// Names lists the available demos.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns the named demo configured from params.
func Build(name string, params core.Params) (*core.Flow, error) {
	build, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %v)", name, Names())
	}
	opts := defaultOptions()
	if err := core.DecodeParams(params, &opts); err != nil {
		return nil, err
	}
	if opts.Limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", opts.Limit)
	}
	return build(opts), nil
}

// Loop counts shared["count"] up to Limit through a self-loop, then marks
// shared["finished"].
func Loop(opts Options) *core.Flow {
	counter := core.NewFunc(core.FuncNode[int, int]{
		PrepFn: func(_ context.Context, shared core.Shared) (int, error) {
			count, _ := core.Get[int](shared, "count")
			return count, nil
		},
		ExecFn: func(_ context.Context, count int) (int, error) {
			return count + 1, nil
		},
		PostFn: func(_ context.Context, shared core.Shared, _ int, count int) (core.Action, error) {
			shared["count"] = count
			if count < opts.Limit {
				return core.ActionContinue, nil
			}
			return "done", nil
		},
	}, core.WithName("counter"))

	finish := core.NewFunc(core.FuncNode[struct{}, struct{}]{
		PostFn: func(_ context.Context, shared core.Shared, _ struct{}, _ struct{}) (core.Action, error) {
			shared["finished"] = true
			return core.ActionSuccess, nil
		},
	}, core.WithName("finish"))

	counter.On(core.ActionContinue).To(counter)
	counter.On("done").To(finish)
	return core.NewFlow(counter, core.WithName("loop"))
}

// Branch reviews a draft and either publishes it or files it as a draft.
func Branch(opts Options) *core.Flow {
	review := core.NewFunc(core.FuncNode[struct{}, bool]{
		ExecFn: func(context.Context, struct{}) (bool, error) {
			return opts.Approve, nil
		},
		PostFn: func(_ context.Context, shared core.Shared, _ struct{}, approved bool) (core.Action, error) {
			shared["reviewed"] = true
			if approved {
				return "approve", nil
			}
			return "reject", nil
		},
	}, core.WithName("review"))

	publish := mark("publish", "published")
	draft := mark("draft", "draft")

	review.On("approve").To(publish)
	review.On("reject").To(draft)
	return core.NewFlow(review, core.WithName("branch"))
}

// Batch squares Items with up to Parallelism workers, then sums them.
func Batch(opts Options) *core.Flow {
	squares := core.NewBatchNode[int, int](&squareBatch{items: opts.Items},
		core.WithName("square"),
		core.WithParallelism(opts.Parallelism),
		core.WithMaxRetries(opts.MaxRetries),
	)

	sum := core.NewFunc(core.FuncNode[[]int, int]{
		PrepFn: func(_ context.Context, shared core.Shared) ([]int, error) {
			values, ok := core.Get[[]int](shared, "squares")
			if !ok {
				return nil, fmt.Errorf("no results under %q", "squares")
			}
			return values, nil
		},
		ExecFn: func(_ context.Context, values []int) (int, error) {
			total := 0
			for _, s := range values {
				total += s
			}
			return total, nil
		},
		PostFn: func(_ context.Context, shared core.Shared, _ []int, total int) (core.Action, error) {
			shared["sum"] = total
			return core.ActionSuccess, nil
		},
	}, core.WithName("sum"))

	squares.Next(sum)
	return core.NewFlow(squares, core.WithName("batch"))
}

type squareBatch struct {
	items []int
}

func (b *squareBatch) Prep(context.Context, core.Shared) ([]int, error) {
	return b.items, nil
}

func (b *squareBatch) Exec(ctx context.Context, item int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return item * item, nil
}

func (b *squareBatch) Post(_ context.Context, shared core.Shared, _ []int, results []int) (core.Action, error) {
	shared["squares"] = results
	return core.ActionDefault, nil
}

func mark(name, key string) core.Workflow {
	return core.NewFunc(core.FuncNode[struct{}, struct{}]{
		PostFn: func(_ context.Context, shared core.Shared, _ struct{}, _ struct{}) (core.Action, error) {
			shared[key] = true
			return core.ActionSuccess, nil
		},
	}, core.WithName(name))
}
