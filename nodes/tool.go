package nodes

import (
	"context"
	"fmt"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/tools"
)

// ToolNode runs the tool calls of the latest assistant message, one batch
// item per call, and appends a tool message with the results.
type ToolNode struct {
	executor   tools.Executor
	historyKey string
}

// NewToolNode wraps a ToolNode as a graph vertex. Use core.WithParallelism to
// run independent calls concurrently.
func NewToolNode(executor tools.Executor, historyKey string, opts ...core.NodeOption) *core.BatchNode[llm.ToolCall, llm.ToolResult] {
	node := &ToolNode{executor: executor, historyKey: orKey(historyKey, DefaultHistoryKey)}
	return core.NewBatchNode[llm.ToolCall, llm.ToolResult](node, append([]core.NodeOption{core.WithName("tools")}, opts...)...)
}

func (t *ToolNode) Prep(_ context.Context, shared core.Shared) ([]llm.ToolCall, error) {
	last, ok := llm.LastMessage(History(shared, t.historyKey))
	if !ok || last.Role != llm.RoleAssistant {
		return nil, nil
	}
	return last.ToolCalls, nil
}

func (t *ToolNode) Exec(ctx context.Context, call llm.ToolCall) (llm.ToolResult, error) {
	res, err := t.executor.Execute(ctx, call)
	if err != nil {
		return llm.ToolResult{}, fmt.Errorf("tool %s: %w", call.Name, err)
	}
	return res, nil
}

// ExecFallback reports a dispatch failure to the model instead of aborting.
func (t *ToolNode) ExecFallback(_ context.Context, call llm.ToolCall, err error) (llm.ToolResult, error) {
	return llm.ToolResult{CallID: call.ID, Name: call.Name, Content: err.Error(), IsError: true}, nil
}

func (t *ToolNode) Post(_ context.Context, shared core.Shared, _ []llm.ToolCall, results []llm.ToolResult) (core.Action, error) {
	if len(results) > 0 {
		shared[t.historyKey] = append(History(shared, t.historyKey), llm.Message{
			Role:        llm.RoleTool,
			ToolResults: results,
		})
	}
	return core.ActionDefault, nil
}
