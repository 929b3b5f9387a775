// Package tools runs model-requested tool calls against local Go handlers or
// MCP servers.
package tools

import (
	"context"
	"fmt"

	"github.com/alt-coder/pocketgraph/llm"
)

// Executor advertises tools and runs calls against them. Failures of the tool
// itself are reported in the result with IsError set; a returned error means
// the call could not be dispatched at all.
type Executor interface {
	Specs() []llm.ToolSpec
	Has(name string) bool
	Execute(ctx context.Context, call llm.ToolCall) (llm.ToolResult, error)
}

// Chain routes each call to the first executor that has the tool.
type Chain []Executor

// Specs returns the union of all specs; earlier executors shadow later ones.
func (c Chain) Specs() []llm.ToolSpec {
	var specs []llm.ToolSpec
	seen := make(map[string]bool)
	for _, e := range c {
		for _, s := range e.Specs() {
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			specs = append(specs, s)
		}
	}
	return specs
}

// Has reports whether any executor has the tool.
func (c Chain) Has(name string) bool {
	for _, e := range c {
		if e.Has(name) {
			return true
		}
	}
	return false
}

// Execute dispatches call to the first executor that has the tool.
func (c Chain) Execute(ctx context.Context, call llm.ToolCall) (llm.ToolResult, error) {
	for _, e := range c {
		if e.Has(call.Name) {
			return e.Execute(ctx, call)
		}
	}
	return notFound(call), nil
}

func notFound(call llm.ToolCall) llm.ToolResult {
	return errorResult(call, fmt.Sprintf("tool '%s' not found", call.Name))
}

func errorResult(call llm.ToolCall, msg string) llm.ToolResult {
	return llm.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: msg,
		IsError: true,
	}
}
