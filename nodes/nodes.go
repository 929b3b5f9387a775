// Package nodes provides ready-made LLM nodes for pocketgraph flows. They keep
// the conversation in Shared under a configurable key as []llm.Message.
package nodes

import (
	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
)

// Actions returned by the nodes in this package.
const (
	ActionExit core.Action = "exit"
	ActionTool core.Action = "tool"
)

// Default shared keys.
const (
	DefaultHistoryKey = "messages"
	DefaultInputKey   = "input"
)

// History returns the conversation stored under key.
func History(shared core.Shared, key string) []llm.Message {
	messages, _ := core.Get[[]llm.Message](shared, key)
	return messages
}

func orKey(key, fallback string) string {
	if key == "" {
		return fallback
	}
	return key
}

// trimHistory keeps at most limit trailing messages. The cut moves forward
// past tool-role messages so a tool result never outlives the assistant
// message whose tool calls it answers.
func trimHistory(history []llm.Message, limit int) []llm.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	start := len(history) - limit
	for start < len(history) && history[start].Role == llm.RoleTool {
		start++
	}
	return history[start:]
}
