// Package llm defines the provider-neutral chat types shared by the LLM nodes.
package llm

import "context"

// Message represents a generic chat message that can be used across different LLM providers
type Message struct {
	Role        string // "system", "user", "assistant", "tool"
	Content     string
	Media       []byte
	MimeType    string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult answers a ToolCall.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// ToolSpec advertises a callable tool to the model. Parameters is a JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// LLMProvider interface defines the contract that all LLM implementations must follow.
// Implementations make a single attempt per call; retrying is left to the calling node.
type LLMProvider interface {
	// CallLLM sends messages to the LLM and returns the response
	CallLLM(ctx context.Context, messages []Message) (Message, error)

	// GetName returns the name/identifier of the LLM provider
	GetName() string
}

// ToolCallingProvider is implemented by providers that can advertise tools.
type ToolCallingProvider interface {
	LLMProvider
	CallLLMWithTools(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error)
}

const (
	// RoleSystem is used for system-level messages
	RoleSystem = "system"
	// RoleUser is used for user messages
	RoleUser = "user"
	// RoleAssistant is used for assistant messages
	RoleAssistant = "assistant"
	// RoleTool carries tool results back to the model
	RoleTool = "tool"
)

// LastMessage returns the final message of a conversation.
func LastMessage(messages []Message) (Message, bool) {
	if len(messages) == 0 {
		return Message{}, false
	}
	return messages[len(messages)-1], true
}
