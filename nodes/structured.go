package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/prompt"
	"github.com/alt-coder/pocketgraph/structured"
)

// StructuredConfig configures a StructuredNode.
type StructuredConfig[T any] struct {
	InputKey     string // text to analyze, default "input"
	OutputKey    string // receives *T, default "result"
	Instructions string // prepended to the generated format prompt
	Validator    structured.Validator[T]
}

// StructuredNode asks the provider for a value shaped like T. Parsing and
// validation happen in Exec, so a malformed reply costs one retry.
type StructuredNode[T any] struct {
	provider llm.LLMProvider
	config   StructuredConfig[T]
}

// NewStructuredNode wraps a StructuredNode as a graph vertex.
func NewStructuredNode[T any](provider llm.LLMProvider, config StructuredConfig[T], opts ...core.NodeOption) *core.Node[string, *T] {
	config.InputKey = orKey(config.InputKey, DefaultInputKey)
	config.OutputKey = orKey(config.OutputKey, "result")
	node := &StructuredNode[T]{provider: provider, config: config}
	return core.NewNode[string, *T](node, append([]core.NodeOption{core.WithName("structured")}, opts...)...)
}

func (s *StructuredNode[T]) Prep(_ context.Context, shared core.Shared) (string, error) {
	input, ok := core.Get[string](shared, s.config.InputKey)
	if !ok || strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("no text under %q", s.config.InputKey)
	}

	var b strings.Builder
	if s.config.Instructions != "" {
		b.WriteString(s.config.Instructions)
		b.WriteString("\n\n")
	}
	b.WriteString("**Input Data:**\n```\n")
	b.WriteString(input)
	b.WriteString("\n```\n\n")
	b.WriteString(prompt.GenerateStructuredPrompt[T]())
	return b.String(), nil
}

func (s *StructuredNode[T]) Exec(ctx context.Context, promptText string) (*T, error) {
	reply, err := s.provider.CallLLM(ctx, []llm.Message{{Role: llm.RoleUser, Content: promptText}})
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	return structured.ParseAndValidate(reply.Content, s.config.Validator)
}

func (s *StructuredNode[T]) Post(_ context.Context, shared core.Shared, _ string, out *T) (core.Action, error) {
	shared[s.config.OutputKey] = out
	return core.ActionDefault, nil
}
