// Package providers builds an llm.LLMProvider by name from environment configuration.
package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/llm/anthropic"
	"github.com/alt-coder/pocketgraph/llm/gemini"
	"github.com/alt-coder/pocketgraph/llm/openai"
)

type factory func(ctx context.Context) (llm.LLMProvider, error)

var factories = map[string]factory{
	"openai": func(context.Context) (llm.LLMProvider, error) {
		return openai.NewClientFromEnv()
	},
	"gemini": func(ctx context.Context) (llm.LLMProvider, error) {
		return gemini.NewClientFromEnv(ctx)
	},
	"anthropic": func(context.Context) (llm.LLMProvider, error) {
		return anthropic.NewClientFromEnv()
	},
	"mock": func(context.Context) (llm.LLMProvider, error) {
		return llm.NewMockProvider("mock", "Hello from the mock provider."), nil
	},
}

// New returns the provider registered under name.
func New(ctx context.Context, name string) (llm.LLMProvider, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, Names())
	}
	p, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", name, err)
	}
	return p, nil
}

// Names lists the known provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
