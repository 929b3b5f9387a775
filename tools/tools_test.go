package tools

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/alt-coder/pocketgraph/internal/logging"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addInput struct {
	A int `json:"a" description:"first operand"`
	B int `json:"b" description:"second operand"`
}

type greetInput struct {
	Name  string  `json:"name"`
	Tone  string  `json:"tone" enum:"warm, formal" default:"warm"`
	Title *string `json:"title"`
}

type sumResult struct {
	Sum int `json:"sum"`
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, Register(r, "add", "adds two integers", func(_ context.Context, in addInput) (sumResult, error) {
		return sumResult{Sum: in.A + in.B}, nil
	}))
	require.NoError(t, Register(r, "greet", "greets someone", func(_ context.Context, in greetInput) (string, error) {
		greeting := "Hello"
		if in.Tone == "formal" {
			greeting = "Good day"
		}
		if in.Title != nil {
			return greeting + ", " + *in.Title + " " + in.Name, nil
		}
		return greeting + ", " + in.Name, nil
	}))
	require.NoError(t, Register(r, "fail", "always fails", func(context.Context, struct{}) (string, error) {
		return "", errors.New("boom")
	}))
	return r
}

func TestRegister_Validation(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, Register(r, "", "", func(context.Context, addInput) (string, error) { return "", nil }))
	assert.Error(t, Register[addInput, string](r, "nil", "", nil))
	assert.Error(t, Register(r, "scalar", "", func(context.Context, int) (string, error) { return "", nil }))
}

func TestRegistry_Specs(t *testing.T) {
	r := newTestRegistry(t)

	specs := r.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "add", specs[0].Name)
	assert.Equal(t, "fail", specs[1].Name)
	assert.Equal(t, "greet", specs[2].Name)

	add := specs[0].Parameters
	assert.Equal(t, "object", add["type"])
	assert.ElementsMatch(t, []string{"a", "b"}, add["required"])
	props := add["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer", "description": "first operand"}, props["a"])

	greet := specs[2].Parameters
	assert.Equal(t, []string{"name"}, greet["required"])
	tone := greet["properties"].(map[string]any)["tone"].(map[string]any)
	assert.Equal(t, []string{"warm", "formal"}, tone["enum"])
	assert.Equal(t, "warm", tone["default"])
}

func TestRegistry_Execute(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    llm.ToolCall
		want    string
		wantErr bool
	}{
		{
			name: "json result with weak typing",
			call: llm.ToolCall{ID: "1", Name: "add", Args: map[string]any{"a": 2.0, "b": "3"}},
			want: `{"sum":5}`,
		},
		{
			name: "string result with default",
			call: llm.ToolCall{ID: "2", Name: "greet", Args: map[string]any{"name": "Ada"}},
			want: "Hello, Ada",
		},
		{
			name: "optional pointer",
			call: llm.ToolCall{ID: "3", Name: "greet", Args: map[string]any{"name": "Lovelace", "tone": "formal", "title": "Countess"}},
			want: "Good day, Countess Lovelace",
		},
		{
			name:    "missing required",
			call:    llm.ToolCall{ID: "4", Name: "add", Args: map[string]any{"a": 1}},
			want:    "tool execution failed: required parameter 'b' is missing",
			wantErr: true,
		},
		{
			name:    "enum violation",
			call:    llm.ToolCall{ID: "5", Name: "greet", Args: map[string]any{"name": "x", "tone": "rude"}},
			wantErr: true,
		},
		{
			name:    "handler error",
			call:    llm.ToolCall{ID: "6", Name: "fail"},
			want:    "tool execution failed: boom",
			wantErr: true,
		},
		{
			name:    "unknown tool",
			call:    llm.ToolCall{ID: "7", Name: "missing"},
			want:    "tool 'missing' not found",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(ctx, tt.call)
			require.NoError(t, err)
			assert.Equal(t, tt.call.ID, res.CallID)
			assert.Equal(t, tt.call.Name, res.Name)
			assert.Equal(t, tt.wantErr, res.IsError)
			if tt.want != "" {
				assert.Equal(t, tt.want, res.Content)
			}
		})
	}
}

func TestChain(t *testing.T) {
	local := newTestRegistry(t)
	other := NewRegistry()
	require.NoError(t, Register(other, "add", "shadowed", func(context.Context, addInput) (string, error) {
		return "other", nil
	}))
	require.NoError(t, Register(other, "echo", "echoes", func(_ context.Context, in struct {
		Text string `json:"text"`
	}) (string, error) {
		return in.Text, nil
	}))

	chain := Chain{local, other}
	specs := chain.Specs()
	require.Len(t, specs, 4)
	assert.Equal(t, "adds two integers", specs[0].Description)

	assert.True(t, chain.Has("echo"))
	assert.False(t, chain.Has("nope"))

	res, err := chain.Execute(context.Background(), llm.ToolCall{Name: "add", Args: map[string]any{"a": 1, "b": 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"sum":2}`, res.Content)

	res, err = chain.Execute(context.Background(), llm.ToolCall{Name: "echo", Args: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Content)

	res, err = chain.Execute(context.Background(), llm.ToolCall{Name: "nope"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCPManager_WithoutServers(t *testing.T) {
	m := NewMCPManager(map[string]MCPServerConfig{
		"off":     {Command: "unused", Disabled: true},
		"invalid": {},
	}, nil)

	require.NoError(t, m.Initialize(context.Background()))
	assert.Empty(t, m.Specs())
	assert.False(t, m.Has("anything"))

	res, err := m.Execute(context.Background(), llm.ToolCall{ID: "1", Name: "anything"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "1", res.CallID)

	assert.NoError(t, m.Close())
}

func TestMCPManager_ToolNameCollisionKeepsFirstServer(t *testing.T) {
	var logs bytes.Buffer
	m := NewMCPManager(nil, logging.NewWithWriter(&logs, slog.LevelDebug))

	added := m.addTools("alpha", []*protocol.Tool{
		{Name: "search", Description: "alpha search"},
		{Name: "fetch", Description: "alpha fetch"},
	})
	assert.Equal(t, 2, added)

	added = m.addTools("beta", []*protocol.Tool{
		{Name: "search", Description: "beta search"},
		{Name: "translate", Description: "beta translate"},
	})
	assert.Equal(t, 1, added)

	specs := m.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "alpha search", specs[1].Description)
	assert.Equal(t, "alpha", m.tools["search"].server)
	assert.Equal(t, "beta", m.tools["translate"].server)

	assert.Contains(t, logs.String(), "mcp tool name collision")
	assert.Contains(t, logs.String(), "tool=search")
	assert.Contains(t, logs.String(), "ignored_server=beta")
}
