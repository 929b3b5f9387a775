package nodes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/tools"
)

// ChatConfig configures a ChatNode.
type ChatConfig struct {
	HistoryKey    string   // default "messages"
	InputKey      string   // default "input"
	SystemPrompt  string   // sent first on every call, never stored
	MaxHistory    int      // 0 keeps everything
	ExitCommands  []string // default "exit", "quit"
	FallbackReply string   // used once retries are exhausted; empty propagates the error
	Tools         tools.Executor
	Output        io.Writer // replies are echoed here when set
}

// ChatTurn is what a ChatNode sends to the provider.
type ChatTurn struct {
	Exit     bool
	Messages []llm.Message
	Tools    []llm.ToolSpec
}

// ChatNode consumes the pending user input, calls the provider with the
// conversation and appends the reply. It returns ActionExit on an exit
// command, ActionTool when the reply requests tools, ActionContinue otherwise.
type ChatNode struct {
	provider llm.LLMProvider
	config   ChatConfig
}

// NewChatNode wraps a ChatNode as a graph vertex.
func NewChatNode(provider llm.LLMProvider, config ChatConfig, opts ...core.NodeOption) *core.Node[ChatTurn, llm.Message] {
	config.HistoryKey = orKey(config.HistoryKey, DefaultHistoryKey)
	config.InputKey = orKey(config.InputKey, DefaultInputKey)
	if len(config.ExitCommands) == 0 {
		config.ExitCommands = []string{"exit", "quit"}
	}
	node := &ChatNode{provider: provider, config: config}
	return core.NewNode[ChatTurn, llm.Message](node, append([]core.NodeOption{core.WithName("chat")}, opts...)...)
}

func (c *ChatNode) Prep(_ context.Context, shared core.Shared) (ChatTurn, error) {
	history := History(shared, c.config.HistoryKey)

	if input, ok := core.Get[string](shared, c.config.InputKey); ok {
		delete(shared, c.config.InputKey)
		input = strings.TrimSpace(input)
		if c.isExit(input) {
			return ChatTurn{Exit: true}, nil
		}
		if input != "" {
			history = append(history, llm.Message{Role: llm.RoleUser, Content: input})
			shared[c.config.HistoryKey] = history
		}
	}

	if len(history) == 0 {
		return ChatTurn{}, fmt.Errorf("no conversation under %q", c.config.HistoryKey)
	}

	turn := ChatTurn{Messages: make([]llm.Message, 0, len(history)+1)}
	if c.config.SystemPrompt != "" {
		turn.Messages = append(turn.Messages, llm.Message{Role: llm.RoleSystem, Content: c.config.SystemPrompt})
	}
	turn.Messages = append(turn.Messages, history...)
	if c.config.Tools != nil {
		turn.Tools = c.config.Tools.Specs()
	}
	return turn, nil
}

func (c *ChatNode) Exec(ctx context.Context, turn ChatTurn) (llm.Message, error) {
	if turn.Exit {
		return llm.Message{}, nil
	}

	var (
		reply llm.Message
		err   error
	)
	if tc, ok := c.provider.(llm.ToolCallingProvider); ok && len(turn.Tools) > 0 {
		reply, err = tc.CallLLMWithTools(ctx, turn.Messages, turn.Tools)
	} else {
		reply, err = c.provider.CallLLM(ctx, turn.Messages)
	}
	if err != nil {
		return llm.Message{}, fmt.Errorf("LLM API call failed: %w", err)
	}
	reply.Role = llm.RoleAssistant
	return reply, nil
}

// ExecFallback answers with the configured fallback reply.
func (c *ChatNode) ExecFallback(_ context.Context, _ ChatTurn, err error) (llm.Message, error) {
	if c.config.FallbackReply == "" {
		return llm.Message{}, err
	}
	return llm.Message{Role: llm.RoleAssistant, Content: c.config.FallbackReply}, nil
}

func (c *ChatNode) Post(_ context.Context, shared core.Shared, turn ChatTurn, reply llm.Message) (core.Action, error) {
	if turn.Exit {
		return ActionExit, nil
	}

	history := trimHistory(append(History(shared, c.config.HistoryKey), reply), c.config.MaxHistory)
	shared[c.config.HistoryKey] = history

	if c.config.Output != nil && reply.Content != "" {
		if _, err := fmt.Fprintf(c.config.Output, "Assistant: %s\n\n", reply.Content); err != nil {
			return "", err
		}
	}

	if len(reply.ToolCalls) > 0 {
		return ActionTool, nil
	}
	return core.ActionContinue, nil
}

func (c *ChatNode) isExit(input string) bool {
	for _, cmd := range c.config.ExitCommands {
		if strings.EqualFold(input, cmd) {
			return true
		}
	}
	return false
}
