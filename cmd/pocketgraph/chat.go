package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/nodes"
	"github.com/alt-coder/pocketgraph/providers"
	"github.com/alt-coder/pocketgraph/tools"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the configured provider; type exit or quit to leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			name, _ := cmd.Flags().GetString("provider")
			if name == "" {
				name = a.cfg.Provider
			}
			provider, err := providers.New(ctx, name)
			if err != nil {
				return err
			}

			executor, cleanup, err := a.toolExecutor(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			flow := a.chatFlow(cmd, provider, executor)
			fmt.Fprintf(cmd.OutOrStdout(), "Chatting with %s. Type 'exit' to quit.\n", provider.GetName())

			action, err := flow.Run(a.runContext(ctx), core.Shared{})
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			a.logger.Debug("chat finished", "action", action)
			fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
			return nil
		},
	}
	cmd.Flags().String("provider", "", "LLM provider ("+fmt.Sprint(providers.Names())+"); overrides POCKETGRAPH_PROVIDER")
	return cmd
}

// chatFlow wires input -> chat -> (tools -> chat)* -> input until exit.
func (a *app) chatFlow(cmd *cobra.Command, provider llm.LLMProvider, executor tools.Executor) *core.Flow {
	input := nodes.NewInputNode(cmd.InOrStdin(), cmd.OutOrStdout(), "You: ")
	chat := nodes.NewChatNode(provider, nodes.ChatConfig{
		SystemPrompt:  a.cfg.SystemPrompt,
		MaxHistory:    a.cfg.MaxHistory,
		FallbackReply: "I'm sorry, I couldn't process that request. Please try again.",
		Tools:         executor,
		Output:        cmd.OutOrStdout(),
	}, core.WithMaxRetries(a.cfg.MaxRetries), core.WithWait(a.cfg.RetryWait))
	toolNode := nodes.NewToolNode(executor, "", core.WithParallelism(4))

	input.Next(chat)
	input.On(core.ActionRetry).To(input)
	chat.On(core.ActionContinue).To(input)
	chat.On(nodes.ActionTool).To(toolNode)
	toolNode.Next(chat)
	return core.NewFlow(input, core.WithName("chat"))
}

// toolExecutor combines the built-in tools with any configured MCP servers.
func (a *app) toolExecutor(ctx context.Context) (tools.Executor, func(), error) {
	local, err := builtinTools()
	if err != nil {
		return nil, nil, err
	}
	if a.cfg.MCPConfig == "" {
		return local, func() {}, nil
	}

	servers, err := tools.LoadMCPConfig(a.cfg.MCPConfig)
	if err != nil {
		return nil, nil, err
	}
	manager := tools.NewMCPManager(servers, a.logger)
	if err := manager.Initialize(ctx); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := manager.Close(); err != nil {
			a.logger.Warn("closing mcp servers", "error", err)
		}
	}
	return tools.Chain{local, manager}, cleanup, nil
}

type clockArgs struct {
	Timezone string `json:"timezone" description:"IANA time zone, e.g. Europe/Paris" default:"UTC"`
}

func builtinTools() (*tools.Registry, error) {
	registry := tools.NewRegistry()
	err := tools.Register(registry, "current_time", "Returns the current time in RFC 3339 format",
		func(_ context.Context, args clockArgs) (string, error) {
			loc, err := time.LoadLocation(args.Timezone)
			if err != nil {
				return "", err
			}
			return time.Now().In(loc).Format(time.RFC3339), nil
		})
	if err != nil {
		return nil, err
	}
	return registry, nil
}
