package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/client"
	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/transport"
	"github.com/alt-coder/pocketgraph/internal/logging"
	"github.com/alt-coder/pocketgraph/llm"
)

const (
	discoverTimeout = 10 * time.Second
	callTimeout     = 30 * time.Second
)

// MCPServerConfig describes one stdio MCP server.
type MCPServerConfig struct {
	Command  string   `json:"command" yaml:"command"`
	Args     []string `json:"args" yaml:"args"`
	Disabled bool     `json:"disabled" yaml:"disabled"`
}

// MCPManager manages MCP client connections and tool discovery.
type MCPManager struct {
	servers map[string]MCPServerConfig
	logger  *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client.Client
	tools   map[string]mcpTool
}

type mcpTool struct {
	spec   llm.ToolSpec
	server string
}

// NewMCPManager creates a manager for the given servers. Nothing is started
// until Initialize.
func NewMCPManager(servers map[string]MCPServerConfig, logger *slog.Logger) *MCPManager {
	if servers == nil {
		servers = make(map[string]MCPServerConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MCPManager{
		servers: servers,
		logger:  logger,
		clients: make(map[string]*client.Client),
		tools:   make(map[string]mcpTool),
	}
}

// Initialize connects to every enabled server and discovers its tools. A
// server that fails to start is logged and skipped.
func (m *MCPManager) Initialize(ctx context.Context) error {
	names := make([]string, 0, len(m.servers))
	for name := range m.servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := m.servers[name]
		if cfg.Disabled {
			continue
		}
		if err := m.connect(ctx, name, cfg); err != nil {
			m.logger.Warn("mcp server unavailable", "server", name, "error", err)
		}
	}
	return nil
}

func (m *MCPManager) connect(ctx context.Context, name string, cfg MCPServerConfig) error {
	if cfg.Command == "" {
		return fmt.Errorf("no command configured for server %s", name)
	}

	t, err := transport.NewStdioClientTransport(cfg.Command, cfg.Args)
	if err != nil {
		return fmt.Errorf("failed to create stdio transport: %w", err)
	}

	cli, err := client.NewClient(t, client.WithClientInfo(&protocol.Implementation{
		Name:    "pocketgraph",
		Version: "1.0.0",
	}))
	if err != nil {
		return fmt.Errorf("failed to create MCP client: %w", err)
	}

	listCtx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	listed, err := cli.ListTools(listCtx)
	if err != nil {
		_ = cli.Close()
		return fmt.Errorf("failed to list tools: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[name] = cli
	added := m.addTools(name, listed.Tools)
	m.logger.Info("mcp server connected", "server", name, "tools", added)
	return nil
}

// addTools registers the tools of server and returns how many were added. A
// name already taken by an earlier server keeps its first owner. Callers hold
// m.mu.
func (m *MCPManager) addTools(server string, tools []*protocol.Tool) int {
	added := 0
	for _, tool := range tools {
		if owner, taken := m.tools[tool.Name]; taken {
			m.logger.Warn("mcp tool name collision, keeping first server",
				"tool", tool.Name, "server", owner.server, "ignored_server", server)
			continue
		}
		m.tools[tool.Name] = mcpTool{
			server: server,
			spec: llm.ToolSpec{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  inputSchema(tool.InputSchema),
			},
		}
		added++
	}
	return added
}

func inputSchema(s protocol.InputSchema) map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		props[name] = prop
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   s.Required,
	}
}

// Specs returns discovered tools sorted by name.
func (m *MCPManager) Specs() []llm.ToolSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()

	specs := make([]llm.ToolSpec, 0, len(m.tools))
	for _, t := range m.tools {
		specs = append(specs, t.spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Has reports whether a discovered tool has this name.
func (m *MCPManager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tools[name]
	return ok
}

// Execute calls the tool on the server that advertised it.
func (m *MCPManager) Execute(ctx context.Context, call llm.ToolCall) (llm.ToolResult, error) {
	m.mu.RLock()
	tool, ok := m.tools[call.Name]
	var cli *client.Client
	if ok {
		cli = m.clients[tool.server]
	}
	m.mu.RUnlock()

	if !ok {
		return notFound(call), nil
	}
	if cli == nil {
		return errorResult(call, fmt.Sprintf("MCP client for server '%s' not available", tool.server)), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	res, err := cli.CallTool(callCtx, &protocol.CallToolRequest{
		Name:      call.Name,
		Arguments: call.Args,
	})
	if err != nil {
		return errorResult(call, fmt.Sprintf("MCP tool execution failed: %v", err)), nil
	}

	var parts []string
	for _, item := range res.Content {
		switch c := item.(type) {
		case *protocol.TextContent:
			parts = append(parts, c.Text)
		case *protocol.ImageContent:
			parts = append(parts, fmt.Sprintf("[image %s]", c.MimeType))
		}
	}

	return llm.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: strings.Join(parts, "\n"),
		IsError: res.IsError,
	}, nil
}

// Close closes all MCP connections.
func (m *MCPManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, cli := range m.clients {
		if err := cli.Close(); err != nil {
			m.logger.Warn("failed to close mcp client", "server", name, "error", err)
		}
	}
	m.clients = make(map[string]*client.Client)
	m.tools = make(map[string]mcpTool)
	return nil
}
