package tools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MCPFile is the on-disk server list. JSON files in the usual
// {"mcpServers": {...}} shape parse as well, JSON being a subset of YAML.
type MCPFile struct {
	Servers map[string]MCPServerConfig `json:"mcpServers" yaml:"mcpServers"`
}

// LoadMCPConfig reads the server list at path.
func LoadMCPConfig(path string) (map[string]MCPServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mcp config: %w", err)
	}
	return ParseMCPConfig(data)
}

// ParseMCPConfig decodes a server list and rejects entries without a command.
func ParseMCPConfig(data []byte) (map[string]MCPServerConfig, error) {
	var file MCPFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}
	for name, server := range file.Servers {
		if server.Command == "" {
			return nil, fmt.Errorf("mcp server %q: command is required", name)
		}
	}
	if file.Servers == nil {
		file.Servers = make(map[string]MCPServerConfig)
	}
	return file.Servers, nil
}
