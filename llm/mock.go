package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockProvider implements LLMProvider for tests. It replays scripted responses
// in order (cycling when exhausted) and can fail chosen calls.
type MockProvider struct {
	name string

	mu        sync.Mutex
	responses []Message
	errs      []error
	patterns  map[string]string
	calls     int
	lastInput []Message
	lastTools []ToolSpec
}

// NewMockProvider creates a mock that answers with the given contents.
func NewMockProvider(name string, responses ...string) *MockProvider {
	m := &MockProvider{
		name:     name,
		patterns: make(map[string]string),
	}
	for _, r := range responses {
		m.responses = append(m.responses, Message{Role: RoleAssistant, Content: r})
	}
	return m
}

// AddResponse appends a full scripted message, for tool-call responses.
func (m *MockProvider) AddResponse(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	m.responses = append(m.responses, msg)
}

// FailCalls makes the n-th call (0-based, by position) return errs[n] when non-nil.
func (m *MockProvider) FailCalls(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = errs
}

// AddPattern answers any user message containing pattern with response.
func (m *MockProvider) AddPattern(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[strings.ToLower(pattern)] = response
}

// CallLLM returns the next scripted response or error.
func (m *MockProvider) CallLLM(ctx context.Context, messages []Message) (Message, error) {
	return m.CallLLMWithTools(ctx, messages, nil)
}

// CallLLMWithTools behaves like CallLLM and records the advertised tools.
func (m *MockProvider) CallLLMWithTools(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	m.lastInput = append([]Message(nil), messages...)
	m.lastTools = tools

	if call < len(m.errs) && m.errs[call] != nil {
		return Message{}, m.errs[call]
	}

	if last, ok := LastMessage(messages); ok && last.Role == RoleUser {
		input := strings.ToLower(last.Content)
		for pattern, response := range m.patterns {
			if strings.Contains(input, pattern) {
				return Message{Role: RoleAssistant, Content: response}, nil
			}
		}
	}

	if len(m.responses) == 0 {
		return Message{Role: RoleAssistant, Content: fmt.Sprintf("Mock response from %s", m.name)}, nil
	}
	return m.responses[call%len(m.responses)], nil
}

// GetName returns the mock provider name
func (m *MockProvider) GetName() string {
	return m.name
}

// CallCount returns the number of calls made so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastMessages returns the conversation sent with the latest call.
func (m *MockProvider) LastMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput
}

// LastTools returns the tools advertised with the latest call.
func (m *MockProvider) LastTools() []ToolSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTools
}
