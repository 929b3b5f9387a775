// Package gemini adapts Google's Gemini models to llm.LLMProvider.
package gemini

import (
	"context"
	"fmt"

	"github.com/alt-coder/pocketgraph/llm"
	"google.golang.org/genai"
)

// Client implements llm.LLMProvider for Gemini models.
type Client struct {
	genaiClient *genai.Client
	config      *Config
}

// NewClient creates a new Gemini client with the provided configuration
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: config.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		genaiClient: genaiClient,
		config:      config,
	}, nil
}

// NewClientFromEnv creates a new Gemini client using environment variables
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}
	return NewClient(ctx, config)
}

// GetName returns the provider name
func (c *Client) GetName() string {
	return "gemini"
}

// CallLLM sends the conversation in a single GenerateContent request.
func (c *Client) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	if len(messages) == 0 {
		return llm.Message{}, fmt.Errorf("no messages to send")
	}

	contents, system := convertToGenaiContents(messages)

	temperature := c.config.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: system,
	}
	if c.config.MaxOutputTokens > 0 {
		genConfig.MaxOutputTokens = int32(c.config.MaxOutputTokens)
	}

	response, err := c.genaiClient.Models.GenerateContent(ctx, c.config.Model, contents, genConfig)
	if err != nil {
		return llm.Message{}, fmt.Errorf("failed to generate content: %w", err)
	}

	result := llm.Message{
		Role:    llm.RoleAssistant,
		Content: response.Text(),
	}
	for _, call := range response.FunctionCalls() {
		result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
			ID:   call.ID,
			Name: call.Name,
			Args: call.Args,
		})
	}
	return result, nil
}

// convertToGenaiContents splits system messages into a system instruction and
// converts the remaining turns.
func convertToGenaiContents(messages []llm.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
			continue
		}

		content := &genai.Content{Role: getRole(msg.Role)}
		if msg.Content != "" {
			content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
		}
		if len(msg.Media) > 0 {
			content.Parts = append(content.Parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: msg.MimeType,
					Data:     msg.Media,
				},
			})
		}
		for _, call := range msg.ToolCalls {
			content.Parts = append(content.Parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Args},
			})
		}
		for _, res := range msg.ToolResults {
			key := "output"
			if res.IsError {
				key = "error"
			}
			content.Parts = append(content.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       res.CallID,
					Name:     res.Name,
					Response: map[string]any{key: res.Content},
				},
			})
		}

		if len(content.Parts) > 0 {
			contents = append(contents, content)
		}
	}

	return contents, system
}

func getRole(role string) string {
	switch role {
	case llm.RoleAssistant:
		return genai.RoleModel
	default:
		return genai.RoleUser
	}
}
