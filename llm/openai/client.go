// Package openai adapts the OpenAI chat completions API to llm.LLMProvider.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/alt-coder/pocketgraph/llm"
	"github.com/sashabaranov/go-openai"
)

// Client implements llm.LLMProvider for OpenAI models.
type Client struct {
	client *openai.Client
	config *Config
}

// NewClient creates a new OpenAI client with the provided configuration
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.OrgID != "" {
		clientConfig.OrgID = config.OrgID
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// NewClientFromEnv creates a new OpenAI client using environment variables
func NewClientFromEnv() (*Client, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}
	return NewClient(config)
}

// GetName returns the provider name
func (c *Client) GetName() string {
	return "openai"
}

// CallLLM sends the conversation in a single request.
func (c *Client) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	return c.CallLLMWithTools(ctx, messages, nil)
}

// CallLLMWithTools sends the conversation and advertises tools as functions.
func (c *Client) CallLLMWithTools(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.Message, error) {
	if len(messages) == 0 {
		return llm.Message{}, fmt.Errorf("no messages to send")
	}

	request, err := c.buildRequest(messages, tools)
	if err != nil {
		return llm.Message{}, err
	}

	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return llm.Message{}, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices returned from OpenAI API")
	}

	return convertFromOpenAIMessage(response.Choices[0].Message)
}

func (c *Client) buildRequest(messages []llm.Message, tools []llm.ToolSpec) (openai.ChatCompletionRequest, error) {
	openaiMessages, err := convertToOpenAIMessages(messages)
	if err != nil {
		return openai.ChatCompletionRequest{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	request := openai.ChatCompletionRequest{
		Model:            c.config.Model,
		Messages:         openaiMessages,
		Temperature:      c.config.Temperature,
		TopP:             c.config.TopP,
		FrequencyPenalty: c.config.FrequencyPenalty,
		PresencePenalty:  c.config.PresencePenalty,
	}
	if c.config.MaxTokens > 0 {
		request.MaxTokens = c.config.MaxTokens
	}

	for _, tool := range tools {
		request.Tools = append(request.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	return request, nil
}

func convertFromOpenAIMessage(msg openai.ChatCompletionMessage) (llm.Message, error) {
	result := llm.Message{
		Role:    llm.RoleAssistant,
		Content: msg.Content,
	}

	for _, toolCall := range msg.ToolCalls {
		if toolCall.Type != openai.ToolTypeFunction {
			continue
		}
		var args map[string]any
		if toolCall.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
				return result, fmt.Errorf("failed to parse tool arguments: %w", err)
			}
		}
		result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
			ID:   toolCall.ID,
			Name: toolCall.Function.Name,
			Args: args,
		})
	}

	return result, nil
}

// convertToOpenAIMessages converts generic messages to OpenAI format. Tool
// results become separate tool-role messages following their carrier.
func convertToOpenAIMessages(messages []llm.Message) ([]openai.ChatCompletionMessage, error) {
	var openaiMessages []openai.ChatCompletionMessage

	for _, msg := range messages {
		if msg.Role == llm.RoleTool {
			for _, res := range msg.ToolResults {
				openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    res.Content,
					ToolCallID: res.CallID,
				})
			}
			continue
		}

		openaiMsg := openai.ChatCompletionMessage{Role: msg.Role}

		if len(msg.Media) > 0 {
			imageURL := fmt.Sprintf("data:%s;base64,%s", msg.MimeType, base64.StdEncoding.EncodeToString(msg.Media))
			openaiMsg.MultiContent = []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: msg.Content},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    imageURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			}
		} else {
			openaiMsg.Content = msg.Content
		}

		for _, toolCall := range msg.ToolCalls {
			args, err := json.Marshal(toolCall.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool arguments: %w", err)
			}
			openaiMsg.ToolCalls = append(openaiMsg.ToolCalls, openai.ToolCall{
				ID:   toolCall.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      toolCall.Name,
					Arguments: string(args),
				},
			})
		}

		openaiMessages = append(openaiMessages, openaiMsg)
	}

	return openaiMessages, nil
}
