package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/llm/providers/providererr"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// AnthropicConfig configures an AnthropicProvider.
type AnthropicConfig struct {
	APIKey       string
	BaseURL      string
	MaxRetries   int
	RetryDelay   int // seconds
	DefaultModel string
}

// AnthropicProvider talks to the Anthropic Messages API. Calls are
// synchronous: act/observe/extract/agent only ever need a finished
// response, so this never opens a streaming connection.
type AnthropicProvider struct {
	Base
	client       anthropic.Client
	defaultModel string
}

// NewAnthropicProvider validates config and returns a ready provider.
func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: APIKey is required")
	}
	if config.DefaultModel == "" {
		config.DefaultModel = "claude-sonnet-4-20250514"
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicProvider{
		Base:         NewBase("anthropic", config.MaxRetries, time.Duration(config.RetryDelay)*time.Second),
		client:       anthropic.NewClient(opts...),
		defaultModel: config.DefaultModel,
	}, nil
}

func (p *AnthropicProvider) Models() []llm.ModelInfo {
	return []llm.ModelInfo{
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", ContextWindow: 200000, SupportsVision: true},
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", ContextWindow: 200000, SupportsVision: true},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ContextWindow: 200000, SupportsVision: true},
	}
}

func (p *AnthropicProvider) SupportsTools() bool { return true }

// Chat sends req and blocks for the complete response.
func (p *AnthropicProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return models.ChatResponse{}, err
	}

	var message *anthropic.Message
	err = p.Retry(ctx, providererr.IsRetryable, func() error {
		msg, callErr := p.client.Messages.New(ctx, params)
		if callErr != nil {
			return providererr.New(p.Name(), req.Model, callErr)
		}
		message = msg
		return nil
	})
	if err != nil {
		return models.ChatResponse{}, err
	}

	return convertResponse(message), nil
}

// ChatStructured is not supported directly by this provider; the
// structured package layers schema coercion on top via a synthetic tool.
func (p *AnthropicProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, fmt.Errorf("anthropic: ChatStructured must be reached through the structured package")
}

func (p *AnthropicProvider) buildParams(req llm.ChatRequest) (anthropic.MessageNewParams, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("anthropic: %w", err)
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: int64(maxTokens),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return anthropic.MessageNewParams{}, fmt.Errorf("anthropic: %w", err)
		}
		params.Tools = tools
	}
	return params, nil
}

// convertMessages maps the uniform history onto Anthropic's content-block
// array shape: assistant tool calls become tool_use blocks, and each tool
// message becomes its own user message holding its text and a tool_result
// block.
func convertMessages(msgs []models.ChatMessage) ([]anthropic.MessageParam, error) {
	var result []anthropic.MessageParam
	for _, msg := range msgs {
		if msg.Role == models.RoleSystem {
			continue
		}

		var content []anthropic.ContentBlockParamUnion
		if msg.Content != "" {
			content = append(content, anthropic.NewTextBlock(msg.Content))
		}
		if msg.Role == models.RoleTool {
			content = append(content, anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false))
		}
		for _, call := range msg.ToolCalls {
			var input map[string]any
			if len(call.Arguments) > 0 {
				if err := json.Unmarshal(call.Arguments, &input); err != nil {
					return nil, fmt.Errorf("invalid tool call arguments for %s: %w", call.Name, err)
				}
			}
			content = append(content, anthropic.NewToolUseBlock(call.ID, input, call.Name))
		}
		if len(content) == 0 {
			continue
		}

		if msg.Role == models.RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(content...))
		} else {
			result = append(result, anthropic.NewUserMessage(content...))
		}
	}
	return result, nil
}

func convertTools(tools []models.ToolDefinition) ([]anthropic.ToolUnionParam, error) {
	var result []anthropic.ToolUnionParam
	for _, tool := range tools {
		var schema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(tool.Schema, &schema); err != nil {
			return nil, fmt.Errorf("invalid schema for tool %s: %w", tool.Name, err)
		}
		param := anthropic.ToolUnionParamOfTool(schema, tool.Name)
		if param.OfTool == nil {
			return nil, fmt.Errorf("invalid schema for tool %s: missing tool definition", tool.Name)
		}
		param.OfTool.Description = anthropic.String(tool.Description)
		result = append(result, param)
	}
	return result, nil
}

// convertResponse flattens Anthropic's content-block array back into the
// uniform ChatResponse shape: concatenated text plus any tool_use blocks.
func convertResponse(msg *anthropic.Message) models.ChatResponse {
	resp := models.ChatResponse{
		Usage: &models.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Content += variant.Text
		case anthropic.ToolUseBlock:
			resp.ToolCalls = append(resp.ToolCalls, models.ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: json.RawMessage(variant.Input),
			})
		}
	}
	return resp
}
