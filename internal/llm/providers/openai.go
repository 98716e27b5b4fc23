package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/llm/providers/providererr"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// OpenAIProvider talks to OpenAI's chat completions API. It is also the
// transport OllamaProvider reuses, pointed at a different base URL, since
// Ollama exposes an OpenAI-compatible endpoint.
type OpenAIProvider struct {
	Base
	client       *openai.Client
	defaultModel string
}

// NewOpenAIProvider returns a provider using OpenAI's public API.
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	return &OpenAIProvider{
		Base:         NewBase("openai", 0, 0),
		client:       openai.NewClient(apiKey),
		defaultModel: "gpt-4o",
	}, nil
}

// newOpenAICompatible builds an OpenAIProvider against a custom base URL,
// used by NewOllamaProvider to reuse this transport and conversion logic.
func newOpenAICompatible(name, apiKey, baseURL, defaultModel string, timeout time.Duration) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIProvider{
		Base:         NewBase(name, 0, 0),
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}
}

func (p *OpenAIProvider) Models() []llm.ModelInfo {
	return []llm.ModelInfo{
		{ID: "gpt-4o", Name: "GPT-4o", ContextWindow: 128000, SupportsVision: true},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ContextWindow: 128000, SupportsVision: true},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", ContextWindow: 16385},
	}
}

func (p *OpenAIProvider) SupportsTools() bool { return true }

func (p *OpenAIProvider) Chat(ctx context.Context, req llm.ChatRequest) (models.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertOpenAIMessages(req.Messages, req.System),
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = convertOpenAITools(req.Tools)
	}

	var result openai.ChatCompletionResponse
	err := p.Retry(ctx, providererr.IsRetryable, func() error {
		resp, callErr := p.client.CreateChatCompletion(ctx, chatReq)
		if callErr != nil {
			return providererr.New(p.Name(), model, callErr)
		}
		result = resp
		return nil
	})
	if err != nil {
		return models.ChatResponse{}, err
	}
	return convertOpenAIResponse(result), nil
}

func (p *OpenAIProvider) ChatStructured(ctx context.Context, req llm.ChatRequest, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, fmt.Errorf("openai: ChatStructured must be reached through the structured package")
}

func convertOpenAIMessages(messages []models.ChatMessage, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleTool:
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    msg.Content,
				ToolCallID: msg.ToolCallID,
			})
		case models.RoleAssistant:
			oaiMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: msg.Content}
			for _, tc := range msg.ToolCalls {
				oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				})
			}
			result = append(result, oaiMsg)
		default:
			result = append(result, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg.Content})
		}
	}
	return result
}

func convertOpenAITools(tools []models.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		var schemaMap map[string]any
		if err := json.Unmarshal(tool.Schema, &schemaMap); err != nil {
			schemaMap = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  schemaMap,
			},
		}
	}
	return result
}

func convertOpenAIResponse(resp openai.ChatCompletionResponse) models.ChatResponse {
	out := models.ChatResponse{
		Usage: &models.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return out
	}
	choice := resp.Choices[0].Message
	out.Content = choice.Content
	for _, tc := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out
}
