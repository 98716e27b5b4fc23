package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ant4g0nist/morgul/internal/cache"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/llm/structured"
	"github.com/ant4g0nist/morgul/pkg/models"
)

var actResponseSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"code": {"type": "string"},
		"actions": {"type": "array", "items": {"type": "object", "properties": {
			"command": {"type": "string"}, "code": {"type": "string"}, "description": {"type": "string"}
		}}},
		"reasoning": {"type": "string"}
	}
}`)

var observeResponseSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"description": {"type": "string"},
		"actions": {"type": "array", "items": {"type": "object", "properties": {
			"command": {"type": "string"}, "code": {"type": "string"}, "description": {"type": "string"}
		}}}
	},
	"required": ["description", "actions"]
}`)

// Engine translates natural language into code (act), ranked suggestions
// (observe), or schema-validated data (extract). Caching for act() is
// handled by the caller (the act handler) after execution succeeds, not
// here, since generated code may fail and require self-healing first.
type Engine struct {
	provider llm.Provider
	cache    *cache.Cache
	logger   *slog.Logger
}

// New returns an Engine. A nil cache disables observe/extract caching.
func New(provider llm.Provider, c *cache.Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{provider: provider, cache: c, logger: logger}
}

// Translate turns instruction into a code fragment given the rendered
// context text.
func (e *Engine) Translate(ctx context.Context, instruction, contextText string) (models.TranslateResponse, error) {
	prompt := fmt.Sprintf(actPromptTemplate, contextText, instruction)
	req := llm.ChatRequest{Messages: []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}}

	ex, err := structured.New(e.provider, "act_response", actResponseSchema)
	if err == nil {
		if raw, err := ex.Extract(ctx, req); err == nil {
			var resp models.TranslateResponse
			if json.Unmarshal(raw, &resp) == nil {
				return resp, nil
			}
		}
	}

	e.logger.Warn("structured translate failed, falling back to raw chat")
	chatResp, err := e.provider.Chat(ctx, req)
	if err != nil {
		return models.TranslateResponse{}, fmt.Errorf("translate: raw chat fallback failed: %w", err)
	}
	return parseRawActResponse(chatResp.Content), nil
}

// TranslateExtract extracts structured data matching schema, consulting and
// populating the cache first when one is configured.
func (e *Engine) TranslateExtract(ctx context.Context, instruction, contextText, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	compute := func() (json.RawMessage, error) {
		prompt := fmt.Sprintf(extractPromptTemplate, contextText, instruction, indentJSON(schema))
		req := llm.ChatRequest{Messages: []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}}

		ex, err := structured.New(e.provider, schemaName, schema)
		if err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
		return ex.Extract(ctx, req)
	}

	if e.cache == nil {
		return compute()
	}

	key := cache.Key(instruction, contextText, schemaName+"_extract")
	var cached json.RawMessage
	if e.cache.Get(key, &cached) {
		e.logger.Info("cache hit", "key", key)
		return cached, nil
	}

	v, err := e.cache.Coalesce(key, func() (any, bool, error) {
		result, err := compute()
		if err != nil {
			return nil, false, err
		}
		return result, true, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// TranslateObserve generates ranked suggested actions for the current
// state. instruction, if non-empty, focuses the suggestions.
func (e *Engine) TranslateObserve(ctx context.Context, contextText, instruction string) (models.ObserveResult, error) {
	compute := func() (models.ObserveResult, error) {
		instructionSection := ""
		if instruction != "" {
			instructionSection = "## User Focus\n" + instruction
		}
		prompt := fmt.Sprintf(observePromptTemplate, contextText, instructionSection)
		req := llm.ChatRequest{Messages: []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}}

		var result models.ObserveResult
		ex, err := structured.New(e.provider, "observe_result", observeResponseSchema)
		if err == nil {
			if raw, err := ex.Extract(ctx, req); err == nil {
				if json.Unmarshal(raw, &result) != nil {
					result = models.ObserveResult{}
				}
			}
		}
		if result.Description == "" && len(result.Actions) == 0 {
			e.logger.Warn("structured observe failed, falling back to raw chat")
			chatResp, err := e.provider.Chat(ctx, req)
			if err != nil {
				return models.ObserveResult{}, fmt.Errorf("translate: observe raw chat fallback failed: %w", err)
			}
			result = parseRawObserveResponse(chatResp.Content)
		}
		return result, nil
	}

	if e.cache == nil {
		return compute()
	}

	key := cache.Key(contextText, instruction, "observe")
	var cached models.ObserveResult
	if e.cache.Get(key, &cached) {
		e.logger.Info("cache hit", "key", key)
		return cached, nil
	}

	v, err := e.cache.Coalesce(key, func() (any, bool, error) {
		result, err := compute()
		if err != nil {
			return models.ObserveResult{}, false, err
		}
		return result, true, nil
	})
	if err != nil {
		return models.ObserveResult{}, err
	}
	return v.(models.ObserveResult), nil
}

// parseRawActResponse implements the two-shape fallback parser: the modern
// single-"code"-field shape, or the legacy "actions" list shape, decoded
// from the span between the first '{' and the last '}' in free text.
func parseRawActResponse(content string) models.TranslateResponse {
	data := locateJSONObject(content)
	if data == nil {
		return models.TranslateResponse{Code: strings.TrimSpace(content), Reasoning: "failed to parse structured response"}
	}

	if code, ok := data["code"].(string); ok {
		reasoning, _ := data["reasoning"].(string)
		return models.TranslateResponse{Code: code, Reasoning: reasoning}
	}

	actions := parseActionList(data["actions"])
	reasoning, _ := data["reasoning"].(string)
	return models.TranslateResponse{Actions: actions, Reasoning: reasoning}
}

func parseRawObserveResponse(content string) models.ObserveResult {
	data := locateJSONObject(content)
	if data == nil {
		return models.ObserveResult{Actions: nil, Description: "failed to parse observation"}
	}
	description, _ := data["description"].(string)
	return models.ObserveResult{Description: description, Actions: parseActionList(data["actions"])}
}

func parseActionList(raw any) []models.Action {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	actions := make([]models.Action, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cmd, _ := m["command"].(string)
		code, _ := m["code"].(string)
		desc, _ := m["description"].(string)
		actions = append(actions, models.Action{Command: cmd, Code: code, Description: desc})
	}
	return actions
}

// locateJSONObject finds the first '{' ... last '}' span in text and
// decodes it as a JSON object, returning nil if that span isn't valid JSON.
func locateJSONObject(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return nil
	}
	return data
}

func indentJSON(raw json.RawMessage) string {
	var buf strings.Builder
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
