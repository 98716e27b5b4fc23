// Package structured layers schema-constrained output on top of a plain
// llm.Provider. Providers that support tool use get a synthetic tool named
// "extract_<schema-name>" that the model is steered to call exactly once;
// providers without tool support get the schema folded into the system
// prompt and the response text parsed as JSON instead.
package structured

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// Extractor validates and decodes a model response against a fixed schema.
type Extractor struct {
	provider   llm.Provider
	schemaName string
	schema     json.RawMessage
	compiled   *jsonschema.Schema
}

// New compiles schema once and returns an Extractor bound to schemaName. An
// invalid schema fails here rather than on every call.
func New(provider llm.Provider, schemaName string, schema json.RawMessage) (*Extractor, error) {
	compiled, err := compile(schemaName, schema)
	if err != nil {
		return nil, fmt.Errorf("structured: invalid schema %s: %w", schemaName, err)
	}
	return &Extractor{provider: provider, schemaName: schemaName, schema: schema, compiled: compiled}, nil
}

func compile(name string, schema json.RawMessage) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name+".json", stringsReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(name + ".json")
}

// Extract runs req against the bound schema, returning the decoded JSON
// result. If the provider supports tools, the synthetic extraction tool is
// appended and its first invocation's arguments are taken as the result. If
// the model never calls it (or the provider lacks tool support), the
// response text is parsed and validated as a fallback.
func (e *Extractor) Extract(ctx context.Context, req llm.ChatRequest) (json.RawMessage, error) {
	toolName := "extract_" + e.schemaName
	if e.provider.SupportsTools() {
		req.Tools = append(append([]models.ToolDefinition{}, req.Tools...), models.ToolDefinition{
			Name:        toolName,
			Description: "Records the extracted " + e.schemaName + " result. Call this exactly once with the final answer.",
			Schema:      e.schema,
		})
	} else {
		if req.System != "" {
			req.System += "\n\n"
		}
		req.System += "Respond with only a JSON value that satisfies this JSON Schema:\n" + string(e.schema)
	}

	resp, err := e.provider.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, call := range resp.ToolCalls {
		if call.Name != toolName {
			continue
		}
		if err := e.validate(call.Arguments); err != nil {
			return nil, fmt.Errorf("structured: %s result failed validation: %w", e.schemaName, err)
		}
		return call.Arguments, nil
	}

	return e.fallbackParse(resp.Content)
}

// fallbackParse is the two-shape fallback: the response may be bare JSON,
// or JSON embedded in a larger text block (e.g. inside a markdown fence or
// prose) that must be located before parsing.
func (e *Extractor) fallbackParse(text string) (json.RawMessage, error) {
	candidate := extractJSONObject(text)
	if candidate == nil {
		return nil, fmt.Errorf("structured: %s response contained no JSON", e.schemaName)
	}
	if err := e.validate(candidate); err != nil {
		return nil, fmt.Errorf("structured: %s fallback JSON failed validation: %w", e.schemaName, err)
	}
	return candidate, nil
}

func (e *Extractor) validate(raw json.RawMessage) error {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	return e.compiled.Validate(decoded)
}
