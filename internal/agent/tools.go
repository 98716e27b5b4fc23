package agent

import (
	"encoding/json"

	"github.com/ant4g0nist/morgul/pkg/models"
)

func toolSchema(schema string) json.RawMessage {
	return json.RawMessage(schema)
}

// ToolCatalogue is the fixed seven-tool set the tool-loop agent exposes to
// the model: act, set_breakpoint, read_memory, step, continue_execution,
// evaluate, done. Names and schemas are stable — callers that inspect agent
// output by tool name can rely on them never changing shape.
var ToolCatalogue = []models.ToolDefinition{
	{
		Name:        "act",
		Description: "Execute a natural language debugging action. Translates the instruction into bridge API code and runs it.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"instruction": {"type": "string", "description": "Natural language instruction describing what to do"}
			},
			"required": ["instruction"]
		}`),
	},
	{
		Name:        "set_breakpoint",
		Description: "Set a breakpoint at a function name or memory address.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"location": {"type": "string", "description": "Function name or hex address (e.g. 'main' or '0x100003f00')"}
			},
			"required": ["location"]
		}`),
	},
	{
		Name:        "read_memory",
		Description: "Read memory at a given address.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"address": {"type": "string", "description": "Hex address to read from"},
				"size": {"type": "integer", "description": "Number of bytes to read", "default": 64}
			},
			"required": ["address"]
		}`),
	},
	{
		Name:        "step",
		Description: "Step execution by one instruction or line.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"mode": {"type": "string", "enum": ["over", "into", "out", "instruction"], "default": "over"}
			}
		}`),
	},
	{
		Name:        "continue_execution",
		Description: "Continue process execution until the next breakpoint or stop.",
		Schema:      toolSchema(`{"type": "object", "properties": {}}`),
	},
	{
		Name:        "evaluate",
		Description: "Evaluate an expression in the current frame context.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"expression": {"type": "string", "description": "Expression to evaluate"}
			},
			"required": ["expression"]
		}`),
	},
	{
		Name:        "done",
		Description: "Signal that the task is complete and provide the final result.",
		Schema: toolSchema(`{
			"type": "object",
			"properties": {
				"result": {"type": "string", "description": "Summary of findings and conclusions"}
			},
			"required": ["result"]
		}`),
	},
}
