package models

import (
	"encoding/json"
	"time"
)

// CodeBlock is one fragment of model-authored code plus its captured result.
type CodeBlock struct {
	Code        string        `json:"code"`
	Stdout      string        `json:"stdout"`
	Stderr      string        `json:"stderr"`
	Success     bool          `json:"success"`
	Duration    time.Duration `json:"duration"`
	SubQueries  int           `json:"sub_queries"`
}

// ReplIteration is one turn of the REPL agent's core loop.
type ReplIteration struct {
	Step       int           `json:"step"`
	Response   string        `json:"response"`
	CodeBlocks []CodeBlock   `json:"code_blocks"`
	Duration   time.Duration `json:"duration"`
}

// ReplResult is the terminal outcome of a REPL agent run.
type ReplResult struct {
	Result            string            `json:"result"`
	Steps             int               `json:"steps"`
	CodeBlocksExecuted int              `json:"code_blocks_executed"`
	Variables         map[string]string `json:"variables"`
	Iterations        []ReplIteration   `json:"iterations"`
	FinalValue        json.RawMessage   `json:"final_value,omitempty"`
}

// AgentStep is one step of the tool-loop agent's run.
type AgentStep struct {
	StepNumber  int    `json:"step_number"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
	Reasoning   string `json:"reasoning,omitempty"`
}
