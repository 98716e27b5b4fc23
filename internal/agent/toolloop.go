package agent

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/contextbuilder"
	"github.com/ant4g0nist/morgul/internal/handlers"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// ToolLoopAgent is the simpler of the two autonomous forms: a fixed
// seven-tool catalogue driven by whatever tool-use surface the underlying
// provider offers, as opposed to the REPL agent's open-ended code writing.
//
// Loop: inject a strategy-specific system prompt plus the current snapshot,
// call the model with the tool catalogue, execute any returned tool calls
// in order (one assistant message carrying all calls, then one tool-result
// message per call — required by every provider's wire protocol), yield a
// step per call, and refresh the snapshot before the next turn.
type ToolLoopAgent struct {
	provider   llm.Provider
	dbg        *bridge.Debugger
	actHandler *handlers.ActHandler
	strategy   Strategy
	maxSteps   int
	timeout    time.Duration
	onStep     func(models.AgentStep)
}

// NewToolLoopAgent returns a tool-loop agent bound to dbg and driven by
// provider, executing "act" tool calls via actHandler.
func NewToolLoopAgent(provider llm.Provider, dbg *bridge.Debugger, actHandler *handlers.ActHandler, strategy Strategy, maxSteps int, timeout time.Duration, onStep func(models.AgentStep)) *ToolLoopAgent {
	if maxSteps <= 0 {
		maxSteps = 50
	}
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &ToolLoopAgent{
		provider:   provider,
		dbg:        dbg,
		actHandler: actHandler,
		strategy:   strategy,
		maxSteps:   maxSteps,
		timeout:    timeout,
		onStep:     onStep,
	}
}

// Run executes task to completion, timeout, or the step limit, returning
// every step taken.
func (a *ToolLoopAgent) Run(ctx context.Context, task string) ([]models.AgentStep, error) {
	var steps []models.AgentStep

	systemPrompt := fmt.Sprintf(toolLoopSystemPromptTemplate, a.strategy, StrategyDescription(a.strategy), task, a.maxSteps)
	messages := []models.ChatMessage{{Role: models.RoleSystem, Content: systemPrompt}}

	contextText, err := a.snapshotText(ctx)
	if err != nil {
		return nil, err
	}
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: "Current process state:\n" + contextText + "\n\nBegin working on the task.",
	})

	start := time.Now()

	for stepNum := 1; stepNum <= a.maxSteps; stepNum++ {
		if time.Since(start) > a.timeout {
			break
		}

		resp, err := a.provider.Chat(ctx, llm.ChatRequest{Messages: messages, Tools: ToolCatalogue})
		if err != nil {
			return steps, err
		}

		if len(resp.ToolCalls) > 0 {
			type toolResult struct {
				id, name, result string
			}
			var results []toolResult
			done := false

			for _, call := range resp.ToolCalls {
				result := a.executeTool(ctx, call.Name, call.Arguments)
				results = append(results, toolResult{call.ID, call.Name, result})

				step := models.AgentStep{
					StepNumber:  stepNum,
					Action:      fmt.Sprintf("%s(%s)", call.Name, string(call.Arguments)),
					Observation: result,
					Reasoning:   resp.Content,
				}
				steps = append(steps, step)
				a.emit(step)

				if call.Name == "done" {
					done = true
				}
			}

			if done {
				return steps, nil
			}

			messages = append(messages, models.ChatMessage{Role: models.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
			for _, r := range results {
				messages = append(messages, models.ChatMessage{Role: models.RoleTool, Content: r.result, ToolCallID: r.id})
			}

			contextText, err = a.snapshotText(ctx)
			if err != nil {
				return steps, err
			}
			messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: "Updated process state:\n" + contextText})
		} else {
			step := models.AgentStep{StepNumber: stepNum, Action: "think", Observation: resp.Content, Reasoning: resp.Content}
			steps = append(steps, step)
			a.emit(step)

			messages = append(messages, models.ChatMessage{Role: models.RoleAssistant, Content: resp.Content})
			messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: "Continue with the task. Use tools to make progress."})
		}
	}

	return steps, nil
}

func (a *ToolLoopAgent) emit(step models.AgentStep) {
	if a.onStep != nil {
		a.onStep(step)
	}
}

func (a *ToolLoopAgent) snapshotText(ctx context.Context) (string, error) {
	var frame *bridge.Frame
	if a.dbg.Process() != nil && a.dbg.Process().SelectedThread() != nil {
		frame = a.dbg.Process().SelectedThread().SelectedFrame()
	}
	snapshot, err := contextbuilder.Build(ctx, a.dbg, frame, contextbuilder.BuildOptions{DisassemblyCount: 20})
	if err != nil {
		return "", fmt.Errorf("agent: building context: %w", err)
	}
	snapshot = contextbuilder.Prune(snapshot, contextbuilder.DefaultTokenBudget)
	return contextbuilder.FormatForPrompt(snapshot), nil
}

// executeTool runs one tool call and returns its string result, matching
// the original's "error string, not propagated failure" handling — a tool
// failure becomes the model's next observation rather than aborting the run.
func (a *ToolLoopAgent) executeTool(ctx context.Context, name string, rawArgs json.RawMessage) string {
	var args map[string]any
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return fmt.Sprintf("Error executing %s: invalid arguments: %v", name, err)
		}
	}

	result, err := a.dispatchTool(ctx, name, args)
	if err != nil {
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return result
}

func (a *ToolLoopAgent) dispatchTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "act":
		instruction, _ := args["instruction"].(string)
		result, err := a.actHandler.Act(ctx, instruction, a.dbg)
		if err != nil {
			return "", err
		}
		if !result.Success {
			return "Error: " + result.Message, nil
		}
		return result.Output, nil

	case "set_breakpoint":
		location, _ := args["location"].(string)
		if a.dbg.Target() == nil {
			return "", fmt.Errorf("no target")
		}
		var bp *bridge.Breakpoint
		var err error
		if strings.HasPrefix(location, "0x") {
			addr, perr := strconv.ParseUint(strings.TrimPrefix(location, "0x"), 16, 64)
			if perr != nil {
				return "", fmt.Errorf("invalid address %q: %w", location, perr)
			}
			bp, err = a.dbg.Target().BreakpointByAddress(ctx, addr)
		} else {
			bp, err = a.dbg.Target().BreakpointByName(ctx, location)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Breakpoint %s set at %s", bp.ID, location), nil

	case "read_memory":
		addrStr, _ := args["address"].(string)
		addr, perr := strconv.ParseUint(strings.TrimPrefix(addrStr, "0x"), 16, 64)
		if perr != nil {
			return "", fmt.Errorf("invalid address %q: %w", addrStr, perr)
		}
		size := 64
		if raw, ok := args["size"].(float64); ok {
			size = int(raw)
		}
		if a.dbg.Process() == nil {
			return "", fmt.Errorf("no process")
		}
		data, err := a.dbg.Process().ReadMemory(ctx, addr, size)
		if err != nil {
			return "", err
		}
		formatted := formatHexBytes(data)
		return fmt.Sprintf("Memory at %s (%d bytes):\n%s", addrStr, size, formatted), nil

	case "step":
		mode, _ := args["mode"].(string)
		if mode == "" {
			mode = "over"
		}
		if a.dbg.Process() == nil || a.dbg.Process().SelectedThread() == nil {
			return "", fmt.Errorf("no selected thread")
		}
		if err := a.dbg.Process().SelectedThread().Step(ctx, bridge.StepMode(mode)); err != nil {
			return "", err
		}
		return "Stepped " + mode, nil

	case "continue_execution":
		if a.dbg.Process() == nil {
			return "", fmt.Errorf("no process")
		}
		if err := a.dbg.Process().Continue(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("Process continued, state: %s", a.dbg.Process().State()), nil

	case "evaluate":
		expr, _ := args["expression"].(string)
		if a.dbg.Process() == nil || a.dbg.Process().SelectedThread() == nil || a.dbg.Process().SelectedThread().SelectedFrame() == nil {
			return "", fmt.Errorf("no selected frame")
		}
		result, err := a.dbg.Process().SelectedThread().SelectedFrame().EvaluateExpression(ctx, expr)
		if err != nil {
			return "", err
		}
		return "Result: " + result, nil

	case "done":
		result, _ := args["result"].(string)
		if result == "" {
			result = "Task completed"
		}
		return result, nil

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func formatHexBytes(data []byte) string {
	encoded := hex.EncodeToString(data)
	var b strings.Builder
	for i := 0; i < len(encoded); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(encoded[i : i+2])
	}
	return b.String()
}
