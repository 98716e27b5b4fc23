package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/handlers"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/script"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// codeBlockPattern extracts fenced ```python ... ``` blocks from a model
// response.
var codeBlockPattern = regexp.MustCompile("(?s)```python\\s*\\n(.*?)```")

func extractCodeBlocks(text string) []string {
	matches := codeBlockPattern.FindAllStringSubmatch(text, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

const defaultSubQueryBudget = 5
const defaultSubQueryTimeout = 30 * time.Second

// REPLAgent is the core autonomous loop: the model writes code in ```python
// blocks against a persistent namespace seeded with live bridge objects and
// memory utilities, plus done/final_value to signal completion and
// llm_query/llm_query_batched to ask the model a sub-question mid-script.
//
// Unlike ToolLoopAgent, there is no fixed tool catalogue — the model's only
// surface is the code it writes.
type REPLAgent struct {
	provider llm.Provider
	dbg      *bridge.Debugger
	engine   *script.Engine
	compact  CompactionConfig
	onExec   models.ExecutionEventCallback

	maxIterations int
	subQueryBudget int

	mu           sync.Mutex
	done         bool
	result       string
	blocksRun    int
	subQueries   int
	iterations   []models.ReplIteration
	finalValName string
	persistent   bool
	history      []models.ChatMessage
	toolDocs     [][2]string
}

// NewREPLAgent returns a REPL agent with its own persistent script engine,
// seeded with dbg's bridge handles plus done/final_value/llm_query/
// llm_query_batched. tools/toolDescriptions (either may be nil) are
// injected as additional scaffold entries and documented in the system
// prompt's Custom Tools section; injecting a name that shadows a reserved
// or REPL scaffold name fails construction.
func NewREPLAgent(provider llm.Provider, dbg *bridge.Debugger, maxIterations int, subQueryBudget int, persistent bool, tools map[string]script.Value, toolDescriptions map[string]string, onExec models.ExecutionEventCallback) (*REPLAgent, error) {
	if maxIterations <= 0 {
		maxIterations = 30
	}
	if subQueryBudget <= 0 {
		subQueryBudget = defaultSubQueryBudget
	}
	engine := script.NewEngine()
	engine.OnExecutionEvent(onExec)

	a := &REPLAgent{
		provider:       provider,
		dbg:            dbg,
		engine:         engine,
		compact:        DefaultCompactionConfig(),
		onExec:         onExec,
		maxIterations:  maxIterations,
		subQueryBudget: subQueryBudget,
		persistent:     persistent,
	}
	a.seed()

	if len(tools) > 0 {
		docs, err := a.engine.Namespace().InjectTools(tools, toolDescriptions)
		if err != nil {
			return nil, fmt.Errorf("agent: injecting tools: %w", err)
		}
		a.toolDocs = docs
	}
	return a, nil
}

func (a *REPLAgent) seed() {
	handlers.SeedEngine(a.engine, a.dbg)
	ns := a.engine.Namespace()

	ns.Seed("done", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		result := ""
		if len(args) > 0 {
			result = reflectString(args[0])
		}
		return reflect.Value{}, script.NewDoneSignal(result)
	}))
	ns.Seed("final_value", script.OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		if len(args) == 0 {
			return reflect.Value{}, fmt.Errorf("final_value(name) requires one argument")
		}
		return reflect.Value{}, script.NewFinalValueSignal(reflectString(args[0]))
	}))
	ns.Seed("llm_query", script.OfCallable(a.llmQuery))
	ns.Seed("llm_query_batched", script.OfCallable(a.llmQueryBatched))
}

func reflectString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

// llmQuery is the llm_query(prompt, timeout_seconds?) scaffold callable: a
// single synchronous sub-question counted against the per-iteration budget.
func (a *REPLAgent) llmQuery(args []reflect.Value) (reflect.Value, error) {
	if len(args) == 0 {
		return reflect.Value{}, fmt.Errorf("llm_query(prompt, timeout?) requires at least one argument")
	}
	prompt := reflectString(args[0])
	timeout := defaultSubQueryTimeout
	if len(args) > 1 && args[1].IsValid() {
		timeout = time.Duration(asSeconds(args[1])) * time.Second
	}

	a.mu.Lock()
	if a.subQueries >= a.subQueryBudget {
		a.mu.Unlock()
		return reflect.Value{}, &script.BudgetExceededError{Limit: a.subQueryBudget}
	}
	a.subQueries++
	a.mu.Unlock()

	a.emit(models.ExecutionEvent{Type: models.EventSubQuery, Metadata: map[string]any{"prompt": prompt}})

	result, err := a.chatOnce(prompt, timeout)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(result), nil
}

// llmQueryBatched is llm_query_batched(prompts, timeout_seconds?): up to 5
// sub-queries dispatched concurrently, multi-counted against the same
// budget.
func (a *REPLAgent) llmQueryBatched(args []reflect.Value) (reflect.Value, error) {
	if len(args) == 0 || args[0].Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("llm_query_batched(prompts, timeout?) requires a list of prompts")
	}
	promptsVal := args[0]
	n := promptsVal.Len()
	if n > 5 {
		return reflect.Value{}, fmt.Errorf("llm_query_batched: at most 5 concurrent sub-queries, got %d", n)
	}
	timeout := 60 * time.Second
	if len(args) > 1 && args[1].IsValid() {
		timeout = time.Duration(asSeconds(args[1])) * time.Second
	}

	a.mu.Lock()
	if a.subQueries+n > a.subQueryBudget {
		a.mu.Unlock()
		return reflect.Value{}, &script.BudgetExceededError{Limit: a.subQueryBudget}
	}
	a.subQueries += n
	a.mu.Unlock()

	prompts := make([]string, n)
	for i := 0; i < n; i++ {
		prompts[i] = reflectString(promptsVal.Index(i))
	}

	results := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, p := range prompts {
		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()
			a.emit(models.ExecutionEvent{Type: models.EventSubQuery, Metadata: map[string]any{"prompt": prompt, "batched": true}})
			res, err := a.chatOnce(prompt, timeout)
			results[i], errs[i] = res, err
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return reflect.Value{}, err
		}
	}
	return reflect.ValueOf(results), nil
}

func (a *REPLAgent) chatOnce(prompt string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	resp, err := a.provider.Chat(ctx, llm.ChatRequest{Messages: []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}})
	if err != nil {
		return "", fmt.Errorf("llm_query: %w", err)
	}
	return resp.Content, nil
}

func asSeconds(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return int64(v.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	default:
		return 0
	}
}

func (a *REPLAgent) emit(ev models.ExecutionEvent) {
	if a.onExec != nil {
		a.onExec(ev)
	}
}

// Run executes task through the core loop until done/final_value is
// signaled or maxIterations is exhausted.
func (a *REPLAgent) Run(ctx context.Context, task string) (models.ReplResult, error) {
	systemPrompt := fmt.Sprintf(replSystemPromptTemplate, a.subQueryBudget, formatCustomToolsSection(a.toolDocs), task)

	a.mu.Lock()
	a.done = false
	a.result = ""
	a.finalValName = ""
	a.mu.Unlock()

	var messages []models.ChatMessage
	if a.persistent && len(a.history) > 0 {
		messages = append(a.history, models.ChatMessage{Role: models.RoleUser, Content: "New task:\n" + task})
	} else {
		messages = []models.ChatMessage{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: "Begin working on the task:\n" + task},
		}
	}

	for step := 1; step <= a.maxIterations; step++ {
		if needsCompaction(messages, a.compact) {
			compacted, err := compactHistory(ctx, a.provider, messages, a.compact)
			if err == nil {
				messages = compacted
			}
		}

		a.mu.Lock()
		a.subQueries = 0
		a.mu.Unlock()
		a.emit(models.ExecutionEvent{Type: models.EventReplStep, Metadata: map[string]any{"step": step, "max_iterations": a.maxIterations}})

		resp, err := a.provider.Chat(ctx, llm.ChatRequest{Messages: messages})
		if err != nil {
			return models.ReplResult{}, err
		}
		content := resp.Content

		a.emit(models.ExecutionEvent{Type: models.EventLLMResponse, Metadata: map[string]any{"content": content, "step": step}})
		messages = append(messages, models.ChatMessage{Role: models.RoleAssistant, Content: content})

		blocks := extractCodeBlocks(content)
		if len(blocks) == 0 {
			messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: replNudge})
			continue
		}

		iteration := models.ReplIteration{Step: step, Response: content}
		iterStart := time.Now()

		var parts []string
		for _, code := range blocks {
			blockStart := time.Now()
			before := a.currentSubQueries()

			handlers.SeedEngine(a.engine, a.dbg)
			res := a.engine.Execute(code)
			a.blocksRun++

			iteration.CodeBlocks = append(iteration.CodeBlocks, models.CodeBlock{
				Code:       code,
				Stdout:     res.Stdout,
				Stderr:     res.Stderr,
				Success:    res.Success,
				Duration:   time.Since(blockStart),
				SubQueries: a.currentSubQueries() - before,
			})

			parts = append(parts, formatBlockResult(code, res))

			if res.Done {
				a.mu.Lock()
				a.done = true
				if res.HasFinalValue {
					a.finalValName = res.FinalValueName
					a.result = describeFinalValue(res.FinalValue)
				} else {
					a.result = res.DoneResult
				}
				a.mu.Unlock()
				break
			}
		}
		iteration.Duration = time.Since(iterStart)
		a.iterations = append(a.iterations, iteration)

		feedback := "Execution results:\n\n" + strings.Join(parts, "\n")
		remaining := a.maxIterations - step
		if remaining <= 2 && !a.isDone() {
			feedback += "\n\n" + replWrapUp
		}
		messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: feedback})

		if a.isDone() {
			if a.persistent {
				a.history = messages
			}
			return a.buildResult(), nil
		}
	}

	return models.ReplResult{
		Result:             "Max iterations reached without done() being called.",
		Steps:              a.maxIterations,
		CodeBlocksExecuted: a.blocksRun,
		Variables:          a.engine.Namespace().SnapshotVariables(),
		Iterations:         a.iterations,
	}, nil
}

func (a *REPLAgent) isDone() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

func (a *REPLAgent) currentSubQueries() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.subQueries
}

func (a *REPLAgent) buildResult() models.ReplResult {
	result := models.ReplResult{
		Result:             a.result,
		Steps:              len(a.iterations),
		CodeBlocksExecuted: a.blocksRun,
		Variables:          a.engine.Namespace().SnapshotVariables(),
		Iterations:         a.iterations,
	}
	if a.finalValName != "" {
		if v, ok := a.engine.Namespace().Get(a.finalValName); ok {
			if raw, err := json.Marshal(describeFinalValueRaw(v)); err == nil {
				result.FinalValue = raw
			}
		}
	}
	return result
}

// describeFinalValue renders a final_value() result as the REPL result's
// string message when the caller only looks at Result.
func describeFinalValue(v script.Value) string {
	return v.Repr()
}

// describeFinalValueRaw returns the underlying Go value for JSON
// marshaling; JSON-serializable types pass through, anything else falls
// back to its string representation.
func describeFinalValueRaw(v script.Value) any {
	if !v.Raw.IsValid() {
		return nil
	}
	iface := v.Raw.Interface()
	if _, err := json.Marshal(iface); err == nil {
		return iface
	}
	return v.Repr()
}

func formatBlockResult(code string, res script.Result) string {
	part := "```python\n" + code + "```\n"
	hasStdout := strings.TrimSpace(res.Stdout) != ""
	hasStderr := strings.TrimSpace(res.Stderr) != ""
	if hasStdout {
		part += "stdout:\n```\n" + res.Stdout + "\n```\n"
	}
	if hasStderr {
		part += "stderr:\n```\n" + res.Stderr + "\n```\n"
	}
	if !hasStdout && !hasStderr {
		part += "(no output)\n"
	}
	return part
}
