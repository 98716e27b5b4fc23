package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/cache"
	"github.com/ant4g0nist/morgul/internal/contextbuilder"
	"github.com/ant4g0nist/morgul/internal/script"
	"github.com/ant4g0nist/morgul/internal/translate"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// ActHandler translates a natural-language instruction into code and
// executes it against the bridge API.
//
// Pipeline: build context -> translate instruction to code -> execute via a
// persistent script.Engine -> on failure (with self-heal enabled) feed the
// traceback back to the model and retry with an alternative approach.
type ActHandler struct {
	translator *translate.Engine
	engine     *script.Engine
	cache      *cache.Cache
	selfHeal   bool
	maxRetries int
	onExec     models.ExecutionEventCallback
	logger     *slog.Logger
}

// NewActHandler returns a handler with its own persistent script engine, so
// variables defined by one act() call are visible to the next.
func NewActHandler(translator *translate.Engine, c *cache.Cache, selfHeal bool, maxRetries int, onExec models.ExecutionEventCallback, logger *slog.Logger) *ActHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	engine := script.NewEngine()
	engine.OnExecutionEvent(onExec)
	return &ActHandler{
		translator: translator,
		engine:     engine,
		cache:      c,
		selfHeal:   selfHeal,
		maxRetries: maxRetries,
		onExec:     onExec,
		logger:     logger,
	}
}

// Act executes instruction against dbg's current state.
func (h *ActHandler) Act(ctx context.Context, instruction string, dbg *bridge.Debugger) (models.ActResult, error) {
	contextText, err := h.buildContext(ctx, dbg)
	if err != nil {
		return models.ActResult{}, err
	}

	// compute runs the full translate -> execute -> (maybe) self-heal
	// pipeline once; cacheable reports whether the result is worth storing
	// (only a successful, possibly healed, execution is).
	compute := func() (models.ActResult, bool, error) {
		resp, err := h.translator.Translate(ctx, instruction, contextText)
		if err != nil {
			return models.ActResult{}, false, err
		}

		if resp.Reasoning != "" {
			h.emit(models.ExecutionEvent{Type: models.EventLLMResponse, Metadata: map[string]any{"content": resp.Reasoning}})
		}

		code := codeFromResponse(resp)
		if code == "" {
			return models.ActResult{Success: false, Message: "no code generated from instruction", Actions: resp.Actions}, false, nil
		}

		SeedEngine(h.engine, dbg)
		res := h.engine.Execute(code)
		output := joinOutput(res.Stdout, res.Stderr)

		if !res.Success && h.selfHeal {
			if healed := h.tryHeal(ctx, instruction, dbg, code, res.Stderr); healed != nil {
				return *healed, true, nil
			}
		}

		return models.ActResult{Success: res.Success, Message: resp.Reasoning, Actions: resp.Actions, Output: output}, res.Success, nil
	}

	if h.cache == nil {
		result, _, err := compute()
		return result, err
	}

	key := cache.Key(instruction, contextText, "act")
	var cached models.ActResult
	if h.cache.Get(key, &cached) {
		h.logger.Info("cache hit", "key", key)
		h.emit(models.ExecutionEvent{Type: models.EventCacheHit, Metadata: map[string]any{"purpose": "act"}})
		return cached, nil
	}

	v, err := h.cache.Coalesce(key, func() (any, bool, error) {
		return compute()
	})
	if err != nil {
		return models.ActResult{}, err
	}
	return v.(models.ActResult), nil
}

// tryHeal retries translation and execution up to maxRetries times, each
// time appending the previous failure's code and error to the instruction
// so the model can propose an alternative approach.
func (h *ActHandler) tryHeal(ctx context.Context, original string, dbg *bridge.Debugger, failedCode, errText string) *models.ActResult {
	for attempt := 1; attempt <= h.maxRetries; attempt++ {
		h.emit(models.ExecutionEvent{
			Type:     models.EventHealStart,
			Code:     failedCode,
			Stderr:   errText,
			Metadata: map[string]any{"attempt": attempt, "max_retries": h.maxRetries},
		})

		contextText, err := h.buildContext(ctx, dbg)
		if err != nil {
			return nil
		}

		healInstruction := original + "\n\nPrevious attempt failed:\n  Code:\n" + failedCode +
			"\n  Error:\n" + errText + "\nPlease try an alternative approach."

		resp, err := h.translator.Translate(ctx, healInstruction, contextText)
		if err != nil {
			continue
		}
		code := codeFromResponse(resp)
		if code == "" {
			continue
		}

		SeedEngine(h.engine, dbg)
		res := h.engine.Execute(code)
		h.emit(models.ExecutionEvent{
			Type:     models.EventHealEnd,
			Code:     code,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Success:  res.Success,
			Metadata: map[string]any{"attempt": attempt},
		})

		if res.Success {
			return &models.ActResult{
				Success: true,
				Message: "healed on attempt " + strconv.Itoa(attempt) + ": " + resp.Reasoning,
				Actions: resp.Actions,
				Output:  joinOutput(res.Stdout, res.Stderr),
			}
		}
		failedCode, errText = code, res.Stderr
	}
	return nil
}

func (h *ActHandler) buildContext(ctx context.Context, dbg *bridge.Debugger) (string, error) {
	var frame *bridge.Frame
	if dbg.Process() != nil && dbg.Process().SelectedThread() != nil {
		frame = dbg.Process().SelectedThread().SelectedFrame()
	}
	snapshot, err := contextbuilder.Build(ctx, dbg, frame, contextbuilder.BuildOptions{DisassemblyCount: 20})
	if err != nil {
		return "", fmt.Errorf("act: building context: %w", err)
	}
	snapshot = contextbuilder.Prune(snapshot, contextbuilder.DefaultTokenBudget)
	return contextbuilder.FormatForPrompt(snapshot), nil
}

func (h *ActHandler) emit(ev models.ExecutionEvent) {
	if h.onExec != nil {
		h.onExec(ev)
	}
}

// codeFromResponse prefers the modern single-"code"-field shape; falls back
// to joining actions' code (or wrapping a legacy command in
// debugger.execute_command) when the model used the older multi-action
// shape.
func codeFromResponse(resp models.TranslateResponse) string {
	if resp.Code != "" {
		return resp.Code
	}
	var parts []string
	for _, a := range resp.Actions {
		switch {
		case a.Code != "":
			parts = append(parts, a.Code)
		case a.Command != "":
			parts = append(parts, fmt.Sprintf("print(debugger.execute_command(%q).output)", a.Command))
		}
	}
	return strings.Join(parts, "\n")
}

func joinOutput(stdout, stderr string) string {
	if stderr == "" {
		return stdout
	}
	if stdout == "" {
		return stderr
	}
	return strings.TrimSpace(stdout + "\n" + stderr)
}
