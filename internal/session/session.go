// Package session ties the debugger façade, cache, translate engine, act/
// observe/extract handlers, and the two autonomous agent forms into the
// single object a CLI or host program drives. A Session owns exactly one
// debugger, one target, one process, one cache, and — once built — one
// REPL agent if the caller asks for a persistent one.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ant4g0nist/morgul/internal/agent"
	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/cache"
	"github.com/ant4g0nist/morgul/internal/config"
	"github.com/ant4g0nist/morgul/internal/handlers"
	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/internal/llm/providers"
	"github.com/ant4g0nist/morgul/internal/telemetry"
	"github.com/ant4g0nist/morgul/internal/translate"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// Session is the top-level handle: one debugger, one target, one process,
// one cache, lazily-instantiated handlers, and an optional persistent REPL
// agent. Start or Attach must succeed before Act/Extract/Observe/Agent are
// called; End tears everything down.
type Session struct {
	cfg      config.Config
	logger   *slog.Logger
	provider llm.Provider
	recorder *telemetry.Recorder

	dbg     *bridge.Debugger
	c       *cache.Cache
	engine  *translate.Engine

	act     *handlers.ActHandler
	observe *handlers.ObserveHandler
	extract *handlers.ExtractHandler

	persistentRepl *agent.REPLAgent
}

// sharedMetrics returns the process-wide Metrics instance, created once.
// promauto registers every collector against Prometheus's default registry,
// so a second construction within the same process would panic.
var sharedMetrics = sync.OnceValue(telemetry.NewMetrics)

// New builds a Session from cfg and backend. backend is the caller-supplied
// debugger driver — morgul ships no production Backend of its own (see
// bridge.Backend), so a host program plugs in whatever driver it has (an
// in-memory bridge.FakeBackend for tests and demos, a real driver in
// production). logger may be nil, in which case slog.Default() is used.
func New(cfg config.Config, backend bridge.Backend, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := newProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("construct llm provider: %w", err)
	}

	// Telemetry is ambient infrastructure, not a user-configurable toggle —
	// every session records provider/execution metrics unconditionally.
	// Metrics register against Prometheus's default registry at
	// construction, so every Session in a process shares one instance
	// (sharedMetrics) instead of each registering its own collectors.
	rec := telemetry.NewRecorder(sharedMetrics(), cfg.LLM.Provider, cfg.LLM.Model)
	provider = llm.Instrument(provider, rec.LLMCallback())

	var c *cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache.Directory, logger)
	}

	engine := translate.New(provider, c, logger)

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		recorder: rec,
		dbg:      bridge.NewDebugger(backend),
		c:        c,
		engine:   engine,
		observe:  handlers.NewObserveHandler(engine),
		extract:  handlers.NewExtractHandler(engine),
	}
	return s, nil
}

// defaultProviderTimeout bounds a single provider call. Not exposed in
// config (spec §6 names no such knob); the teacher's own provider configs
// use a similarly fixed default rather than a user-facing setting.
const defaultProviderTimeout = 60 * time.Second

// defaultProviderMaxRetries/defaultProviderRetryDelay bound Anthropic's
// built-in retry loop. Neither is part of spec §6's config schema.
const defaultProviderMaxRetries = 3
const defaultProviderRetryDelay = 2 // seconds

// newProvider constructs the configured llm.Provider. Temperature is
// deliberately not threaded through here — see DESIGN.md.
func newProvider(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return providers.NewAnthropicProvider(providers.AnthropicConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			MaxRetries:   defaultProviderMaxRetries,
			RetryDelay:   defaultProviderRetryDelay,
			DefaultModel: cfg.Model,
		})
	case "openai":
		return providers.NewOpenAIProvider(cfg.APIKey)
	case "ollama":
		return providers.NewOllamaProvider(providers.OllamaConfig{
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      defaultProviderTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// newActHandler (re)builds the act handler once a debugger target/process
// exists, mirroring the original's lazy act-handler construction: act needs
// a live process to execute against, while observe/extract only read the
// translate engine and so are built eagerly in New.
func (s *Session) newActHandler() {
	onExec := s.recorderExecCallback()
	s.act = handlers.NewActHandler(s.engine, s.c, s.cfg.Healing.Enabled, s.cfg.Healing.MaxRetries, onExec, s.logger)
}

func (s *Session) recorderExecCallback() models.ExecutionEventCallback {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.ExecutionCallback()
}

// Start loads path as a fresh debug target and launches it with args,
// instantiating the act handler now that a process exists.
func (s *Session) Start(ctx context.Context, path string, args []string) error {
	if _, err := s.dbg.CreateTarget(ctx, path); err != nil {
		return err
	}
	if _, err := s.dbg.Launch(ctx, path, args, nil); err != nil {
		return err
	}
	s.newActHandler()
	return nil
}

// Attach attaches to a running process by pid.
func (s *Session) Attach(ctx context.Context, pid int) error {
	if _, err := s.dbg.AttachByPID(ctx, pid); err != nil {
		return err
	}
	s.newActHandler()
	return nil
}

// AttachByName attaches to a running process by executable name.
func (s *Session) AttachByName(ctx context.Context, name string) error {
	if _, err := s.dbg.AttachByName(ctx, name); err != nil {
		return err
	}
	s.newActHandler()
	return nil
}

// requireProcess guards operations that need an attached target/process.
func (s *Session) requireProcess() error {
	if s.dbg.Process() == nil {
		return fmt.Errorf("session has no attached process: call Start or Attach first")
	}
	return nil
}

// Act translates instruction into code, runs it against the attached
// process, and self-heals on failure per the configured healing policy.
func (s *Session) Act(ctx context.Context, instruction string) (models.ActResult, error) {
	if err := s.requireProcess(); err != nil {
		return models.ActResult{}, err
	}
	return s.act.Act(ctx, instruction, s.dbg)
}

// Observe describes the current state and ranks suggested next actions
// without executing anything.
func (s *Session) Observe(ctx context.Context, instruction string) (models.ObserveResult, error) {
	if err := s.requireProcess(); err != nil {
		return models.ObserveResult{}, err
	}
	return s.observe.Observe(ctx, s.dbg, instruction)
}

// Extract asks the model to pull structured data matching schema out of the
// current state, described by instruction.
func (s *Session) Extract(ctx context.Context, instruction, schemaName string, schema json.RawMessage) (json.RawMessage, error) {
	if err := s.requireProcess(); err != nil {
		return nil, err
	}
	return s.extract.Extract(ctx, s.dbg, instruction, schemaName, schema)
}

// Agent runs the tool-loop agent to completion (or until maxSteps/timeout),
// returning every step it took.
func (s *Session) Agent(ctx context.Context, task string, strategy agent.Strategy, maxSteps int, timeout time.Duration, onStep func(models.AgentStep)) ([]models.AgentStep, error) {
	if err := s.requireProcess(); err != nil {
		return nil, err
	}
	a := agent.NewToolLoopAgent(s.provider, s.dbg, s.act, strategy, maxSteps, timeout, onStep)
	return a.Run(ctx, task)
}

// REPLAgent runs the REPL agent once. If the session was configured with a
// persistent REPL agent (via EnsurePersistentREPLAgent), that shared agent
// and its history are reused instead of a fresh one.
func (s *Session) REPLAgent(ctx context.Context, task string, maxIterations int) (models.ReplResult, error) {
	if err := s.requireProcess(); err != nil {
		return models.ReplResult{}, err
	}
	if s.persistentRepl != nil {
		return s.persistentRepl.Run(ctx, task)
	}
	a, err := agent.NewREPLAgent(s.provider, s.dbg, maxIterations, 0, false, nil, nil, s.recorderExecCallback())
	if err != nil {
		return models.ReplResult{}, err
	}
	return a.Run(ctx, task)
}

// EnsurePersistentREPLAgent builds (once) a REPL agent whose namespace and
// chat history survive across calls to REPLAgent, matching the original's
// "optionally one persistent REPL agent" session lifecycle.
func (s *Session) EnsurePersistentREPLAgent(maxIterations int) error {
	if err := s.requireProcess(); err != nil {
		return err
	}
	if s.persistentRepl != nil {
		return nil
	}
	a, err := agent.NewREPLAgent(s.provider, s.dbg, maxIterations, 0, true, nil, nil, s.recorderExecCallback())
	if err != nil {
		return err
	}
	s.persistentRepl = a
	return nil
}

// End kills the process, destroys the debugger, and drops the act handler
// and the persistent REPL agent. The observe and extract handlers, built in
// New, are kept. Safe to call on a session that never attached.
func (s *Session) End(ctx context.Context) error {
	s.act = nil
	s.persistentRepl = nil
	return s.dbg.End(ctx)
}
