package script

import (
	"strings"
	"sync"
	"time"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// MaxOutputBytes bounds the stdout/stderr captured from a single fragment;
// output beyond this is cut with a trailing truncation marker.
const MaxOutputBytes = 20000

// Engine owns the namespace and runs one fragment at a time: Execute holds
// the engine's mutex, so calls on one Engine run one after another. print()
// writes through a package-level writer that Execute rebinds, which Execute
// calls on different Engines share. The REPL agent and the act pipeline
// each own one Engine per session.
type Engine struct {
	ns     *Namespace
	mu     sync.Mutex
	onExec models.ExecutionEventCallback
}

// NewEngine returns an Engine with an empty namespace.
func NewEngine() *Engine {
	return &Engine{ns: NewNamespace()}
}

// Namespace returns the engine's namespace, for seeding debugger handles and
// injecting tools before the first Execute call.
func (e *Engine) Namespace() *Namespace { return e.ns }

// OnExecutionEvent registers the callback invoked around each Execute call.
func (e *Engine) OnExecutionEvent(cb models.ExecutionEventCallback) { e.onExec = cb }

// Result is what Execute returns to the caller: captured output plus
// whatever done()/final_value() signal (if any) ended the fragment.
type Result struct {
	Stdout         string
	Stderr         string
	Success        bool
	Duration       time.Duration
	Done           bool
	DoneResult     string
	FinalValueName string
	FinalValue     Value
	HasFinalValue  bool
}

// Execute parses and runs one code fragment against the engine's namespace.
// Scaffold entries are restored after the run regardless of outcome, and a
// runtime error is captured into Stderr rather than propagated — script
// failures are data, not control flow, for the caller.
func (e *Engine) Execute(code string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.emit(models.ExecutionEvent{Type: models.EventCodeStart, Code: code})

	var stdout, stderr strings.Builder
	setBuiltinWriter(&stdout)
	defer setBuiltinWriter(nil)

	res := Result{}
	defer e.ns.RestoreScaffold()

	stmts, err := parseFragment(code)
	if err != nil {
		stderr.WriteString("parse error: " + err.Error())
	} else {
		ip := &interp{ns: e.ns}
		sig, runErr := ip.run(stmts)
		switch s := sig.(type) {
		case *doneSignal:
			res.Done = true
			res.DoneResult = s.Result
		case *finalValueSignal:
			res.Done = true
			if v, ok := e.ns.Get(s.Name); ok {
				res.HasFinalValue = true
				res.FinalValueName = s.Name
				res.FinalValue = v
			} else {
				stderr.WriteString((&NameError{Name: s.Name}).Error())
			}
		}
		if runErr != nil {
			stderr.WriteString(runErr.Error())
		}
	}

	res.Stdout = truncate(stdout.String())
	res.Stderr = truncate(stderr.String())
	res.Success = res.Stderr == ""
	res.Duration = time.Since(start)

	e.emit(models.ExecutionEvent{
		Type:     models.EventCodeEnd,
		Code:     code,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Success:  res.Success,
		Duration: res.Duration,
	})
	return res
}

func (e *Engine) emit(ev models.ExecutionEvent) {
	if e.onExec != nil {
		e.onExec(ev)
	}
}

func truncate(s string) string {
	if len(s) <= MaxOutputBytes {
		return s
	}
	return s[:MaxOutputBytes] + "\n...[truncated]"
}
