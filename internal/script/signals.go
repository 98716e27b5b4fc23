package script

// doneSignal and finalValueSignal are tagged results returned up through the
// statement-evaluation call stack to end execution early: a small state
// machine rather than non-local control flow (no panic/recover for control
// flow in this package). The types stay unexported; NewDoneSignal and
// NewFinalValueSignal let callers registering the done/final_value scaffold
// callables — the REPL agent — construct them.
type doneSignal struct {
	Result string
}

func (s *doneSignal) Error() string { return "done: " + s.Result }

// NewDoneSignal returns the error a done(text) callable should return to
// stop execution of the current fragment.
func NewDoneSignal(result string) error { return &doneSignal{Result: result} }

type finalValueSignal struct {
	Name  string
	Value Value
}

func (s *finalValueSignal) Error() string { return "final_value: " + s.Name }

// NewFinalValueSignal returns the error a final_value(name) callable should
// return to stop execution and have Execute capture the named variable.
func NewFinalValueSignal(name string) error { return &finalValueSignal{Name: name} }

// BudgetExceededError is raised into the script (as an ordinary error
// surfaced to stderr) when llm_query/llm_query_batched would exceed the
// per-iteration sub-query budget.
type BudgetExceededError struct {
	Limit int
}

func (e *BudgetExceededError) Error() string {
	return "sub-query budget exceeded (limit " + itoa(e.Limit) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
