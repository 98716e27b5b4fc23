package script

import (
	"reflect"
	"strings"
	"testing"
)

func TestExecuteBasicArithmeticAndPrint(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`x = 2 + 3 * 4
print(x)`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) != "14" {
		t.Fatalf("stdout = %q, want 14", res.Stdout)
	}
}

func TestExecuteIfElse(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`if 1 < 2 {
	print("yes")
} else {
	print("no")
}`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) != "yes" {
		t.Fatalf("stdout = %q, want yes", res.Stdout)
	}
}

func TestExecuteUndefinedNameIsCapturedAsStderr(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`print(missing_name)`)
	if res.Success {
		t.Fatalf("expected failure for undefined name")
	}
	if !strings.Contains(res.Stderr, "missing_name") {
		t.Fatalf("stderr = %q, want mention of missing_name", res.Stderr)
	}
}

func TestExecuteDoneSignalStopsExecution(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("done", OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		result := ""
		if len(args) > 0 {
			result = asString(args[0])
		}
		return reflect.Value{}, &doneSignal{Result: result}
	}))
	res := e.Execute(`print("before")
done("stopped here")
print("after")`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if !res.Done || res.DoneResult != "stopped here" {
		t.Fatalf("got Done=%v DoneResult=%q", res.Done, res.DoneResult)
	}
	if strings.Contains(res.Stdout, "after") {
		t.Fatalf("execution continued past done(): stdout %q", res.Stdout)
	}
}

func TestExecuteFinalValueSignal(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("final_value", OfCallable(func(args []reflect.Value) (reflect.Value, error) {
		name := asString(args[0])
		return reflect.Value{}, &finalValueSignal{Name: name}
	}))
	res := e.Execute(`answer = 42
final_value("answer")`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if !res.HasFinalValue || res.FinalValueName != "answer" {
		t.Fatalf("got HasFinalValue=%v FinalValueName=%q", res.HasFinalValue, res.FinalValueName)
	}
	if asInt(res.FinalValue.Raw) != 42 {
		t.Fatalf("final value = %v, want 42", res.FinalValue.Raw)
	}
}

func TestScaffoldRestoredAfterExecute(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("target_name", Of(KindPrimitive, "binary"))
	e.Execute(`target_name = "overwritten"`)
	v, ok := e.ns.Get("target_name")
	if !ok {
		t.Fatal("target_name missing after execute")
	}
	if v.Describe() != "binary" {
		t.Fatalf("scaffold not restored: got %q", v.Describe())
	}
}

func TestExecuteTruncatesLongOutput(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("long", Of(KindPrimitive, strings.Repeat("x", 2*MaxOutputBytes)))
	res := e.Execute(`print(long)`)
	if len(res.Stdout) > MaxOutputBytes+32 {
		t.Fatalf("stdout not bounded: %d bytes", len(res.Stdout))
	}
}
