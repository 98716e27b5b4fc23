package script

import (
	"fmt"
	"strings"
	"testing"
)

type testHandle struct {
	Label string
}

func (h *testHandle) Describe() string { return "handle:" + h.Label }

func (h *testHandle) Add(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative operand")
	}
	return a + b, nil
}

func TestMethodCallViaSelector(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("handle", Of(KindUserData, &testHandle{Label: "x"}))
	res := e.Execute(`print(handle.Describe())`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) != "handle:x" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestMethodCallResolvesSnakeCaseToPascalCase(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("handle", Of(KindUserData, &testHandle{Label: "y"}))
	res := e.Execute(`print(handle.describe())`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	if strings.TrimSpace(res.Stdout) != "handle:y" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestMethodCallPropagatesError(t *testing.T) {
	e := NewEngine()
	e.ns.Seed("handle", Of(KindUserData, &testHandle{Label: "x"}))
	res := e.Execute(`handle.Add(1, -1)`)
	if res.Success {
		t.Fatal("expected failure from method error return")
	}
	if !strings.Contains(res.Stderr, "negative operand") {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}

func TestBuiltinHexAndLen(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`print(hex(255))
print(len("abcd"))`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	if len(lines) != 2 || lines[0] != "0xff" || lines[1] != "4" {
		t.Fatalf("stdout lines = %v", lines)
	}
}

func TestBuiltinStrAndInt(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`print(str(7))
print(int("42"))`)
	if !res.Success {
		t.Fatalf("expected success, got stderr %q", res.Stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	if len(lines) != 2 || lines[0] != "7" || lines[1] != "42" {
		t.Fatalf("stdout lines = %v", lines)
	}
}
