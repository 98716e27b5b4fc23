package script

import (
	"strings"
	"testing"
)

func runPrint(t *testing.T, code string) string {
	t.Helper()
	e := NewEngine()
	res := e.Execute(code)
	if !res.Success {
		t.Fatalf("execute %q failed: %s", code, res.Stderr)
	}
	return strings.TrimSpace(res.Stdout)
}

func TestBinaryArithmetic(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{`print(10 / 4)`, "2"},
		{`print(10.0 / 4)`, "2.5"},
		{`print(10 % 3)`, "1"},
		{`print("a" + "b")`, "ab"},
		{`print(-5 + 2)`, "-3"},
	}
	for _, c := range cases {
		if got := runPrint(t, c.code); got != c.want {
			t.Errorf("%s => %q, want %q", c.code, got, c.want)
		}
	}
}

func TestBinaryComparison(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{`print(3 < 5)`, "true"},
		{`print(3 >= 5)`, "false"},
		{`print("abc" == "abc")`, "true"},
		{`print(1 != 2)`, "true"},
	}
	for _, c := range cases {
		if got := runPrint(t, c.code); got != c.want {
			t.Errorf("%s => %q, want %q", c.code, got, c.want)
		}
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	if got := runPrint(t, `print(false && true)`); got != "false" {
		t.Errorf("got %q", got)
	}
	if got := runPrint(t, `print(true || false)`); got != "true" {
		t.Errorf("got %q", got)
	}
}

func TestDivisionByZeroIsReportedAsError(t *testing.T) {
	e := NewEngine()
	res := e.Execute(`print(1 / 0)`)
	if res.Success {
		t.Fatal("expected division by zero to fail")
	}
	if !strings.Contains(res.Stderr, "division by zero") {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}
