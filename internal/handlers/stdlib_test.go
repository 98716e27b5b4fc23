package handlers

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ant4g0nist/morgul/internal/script"
)

func runStdlib(t *testing.T, code string) script.Result {
	t.Helper()
	e := script.NewEngine()
	SeedStdlibUtilities(e.Namespace())
	res := e.Execute(code)
	if res.Stderr != "" {
		t.Fatalf("unexpected stderr for %q: %s", code, res.Stderr)
	}
	return res
}

func TestStructPackUnpackRoundTrips(t *testing.T) {
	res := runStdlib(t, `print(struct_unpack_uint32(struct_pack_uint32(305419896)))`)
	if strings.TrimSpace(res.Stdout) != "305419896" {
		t.Fatalf("got %q", res.Stdout)
	}
}

func TestToHexOfPackedUint16(t *testing.T) {
	res := runStdlib(t, `print(to_hex(struct_pack_uint16(258)))`)
	if strings.TrimSpace(res.Stdout) != "0201" {
		t.Fatalf("got %q", res.Stdout)
	}
}

func TestJSONParseStringify(t *testing.T) {
	res := runStdlib(t, `parsed = json_parse("{\"pid\": 42}")
print(json_stringify(parsed))`)
	if !strings.Contains(res.Stdout, `"pid":42`) {
		t.Fatalf("got %q", res.Stdout)
	}
}

func TestRegexMatch(t *testing.T) {
	res := runStdlib(t, `print(regex_match("^0x[0-9a-f]+$", "0x1000"))`)
	if strings.TrimSpace(res.Stdout) != "true" {
		t.Fatalf("got %q", res.Stdout)
	}
}

func TestSortedAndUnique(t *testing.T) {
	e := script.NewEngine()
	SeedStdlibUtilities(e.Namespace())
	sortedVal, ok := e.Namespace().Get("sorted")
	if !ok || sortedVal.Fn == nil {
		t.Fatal("sorted not seeded as callable")
	}
	uniqueVal, ok := e.Namespace().Get("unique")
	if !ok || uniqueVal.Fn == nil {
		t.Fatal("unique not seeded as callable")
	}

	in := reflect.ValueOf([]uint64{3, 1, 2, 1})
	sortedOut, err := sortedVal.Fn([]reflect.Value{in})
	if err != nil {
		t.Fatal(err)
	}
	if got := sortedOut.Interface().([]uint64); len(got) != 4 || got[0] != 1 || got[3] != 3 {
		t.Fatalf("sorted: got %v", got)
	}

	uniqueOut, err := uniqueVal.Fn([]reflect.Value{in})
	if err != nil {
		t.Fatal(err)
	}
	if got := uniqueOut.Interface().([]uint64); len(got) != 3 {
		t.Fatalf("unique: got %v", got)
	}
}

func TestMinMaxAbs(t *testing.T) {
	res := runStdlib(t, `print(abs(-3))
print(min(2, 5))
print(max(2, 5))`)
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	if lines[0] != "3" || lines[1] != "2" || lines[2] != "5" {
		t.Fatalf("got %q", res.Stdout)
	}
}
