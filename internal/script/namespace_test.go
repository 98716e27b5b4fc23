package script

import "testing"

func TestInjectToolsRejectsReservedName(t *testing.T) {
	ns := NewNamespace()
	_, err := ns.InjectTools(map[string]Value{
		"read_string": OfCallable(nil),
	}, nil)
	if err == nil {
		t.Fatal("expected a name conflict error")
	}
	if _, ok := err.(*NameConflictError); !ok {
		t.Fatalf("got error type %T, want *NameConflictError", err)
	}
}

func TestInjectToolsReturnsSortedPairs(t *testing.T) {
	ns := NewNamespace()
	pairs, err := ns.InjectTools(map[string]Value{
		"zebra": OfCallable(nil),
		"alpha": OfCallable(nil),
	}, map[string]string{"alpha": "does alpha things"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 || pairs[0][0] != "alpha" || pairs[1][0] != "zebra" {
		t.Fatalf("pairs not sorted: %v", pairs)
	}
	if pairs[0][1] != "does alpha things" {
		t.Fatalf("description not preserved: %v", pairs[0])
	}
}

func TestRestoreScaffoldOverwritesLiveRebinding(t *testing.T) {
	ns := NewNamespace()
	ns.Seed("frame", Of(KindPrimitive, 1))
	ns.Set("frame", Of(KindPrimitive, 999))
	ns.RestoreScaffold()
	v, _ := ns.Get("frame")
	if v.Describe() != "1" {
		t.Fatalf("scaffold not restored: got %q", v.Describe())
	}
}

func TestSnapshotVariablesSkipsScaffoldAndUnderscore(t *testing.T) {
	ns := NewNamespace()
	ns.Seed("target", Of(KindPrimitive, "scaffold"))
	ns.Set("_private", Of(KindPrimitive, "hidden"))
	ns.Set("visible", Of(KindPrimitive, "shown"))

	snap := ns.SnapshotVariables()
	if _, ok := snap["target"]; ok {
		t.Fatal("scaffold entry leaked into snapshot")
	}
	if _, ok := snap["_private"]; ok {
		t.Fatal("underscore-prefixed entry leaked into snapshot")
	}
	if snap["visible"] != "shown" {
		t.Fatalf("visible = %q, want shown", snap["visible"])
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"debugger", "done", "final_value", "print"} {
		if !IsReserved(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	if IsReserved("my_custom_tool") {
		t.Error("my_custom_tool should not be reserved")
	}
}
